// internal/seed/seed.go
package seed

import (
	"context"
	"log"

	"github.com/mudaris-academy/portal-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// SeedData creates a development admin plus a demo workspace so the portal
// is usable straight after first boot. It is idempotent: an existing admin
// account means data is already in place.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	existing, _ := repos.UserRepo.FindByEmail(ctx, "admin@mymudarisacademy.com")
	if existing != nil {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial data...")

	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Admin - the only role allowed to create workspaces
	admin := &repository.User{
		Email:    "admin@mymudarisacademy.com",
		Password: string(password),
		Name:     "Portal Admin",
		Role:     "admin",
	}
	repos.UserRepo.Create(ctx, admin)

	// A regular member to test the invite flows against
	student := &repository.User{
		Email:    "student@mymudarisacademy.com",
		Password: string(password),
		Name:     "Sample Student",
		Role:     "member",
	}
	repos.UserRepo.Create(ctx, student)

	// Demo workspace with a public and a private channel
	workspace := &repository.Workspace{
		Name:    "Mudaris Academy",
		OwnerID: admin.ID,
	}
	repos.WorkspaceRepo.Create(ctx, workspace)
	repos.WorkspaceRepo.AddMember(ctx, &repository.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      admin.ID,
		Role:        "owner",
	})

	general := &repository.Channel{
		WorkspaceID: workspace.ID,
		Name:        "general",
		Visibility:  "public",
		CreatedBy:   &admin.ID,
	}
	repos.ChannelRepo.Create(ctx, general)
	repos.ChannelRepo.AddMember(ctx, general.ID, admin.ID)

	mentors := &repository.Channel{
		WorkspaceID: workspace.ID,
		Name:        "mentors",
		Visibility:  "private",
		CreatedBy:   &admin.ID,
	}
	repos.ChannelRepo.Create(ctx, mentors)
	repos.ChannelRepo.AddMember(ctx, mentors.ID, admin.ID)

	log.Println("[Seed] ✅ Seed data created (admin@mymudarisacademy.com / password123)")
}
