package cron

import (
	"context"
	"log"
	"time"

	"github.com/mudaris-academy/portal-api/internal/repository"
	"github.com/robfig/cron/v3"
)

// Scheduler handles scheduled maintenance jobs
type Scheduler struct {
	cron           *cron.Cron
	invitationRepo repository.InvitationRepository
	userRepo       repository.UserRepository
}

// NewScheduler creates a new scheduler
func NewScheduler(invitationRepo repository.InvitationRepository, userRepo repository.UserRepository) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every hour - sweep expired email invitations.
	// Public link records are never swept: an expired link stays on the
	// workspace until someone revokes or regenerates it.
	s.cron.AddFunc("0 * * * *", func() {
		log.Println("[Cron] Running expired invitation sweep...")
		s.sweepExpiredInvitations()
	})

	// Run every day at midnight - drop expired refresh tokens
	s.cron.AddFunc("0 0 * * *", func() {
		log.Println("[Cron] Running refresh token cleanup...")
		s.cleanupRefreshTokens()
	})

	s.cron.Start()
	log.Println("[Cron] ⏰ Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) sweepExpiredInvitations() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.invitationRepo.DeleteExpiredEmailInvites(ctx)
	if err != nil {
		log.Printf("[Cron] ❌ Expired invitation sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[Cron] 🧹 Removed %d expired email invitations", n)
	}
}

func (s *Scheduler) cleanupRefreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.userRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		log.Printf("[Cron] ❌ Refresh token cleanup failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[Cron] 🧹 Removed %d expired refresh tokens", n)
	}
}
