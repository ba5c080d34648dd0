package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	UserRepo       UserRepository
	WorkspaceRepo  WorkspaceRepository
	ChannelRepo    ChannelRepository
	InvitationRepo InvitationRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:       NewUserRepository(pool),
		WorkspaceRepo:  NewWorkspaceRepository(pool),
		ChannelRepo:    NewChannelRepository(pool),
		InvitationRepo: NewInvitationRepository(pool),
	}
}
