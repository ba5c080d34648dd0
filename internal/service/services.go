package service

import (
	"errors"

	"github.com/mudaris-academy/portal-api/internal/cache"
	"github.com/mudaris-academy/portal-api/internal/config"
	"github.com/mudaris-academy/portal-api/internal/email"
	"github.com/mudaris-academy/portal-api/internal/repository"
	"github.com/mudaris-academy/portal-api/internal/socket"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrBusy               = errors.New("another request for this action is still in progress")
	ErrInviteExpired      = errors.New("invitation has expired")
	ErrInviteUsed         = errors.New("invitation has already been used")
	ErrInvalidDuration    = errors.New("expiration must be 7, 15 or 30 days")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth       AuthService
	User       UserService
	Workspace  WorkspaceService
	Channel    ChannelService
	Invitation InvitationService
}

type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Cache       *cache.Store
	EmailSvc    *email.Service
	Broadcaster *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	var sender InviteSender
	if deps.EmailSvc != nil {
		sender = deps.EmailSvc
	}

	workspaceSvc := NewWorkspaceService(deps.Repos.WorkspaceRepo, deps.Repos.UserRepo, deps.Repos.ChannelRepo, deps.Cache, deps.Broadcaster)

	return &Services{
		Auth:       NewAuthService(deps.Config, deps.Repos.UserRepo),
		User:       NewUserService(deps.Repos.UserRepo),
		Workspace:  workspaceSvc,
		Channel:    NewChannelService(deps.Repos.ChannelRepo, deps.Repos.WorkspaceRepo, deps.Cache),
		Invitation: NewInvitationService(
			deps.Repos.InvitationRepo,
			deps.Repos.WorkspaceRepo,
			deps.Repos.ChannelRepo,
			deps.Repos.UserRepo,
			deps.Cache,
			sender,
			deps.Broadcaster,
			deps.Config.InviteBaseURL,
		),
	}
}
