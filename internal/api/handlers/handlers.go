package handlers

import (
	"github.com/mudaris-academy/portal-api/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Workspace  *WorkspaceHandler
	Channel    *ChannelHandler
	Invitation *InvitationHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:       &AuthHandler{authService: services.Auth},
		User:       &UserHandler{userService: services.User},
		Workspace:  &WorkspaceHandler{workspaceService: services.Workspace},
		Channel:    &ChannelHandler{channelService: services.Channel},
		Invitation: &InvitationHandler{invitationService: services.Invitation},
	}
}
