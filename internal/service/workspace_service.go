package service

import (
	"context"
	"fmt"

	"github.com/mudaris-academy/portal-api/internal/cache"
	"github.com/mudaris-academy/portal-api/internal/models"
	"github.com/mudaris-academy/portal-api/internal/repository"
	"github.com/mudaris-academy/portal-api/internal/socket"
	"github.com/mudaris-academy/portal-api/internal/types"
)

// Cached resources owned by this service.
const (
	cacheMemberEmails = "member_emails"
)

// How many members a dashboard card previews.
const memberPreviewLimit = 5

// ============================================
// Workspace Service
// ============================================

type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, userID string, req *models.CreateWorkspaceRequest) (*repository.Workspace, error)
	GetWorkspace(ctx context.Context, userID, workspaceID string) (*repository.Workspace, error)
	ListCards(ctx context.Context, userID string) ([]*models.WorkspaceCardResponse, error)
	GetMembers(ctx context.Context, userID, workspaceID string) ([]*repository.WorkspaceMember, error)
	MemberEmails(ctx context.Context, workspaceID string) ([]string, error)
	AddMember(ctx context.Context, workspaceID, userID, role string) error
}

type workspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	channelRepo   repository.ChannelRepository
	cache         *cache.Store
	broadcaster   *socket.Broadcaster
}

func NewWorkspaceService(
	workspaceRepo repository.WorkspaceRepository,
	userRepo repository.UserRepository,
	channelRepo repository.ChannelRepository,
	cacheStore *cache.Store,
	broadcaster *socket.Broadcaster,
) WorkspaceService {
	return &workspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		channelRepo:   channelRepo,
		cache:         cacheStore,
		broadcaster:   broadcaster,
	}
}

// CreateWorkspace is restricted to admin users. The creator becomes the
// owner member and gets a default public channel so the workspace is
// immediately enterable.
func (s *workspaceService) CreateWorkspace(ctx context.Context, userID string, req *models.CreateWorkspaceRequest) (*repository.Workspace, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if !user.IsAdmin() {
		return nil, ErrForbidden
	}

	workspace := &repository.Workspace{
		Name:        req.Name,
		Description: req.Description,
		AvatarURL:   req.AvatarURL,
		OwnerID:     userID,
	}
	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	member := &repository.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Role:        types.RoleOwner,
	}
	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add owner member: %w", err)
	}

	general := &repository.Channel{
		WorkspaceID: workspace.ID,
		Name:        "general",
		Visibility:  types.VisibilityPublic,
		CreatedBy:   &userID,
	}
	if err := s.channelRepo.Create(ctx, general); err != nil {
		return nil, fmt.Errorf("failed to create default channel: %w", err)
	}
	if err := s.channelRepo.AddMember(ctx, general.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to join default channel: %w", err)
	}

	s.broadcaster.BroadcastWorkspaceCreated(userID, map[string]interface{}{
		"id":             workspace.ID,
		"workspace_name": workspace.Name,
	})

	return workspace, nil
}

func (s *workspaceService) GetWorkspace(ctx context.Context, userID, workspaceID string) (*repository.Workspace, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	if workspace == nil {
		return nil, ErrNotFound
	}

	isMember, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, ErrForbidden
	}
	return workspace, nil
}

// ListCards builds the dashboard grid: every workspace the user belongs to,
// each with a member preview and the first channel to open on launch.
func (s *workspaceService) ListCards(ctx context.Context, userID string) ([]*models.WorkspaceCardResponse, error) {
	workspaces, err := s.workspaceRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	cards := make([]*models.WorkspaceCardResponse, 0, len(workspaces))
	for _, ws := range workspaces {
		members, err := s.workspaceRepo.FindMembers(ctx, ws.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list members for workspace %s: %w", ws.ID, err)
		}

		preview := make([]models.WorkspaceMemberResponse, 0, memberPreviewLimit)
		for _, m := range members {
			if len(preview) == memberPreviewLimit {
				break
			}
			preview = append(preview, toMemberResponse(m))
		}

		card := &models.WorkspaceCardResponse{
			Workspace:   toWorkspaceResponse(ws),
			Members:     preview,
			MemberCount: len(members),
		}

		first, err := s.channelRepo.FindFirstByWorkspace(ctx, ws.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find first channel for workspace %s: %w", ws.ID, err)
		}
		if first != nil {
			card.FirstChannelID = &first.ID
		}

		cards = append(cards, card)
	}
	return cards, nil
}

func (s *workspaceService) GetMembers(ctx context.Context, userID, workspaceID string) ([]*repository.WorkspaceMember, error) {
	isMember, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, ErrForbidden
	}
	return s.workspaceRepo.FindMembers(ctx, workspaceID)
}

// MemberEmails answers "who is already in this workspace" for invite
// validation. The list is cached; membership writers invalidate it.
func (s *workspaceService) MemberEmails(ctx context.Context, workspaceID string) ([]string, error) {
	var emails []string
	if s.cache.Get(ctx, cacheMemberEmails, workspaceID, &emails) {
		return emails, nil
	}

	emails, err := s.workspaceRepo.FindMemberEmails(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member emails: %w", err)
	}

	s.cache.Set(ctx, cacheMemberEmails, workspaceID, emails)
	return emails, nil
}

func (s *workspaceService) AddMember(ctx context.Context, workspaceID, userID, role string) error {
	member := &repository.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
	}
	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	s.cache.Invalidate(ctx, cacheMemberEmails, workspaceID)

	s.broadcaster.BroadcastMemberAdded(workspaceID, map[string]interface{}{
		"workspaceId": workspaceID,
		"userId":      userID,
		"role":        member.Role,
	}, userID)

	return nil
}

// ============================================
// Response mapping
// ============================================

func toWorkspaceResponse(ws *repository.Workspace) models.WorkspaceResponse {
	return models.WorkspaceResponse{
		ID:          ws.ID,
		Name:        ws.Name,
		Description: ws.Description,
		AvatarURL:   ws.AvatarURL,
		OwnerID:     ws.OwnerID,
		CreatedAt:   ws.CreatedAt,
		UpdatedAt:   ws.UpdatedAt,
	}
}

func toMemberResponse(m *repository.WorkspaceMember) models.WorkspaceMemberResponse {
	resp := models.WorkspaceMemberResponse{
		ID:       m.ID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
	if m.User != nil {
		resp.User = models.UserResponse{
			ID:     m.User.ID,
			Email:  m.User.Email,
			Name:   m.User.Name,
			Avatar: m.User.Avatar,
			Role:   m.User.Role,
		}
	}
	return resp
}
