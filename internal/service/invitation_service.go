package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mudaris-academy/portal-api/internal/cache"
	"github.com/mudaris-academy/portal-api/internal/invite"
	"github.com/mudaris-academy/portal-api/internal/models"
	"github.com/mudaris-academy/portal-api/internal/repository"
	"github.com/mudaris-academy/portal-api/internal/socket"
	"github.com/mudaris-academy/portal-api/internal/types"
)

// Email invitations carry a fixed 30-day window; public links carry their
// own selectable duration.
const emailInviteExpiryDays = 30

// InviteSender delivers one invitation email. The email package's Service
// satisfies it; tests substitute their own.
type InviteSender interface {
	SendInvitation(to, workspaceName, invitedBy, inviteURL string) error
}

// ============================================
// Invitation Service
// ============================================

type InvitationService interface {
	SendBatch(ctx context.Context, senderID string, req *models.SendInviteRequest) (*models.SendInviteResponse, error)
	ComposeAndSend(ctx context.Context, senderID, workspaceID string, req *models.ComposeInviteRequest) (*models.SendInviteResponse, error)
	GetPublicLink(ctx context.Context, userID, workspaceID string) (*models.PublicLinkResponse, error)
	GeneratePublicLink(ctx context.Context, userID, workspaceID string, expiresInDays int) (*models.PublicLinkResponse, error)
	RevokePublicLink(ctx context.Context, userID, workspaceID, token string) (*models.PublicLinkResponse, error)
	VerifyToken(ctx context.Context, token string) (*models.VerifyInviteResponse, error)
	Accept(ctx context.Context, userID, token string) (*repository.Workspace, error)
	MyInvitations(ctx context.Context, userID string) ([]*models.InvitationResponse, error)
}

type invitationService struct {
	invitationRepo repository.InvitationRepository
	workspaceRepo  repository.WorkspaceRepository
	channelRepo    repository.ChannelRepository
	userRepo       repository.UserRepository
	cache          *cache.Store
	sender         InviteSender
	broadcaster    *socket.Broadcaster
	baseURL        string
	guard          *actionGuard
}

func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	workspaceRepo repository.WorkspaceRepository,
	channelRepo repository.ChannelRepository,
	userRepo repository.UserRepository,
	cacheStore *cache.Store,
	sender InviteSender,
	broadcaster *socket.Broadcaster,
	baseURL string,
) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		workspaceRepo:  workspaceRepo,
		channelRepo:    channelRepo,
		userRepo:       userRepo,
		cache:          cacheStore,
		sender:         sender,
		broadcaster:    broadcaster,
		baseURL:        baseURL,
		guard:          newActionGuard(),
	}
}

// ============================================
// Sending
// ============================================

// SendBatch creates and delivers one email invitation per address. Failures
// are reported per address; one bad address never aborts the rest.
func (s *invitationService) SendBatch(ctx context.Context, senderID string, req *models.SendInviteRequest) (*models.SendInviteResponse, error) {
	if !s.guard.TryLock("send:" + req.WorkspaceID) {
		return nil, ErrBusy
	}
	defer s.guard.Unlock("send:" + req.WorkspaceID)

	sender, workspace, err := s.authorizeSender(ctx, senderID, req.WorkspaceID)
	if err != nil {
		return nil, err
	}

	workspaceName := req.WorkspaceName
	if workspaceName == "" {
		workspaceName = workspace.Name
	}

	memberEmails, err := s.memberEmails(ctx, req.WorkspaceID)
	if err != nil {
		return nil, err
	}
	members := make(map[string]bool, len(memberEmails))
	for _, m := range memberEmails {
		members[strings.ToLower(m)] = true
	}

	results := make([]models.InviteResult, 0, len(req.Emails))
	seen := make(map[string]bool, len(req.Emails))
	sent := 0

	for _, raw := range req.Emails {
		addr := strings.TrimSpace(raw)
		lower := strings.ToLower(addr)
		if seen[lower] {
			continue
		}
		seen[lower] = true

		result := models.InviteResult{Email: addr}

		switch {
		case !invite.IsValidEmail(addr):
			result.Error = "invalid email address"
		case lower == strings.ToLower(sender.Email):
			result.Error = "you cannot invite yourself"
		case members[lower]:
			result.Error = "already a member"
		default:
			pending, err := s.invitationRepo.HasPendingEmail(ctx, req.WorkspaceID, addr)
			switch {
			case err != nil:
				log.Printf("📨 [Invite] Failed to check pending invite for %s: %v", addr, err)
				result.Error = "failed to check existing invitations"
			case pending:
				result.Error = "already invited"
			default:
				result.Error = s.sendOne(ctx, sender, workspace, workspaceName, addr, req.Channels)
			}
		}

		if result.Error == "" {
			sent++
		}
		results = append(results, result)
	}

	log.Printf("📨 [Invite] Batch for workspace %s: %d sent, %d failed",
		req.WorkspaceID, sent, len(results)-sent)

	if sent > 0 {
		s.broadcaster.BroadcastInvitationSent(req.WorkspaceID, map[string]interface{}{
			"workspaceId": req.WorkspaceID,
			"count":       sent,
		}, senderID)
	}

	return &models.SendInviteResponse{Results: results}, nil
}

// sendOne persists and mails a single invitation, returning a per-address
// error string or "".
func (s *invitationService) sendOne(ctx context.Context, sender *repository.User, workspace *repository.Workspace, workspaceName, addr string, channelIDs []string) string {
	invitation := &repository.Invitation{
		WorkspaceID: workspace.ID,
		Email:       &addr,
		InviteType:  types.InviteEmail,
		ChannelIDs:  channelIDs,
		InvitedBy:   &sender.ID,
		ExpiresAt:   time.Now().AddDate(0, 0, emailInviteExpiryDays),
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		log.Printf("📨 [Invite] Failed to create invitation for %s: %v", addr, err)
		return "failed to create invitation"
	}

	s.logActivity(ctx, invitation.ID, types.ActionCreated, &sender.ID)

	if s.sender == nil {
		return "failed to send invitation email"
	}
	if err := s.sender.SendInvitation(addr, workspaceName, sender.Name, invite.URL(s.baseURL, invitation.Token)); err != nil {
		return "failed to send invitation email"
	}
	return ""
}

// ComposeAndSend runs the composer pipeline: parse free-text and CSV input,
// merge, validate the batch as a whole, then send. A validation failure
// rejects the whole batch before anything is persisted or mailed.
func (s *invitationService) ComposeAndSend(ctx context.Context, senderID, workspaceID string, req *models.ComposeInviteRequest) (*models.SendInviteResponse, error) {
	sender, workspace, err := s.authorizeSender(ctx, senderID, workspaceID)
	if err != nil {
		return nil, err
	}

	memberEmails, err := s.memberEmails(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	batch, err := invite.BuildBatch(req.EmailText, req.CSVData, req.ChannelIDs, sender.Email, memberEmails)
	if err != nil {
		return nil, err
	}

	return s.SendBatch(ctx, senderID, &models.SendInviteRequest{
		WorkspaceID:   workspaceID,
		Emails:        batch.Emails,
		WorkspaceName: workspace.Name,
		Channels:      batch.ChannelIDs,
	})
}

// ============================================
// Public link lifecycle
// ============================================

func (s *invitationService) GetPublicLink(ctx context.Context, userID, workspaceID string) (*models.PublicLinkResponse, error) {
	if _, _, err := s.authorizeSender(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	record, err := s.invitationRepo.FindLatestPublic(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load public link: %w", err)
	}
	return s.toLinkResponse(record), nil
}

func (s *invitationService) GeneratePublicLink(ctx context.Context, userID, workspaceID string, expiresInDays int) (*models.PublicLinkResponse, error) {
	if !s.guard.TryLock("link:" + workspaceID) {
		return nil, ErrBusy
	}
	defer s.guard.Unlock("link:" + workspaceID)

	if _, _, err := s.authorizeSender(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	if expiresInDays == 0 {
		expiresInDays = invite.DefaultExpirationDays
	}
	if !invite.ValidExpiration(expiresInDays) {
		return nil, ErrInvalidDuration
	}

	invitation := &repository.Invitation{
		WorkspaceID: workspaceID,
		InviteType:  types.InvitePublic,
		InvitedBy:   &userID,
		ExpiresAt:   time.Now().AddDate(0, 0, expiresInDays),
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to create public link: %w", err)
	}

	s.logActivity(ctx, invitation.ID, types.ActionCreated, &userID)

	resp := s.toLinkResponse(invitation)

	s.broadcaster.BroadcastLinkGenerated(workspaceID, map[string]interface{}{
		"workspaceId": workspaceID,
		"expiresAt":   invitation.ExpiresAt,
	}, userID)

	log.Printf("🔗 [Invite] Public link generated for workspace %s, expires in %d days", workspaceID, expiresInDays)

	return resp, nil
}

// RevokePublicLink deletes the public link record for the given token. The
// link returns to the absent state; the deleted token stops verifying
// immediately.
func (s *invitationService) RevokePublicLink(ctx context.Context, userID, workspaceID, token string) (*models.PublicLinkResponse, error) {
	if !s.guard.TryLock("link:" + workspaceID) {
		return nil, ErrBusy
	}
	defer s.guard.Unlock("link:" + workspaceID)

	if _, _, err := s.authorizeSender(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	record, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load public link: %w", err)
	}
	if record == nil || record.InviteType != types.InvitePublic || record.WorkspaceID != workspaceID {
		return nil, ErrNotFound
	}

	if err := s.invitationRepo.DeleteByToken(ctx, record.Token); err != nil {
		return nil, fmt.Errorf("failed to revoke public link: %w", err)
	}

	s.broadcaster.BroadcastLinkRevoked(workspaceID, userID)

	log.Printf("🔗 [Invite] Public link revoked for workspace %s", workspaceID)

	return s.toLinkResponse(nil), nil
}

func (s *invitationService) toLinkResponse(record *repository.Invitation) *models.PublicLinkResponse {
	if record == nil {
		return &models.PublicLinkResponse{State: string(invite.LinkAbsent)}
	}

	expiresAt := record.ExpiresAt
	state := invite.StateAt(&expiresAt, time.Now())
	return &models.PublicLinkResponse{
		State:     string(state),
		Token:     record.Token,
		URL:       invite.URL(s.baseURL, record.Token),
		ExpiresAt: &expiresAt,
		CanCopy:   invite.CanCopy(state),
	}
}

// ============================================
// Verification and acceptance
// ============================================

// VerifyToken reports whether a token is usable, without requiring auth.
// Verification never mutates the record: expired invitations stay in place.
func (s *invitationService) VerifyToken(ctx context.Context, token string) (*models.VerifyInviteResponse, error) {
	invitation, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if invitation == nil {
		return &models.VerifyInviteResponse{Valid: false}, nil
	}
	if invitation.IsExpired() {
		return &models.VerifyInviteResponse{Valid: false, Expired: true}, nil
	}
	if invitation.InviteType == types.InviteEmail && invitation.Status == types.InviteAccepted {
		return &models.VerifyInviteResponse{Valid: false}, nil
	}

	resp := &models.VerifyInviteResponse{
		Valid:       true,
		InviteType:  invitation.InviteType,
		WorkspaceID: invitation.WorkspaceID,
		ExpiresAt:   invitation.ExpiresAt,
	}
	if workspace, err := s.workspaceRepo.FindByID(ctx, invitation.WorkspaceID); err == nil && workspace != nil {
		resp.WorkspaceName = workspace.Name
	}
	return resp, nil
}

// Accept joins the user to the invitation's workspace and channels. Email
// invitations are single-use and bound to the invited address; public links
// are reusable until they expire or are revoked.
func (s *invitationService) Accept(ctx context.Context, userID, token string) (*repository.Workspace, error) {
	invitation, err := s.invitationRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if invitation == nil {
		return nil, ErrNotFound
	}
	if invitation.IsExpired() {
		return nil, ErrInviteExpired
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if invitation.InviteType == types.InviteEmail {
		if invitation.Status == types.InviteAccepted {
			return nil, ErrInviteUsed
		}
		if invitation.Email == nil || !strings.EqualFold(*invitation.Email, user.Email) {
			return nil, ErrForbidden
		}
	}

	workspace, err := s.workspaceRepo.FindByID(ctx, invitation.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	if workspace == nil {
		return nil, ErrNotFound
	}

	member := &repository.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Role:        types.RoleMember,
	}
	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	for _, channelID := range invitation.ChannelIDs {
		if err := s.channelRepo.AddMember(ctx, channelID, userID); err != nil {
			log.Printf("📨 [Invite] Failed to join channel %s for user %s: %v", channelID, userID, err)
		}
	}

	if invitation.InviteType == types.InviteEmail {
		if err := s.invitationRepo.MarkAccepted(ctx, invitation.ID); err != nil {
			return nil, fmt.Errorf("failed to mark invitation accepted: %w", err)
		}
	}

	s.logActivity(ctx, invitation.ID, types.ActionAccepted, &userID)
	s.cache.Invalidate(ctx, cacheMemberEmails, workspace.ID)

	s.broadcaster.BroadcastInvitationAccepted(workspace.ID, map[string]interface{}{
		"workspaceId": workspace.ID,
		"userId":      userID,
		"userName":    user.Name,
	}, userID)

	log.Printf("📨 [Invite] User %s joined workspace %s via %s invite", userID, workspace.ID, invitation.InviteType)

	return workspace, nil
}

// MyInvitations lists the caller's pending email invitations across
// workspaces, newest first.
func (s *invitationService) MyInvitations(ctx context.Context, userID string) ([]*models.InvitationResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	invitations, err := s.invitationRepo.FindPendingByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	responses := make([]*models.InvitationResponse, 0, len(invitations))
	names := make(map[string]string)
	for _, inv := range invitations {
		resp := &models.InvitationResponse{
			ID:          inv.ID,
			WorkspaceID: inv.WorkspaceID,
			Email:       inv.Email,
			Token:       inv.Token,
			InviteType:  inv.InviteType,
			Status:      inv.Status,
			ExpiresAt:   inv.ExpiresAt,
			CreatedAt:   inv.CreatedAt,
		}
		name, ok := names[inv.WorkspaceID]
		if !ok {
			if workspace, err := s.workspaceRepo.FindByID(ctx, inv.WorkspaceID); err == nil && workspace != nil {
				name = workspace.Name
			}
			names[inv.WorkspaceID] = name
		}
		resp.WorkspaceName = name
		responses = append(responses, resp)
	}
	return responses, nil
}

// ============================================
// Helpers
// ============================================

// authorizeSender loads the acting user and workspace and requires
// membership.
func (s *invitationService) authorizeSender(ctx context.Context, userID, workspaceID string) (*repository.User, *repository.Workspace, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrNotFound
	}

	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	if workspace == nil {
		return nil, nil, ErrNotFound
	}

	isMember, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, nil, ErrForbidden
	}
	return user, workspace, nil
}

func (s *invitationService) memberEmails(ctx context.Context, workspaceID string) ([]string, error) {
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

func (s *invitationService) logActivity(ctx context.Context, invitationID, action string, actorID *string) {
	activity := &repository.InvitationActivity{
		InvitationID: invitationID,
		Action:       action,
		ActorID:      actorID,
	}
	if err := s.invitationRepo.LogActivity(ctx, activity); err != nil {
		log.Printf("📨 [Invite] Failed to log %s activity for %s: %v", action, invitationID, err)
	}
}
