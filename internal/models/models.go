package models

import "time"

// ============================================
// Auth
// ============================================

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ============================================
// Workspaces
// ============================================

type CreateWorkspaceRequest struct {
	Name        string  `json:"workspace_name" binding:"required"`
	Description *string `json:"description"`
	AvatarURL   *string `json:"avatar_url"`
}

type WorkspaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"workspace_name"`
	Description *string   `json:"description,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkspaceCardResponse carries what the dashboard grid needs for one card:
// the workspace, a member preview and a launch target.
type WorkspaceCardResponse struct {
	Workspace      WorkspaceResponse         `json:"workspace"`
	Members        []WorkspaceMemberResponse `json:"members"`
	MemberCount    int                       `json:"member_count"`
	FirstChannelID *string                   `json:"first_channel_id,omitempty"`
}

type WorkspaceMemberResponse struct {
	ID       string       `json:"id"`
	Role     string       `json:"role"`
	JoinedAt time.Time    `json:"joined_at"`
	User     UserResponse `json:"user"`
}

// ============================================
// Channels
// ============================================

type CreateChannelRequest struct {
	Name       string `json:"channel_name" binding:"required"`
	Visibility string `json:"visibility" binding:"omitempty,oneof=public private"`
}

type ChannelResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"channel_name"`
	Visibility  string    `json:"visibility"`
	CreatedAt   time.Time `json:"created_at"`
}

// ============================================
// Invitations
// ============================================

// SendInviteRequest is the wire contract of the invite-sending endpoint:
// pre-parsed addresses plus the channels invitees join on acceptance.
type SendInviteRequest struct {
	WorkspaceID   string   `json:"workspace_id" binding:"required"`
	Emails        []string `json:"emails" binding:"required"`
	WorkspaceName string   `json:"workspaceName"`
	Channels      []string `json:"channels"`
}

// ComposeInviteRequest carries raw composer input; the server performs the
// parse/merge/validation pass before anything is persisted.
type ComposeInviteRequest struct {
	EmailText  string   `json:"email_text"`
	CSVData    string   `json:"csv_data"`
	ChannelIDs []string `json:"channel_ids"`
}

// InviteResult reports the outcome for a single submitted address. Error is
// empty when that address succeeded.
type InviteResult struct {
	Email string `json:"email"`
	Error string `json:"error,omitempty"`
}

type SendInviteResponse struct {
	Results []InviteResult `json:"results"`
}

type GenerateLinkRequest struct {
	ExpiresInDays int `json:"expires_in_days"`
}

// PublicLinkResponse describes the workspace's public link in one of three
// states: absent, active or expired. URL and expiry are only present when a
// record exists; CanCopy is false for expired links.
type PublicLinkResponse struct {
	State     string     `json:"state"`
	Token     string     `json:"token,omitempty"`
	URL       string     `json:"url,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CanCopy   bool       `json:"can_copy"`
}

type AcceptLinkRequest struct {
	Token string `json:"token" binding:"required"`
}

type VerifyInviteResponse struct {
	Valid         bool      `json:"valid"`
	Expired       bool      `json:"expired"`
	InviteType    string    `json:"invite_type,omitempty"`
	WorkspaceID   string    `json:"workspace_id,omitempty"`
	WorkspaceName string    `json:"workspace_name,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitempty"`
}

type InvitationResponse struct {
	ID            string    `json:"id"`
	WorkspaceID   string    `json:"workspace_id"`
	WorkspaceName string    `json:"workspace_name,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Token         string    `json:"token"`
	InviteType    string    `json:"invite_type"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}
