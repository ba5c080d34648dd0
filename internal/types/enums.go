package types

// User roles
const (
	UserAdmin  = "admin"
	UserMember = "member"
)

// Workspace member roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Channel visibility values
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Invitation types
const (
	InviteEmail  = "email"
	InvitePublic = "public"
)

// Invitation status values
const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
)

// Invitation activity actions
const (
	ActionCreated  = "created"
	ActionAccepted = "accepted"
)

// Valid channel visibilities for validation
var ValidVisibilities = []string{VisibilityPublic, VisibilityPrivate}
