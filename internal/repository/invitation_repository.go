package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mudaris-academy/portal-api/internal/types"
)

type Invitation struct {
	ID          string
	WorkspaceID string
	Email       *string // nil for public link records
	Token       string
	InviteType  string // "email" or "public"
	ChannelIDs  []string
	InvitedBy   *string
	Status      string // "pending" or "accepted"
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// IsExpired is derived from the timestamp on every read; expiry is never a
// stored flag.
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

type InvitationActivity struct {
	ID           string
	InvitationID string
	Action       string // created, accepted, revoked
	ActorID      *string
	CreatedAt    time.Time
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *Invitation) error
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	FindLatestPublic(ctx context.Context, workspaceID string) (*Invitation, error)
	FindPendingByEmail(ctx context.Context, email string) ([]*Invitation, error)
	HasPendingEmail(ctx context.Context, workspaceID, email string) (bool, error)
	MarkAccepted(ctx context.Context, id string) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpiredEmailInvites(ctx context.Context) (int, error)
	LogActivity(ctx context.Context, activity *InvitationActivity) error
}

type pgInvitationRepository struct {
	pool *pgxpool.Pool
}

func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &pgInvitationRepository{pool: pool}
}

func (r *pgInvitationRepository) Create(ctx context.Context, invitation *Invitation) error {
	if invitation.Token == "" {
		invitation.Token = uuid.New().String()
	}
	if invitation.Status == "" {
		invitation.Status = types.InvitePending
	}
	if invitation.ChannelIDs == nil {
		invitation.ChannelIDs = []string{}
	}
	query := `
		INSERT INTO invitations (workspace_id, email, token, invite_type, channel_ids, invited_by, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		invitation.WorkspaceID, invitation.Email, invitation.Token, invitation.InviteType,
		invitation.ChannelIDs, invitation.InvitedBy, invitation.Status, invitation.ExpiresAt,
	).Scan(&invitation.ID, &invitation.CreatedAt)
}

func (r *pgInvitationRepository) FindByToken(ctx context.Context, token string) (*Invitation, error) {
	query := `
		SELECT id, workspace_id, email, token, invite_type, channel_ids, invited_by, status, expires_at, created_at
		FROM invitations WHERE token = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, token))
}

// FindLatestPublic returns the most recently created public-type record for
// the workspace; the UI treats that one as "the" link.
func (r *pgInvitationRepository) FindLatestPublic(ctx context.Context, workspaceID string) (*Invitation, error) {
	query := `
		SELECT id, workspace_id, email, token, invite_type, channel_ids, invited_by, status, expires_at, created_at
		FROM invitations
		WHERE workspace_id = $1 AND invite_type = 'public'
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, workspaceID))
}

func (r *pgInvitationRepository) FindPendingByEmail(ctx context.Context, email string) ([]*Invitation, error) {
	query := `
		SELECT id, workspace_id, email, token, invite_type, channel_ids, invited_by, status, expires_at, created_at
		FROM invitations
		WHERE LOWER(email) = LOWER($1) AND status = 'pending'
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		inv := &Invitation{}
		if err := rows.Scan(
			&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Token, &inv.InviteType,
			&inv.ChannelIDs, &inv.InvitedBy, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, nil
}

// HasPendingEmail reports whether the address already has an unexpired
// pending email invitation for the workspace.
func (r *pgInvitationRepository) HasPendingEmail(ctx context.Context, workspaceID, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invitations
			WHERE workspace_id = $1 AND LOWER(email) = LOWER($2)
			  AND invite_type = 'email' AND status = 'pending' AND expires_at > NOW()
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, workspaceID, email).Scan(&exists)
	return exists, err
}

func (r *pgInvitationRepository) MarkAccepted(ctx context.Context, id string) error {
	query := `UPDATE invitations SET status = 'accepted' WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgInvitationRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM invitations WHERE token = $1`
	_, err := r.pool.Exec(ctx, query, token)
	return err
}

// DeleteExpiredEmailInvites sweeps stale per-email invitations. Public link
// records are exempt: an expired link stays visible until revoked or
// replaced.
func (r *pgInvitationRepository) DeleteExpiredEmailInvites(ctx context.Context) (int, error) {
	query := `
		DELETE FROM invitations
		WHERE invite_type = 'email' AND status = 'pending' AND expires_at < NOW()
	`
	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *pgInvitationRepository) LogActivity(ctx context.Context, activity *InvitationActivity) error {
	query := `
		INSERT INTO invitation_activities (invitation_id, action, actor_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, activity.InvitationID, activity.Action, activity.ActorID).
		Scan(&activity.ID, &activity.CreatedAt)
}

func (r *pgInvitationRepository) scanOne(row pgx.Row) (*Invitation, error) {
	inv := &Invitation{}
	err := row.Scan(
		&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Token, &inv.InviteType,
		&inv.ChannelIDs, &inv.InvitedBy, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}
