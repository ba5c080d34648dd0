package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mudaris-academy/portal-api/internal/types"
)

type Channel struct {
	ID          string
	WorkspaceID string
	Name        string
	Visibility  string // "public" or "private"
	CreatedBy   *string
	CreatedAt   time.Time
}

type ChannelRepository interface {
	Create(ctx context.Context, channel *Channel) error
	FindByID(ctx context.Context, id string) (*Channel, error)
	FindByWorkspace(ctx context.Context, workspaceID string) ([]*Channel, error)
	FindFirstByWorkspace(ctx context.Context, workspaceID string) (*Channel, error)
	AddMember(ctx context.Context, channelID, userID string) error
}

type pgChannelRepository struct {
	pool *pgxpool.Pool
}

func NewChannelRepository(pool *pgxpool.Pool) ChannelRepository {
	return &pgChannelRepository{pool: pool}
}

func (r *pgChannelRepository) Create(ctx context.Context, channel *Channel) error {
	query := `
		INSERT INTO channels (workspace_id, channel_name, visibility, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if channel.Visibility == "" {
		channel.Visibility = types.VisibilityPublic
	}
	return r.pool.QueryRow(ctx, query,
		channel.WorkspaceID, channel.Name, channel.Visibility, channel.CreatedBy,
	).Scan(&channel.ID, &channel.CreatedAt)
}

func (r *pgChannelRepository) FindByID(ctx context.Context, id string) (*Channel, error) {
	query := `
		SELECT id, workspace_id, channel_name, visibility, created_by, created_at
		FROM channels WHERE id = $1
	`
	ch := &Channel{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ch.ID, &ch.WorkspaceID, &ch.Name, &ch.Visibility, &ch.CreatedBy, &ch.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (r *pgChannelRepository) FindByWorkspace(ctx context.Context, workspaceID string) ([]*Channel, error) {
	query := `
		SELECT id, workspace_id, channel_name, visibility, created_by, created_at
		FROM channels WHERE workspace_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []*Channel
	for rows.Next() {
		ch := &Channel{}
		if err := rows.Scan(
			&ch.ID, &ch.WorkspaceID, &ch.Name, &ch.Visibility, &ch.CreatedBy, &ch.CreatedAt,
		); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

func (r *pgChannelRepository) FindFirstByWorkspace(ctx context.Context, workspaceID string) (*Channel, error) {
	query := `
		SELECT id, workspace_id, channel_name, visibility, created_by, created_at
		FROM channels WHERE workspace_id = $1
		ORDER BY created_at
		LIMIT 1
	`
	ch := &Channel{}
	err := r.pool.QueryRow(ctx, query, workspaceID).Scan(
		&ch.ID, &ch.WorkspaceID, &ch.Name, &ch.Visibility, &ch.CreatedBy, &ch.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (r *pgChannelRepository) AddMember(ctx context.Context, channelID, userID string) error {
	query := `
		INSERT INTO channel_members (channel_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (channel_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, channelID, userID)
	return err
}
