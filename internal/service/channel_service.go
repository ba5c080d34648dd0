package service

import (
	"context"
	"fmt"

	"github.com/mudaris-academy/portal-api/internal/cache"
	"github.com/mudaris-academy/portal-api/internal/invite"
	"github.com/mudaris-academy/portal-api/internal/models"
	"github.com/mudaris-academy/portal-api/internal/repository"
)

const cacheChannels = "channels"

// ============================================
// Channel Service
// ============================================

type ChannelService interface {
	CreateChannel(ctx context.Context, userID, workspaceID string, req *models.CreateChannelRequest) (*repository.Channel, error)
	ListChannels(ctx context.Context, userID, workspaceID string) ([]*repository.Channel, error)
	SearchPrivate(ctx context.Context, userID, workspaceID, query string) ([]invite.Channel, error)
}

type channelService struct {
	channelRepo   repository.ChannelRepository
	workspaceRepo repository.WorkspaceRepository
	cache         *cache.Store
}

func NewChannelService(
	channelRepo repository.ChannelRepository,
	workspaceRepo repository.WorkspaceRepository,
	cacheStore *cache.Store,
) ChannelService {
	return &channelService{
		channelRepo:   channelRepo,
		workspaceRepo: workspaceRepo,
		cache:         cacheStore,
	}
}

func (s *channelService) CreateChannel(ctx context.Context, userID, workspaceID string, req *models.CreateChannelRequest) (*repository.Channel, error) {
	isMember, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, ErrForbidden
	}

	channel := &repository.Channel{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Visibility:  req.Visibility,
		CreatedBy:   &userID,
	}
	if err := s.channelRepo.Create(ctx, channel); err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	if err := s.channelRepo.AddMember(ctx, channel.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to join channel: %w", err)
	}

	s.cache.Invalidate(ctx, cacheChannels, workspaceID)

	return channel, nil
}

func (s *channelService) ListChannels(ctx context.Context, userID, workspaceID string) ([]*repository.Channel, error) {
	isMember, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, ErrForbidden
	}

	var channels []*repository.Channel
	if s.cache.Get(ctx, cacheChannels, workspaceID, &channels) {
		return channels, nil
	}

	channels, err = s.channelRepo.FindByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	s.cache.Set(ctx, cacheChannels, workspaceID, channels)
	return channels, nil
}

// SearchPrivate narrows the invite composer's channel picker: only private
// channels are listed, filtered by a case-insensitive name query.
func (s *channelService) SearchPrivate(ctx context.Context, userID, workspaceID, query string) ([]invite.Channel, error) {
	channels, err := s.ListChannels(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}

	all := make([]invite.Channel, 0, len(channels))
	for _, ch := range channels {
		all = append(all, invite.Channel{
			ID:         ch.ID,
			Name:       ch.Name,
			Visibility: ch.Visibility,
		})
	}
	return invite.FilterPrivate(all, query), nil
}
