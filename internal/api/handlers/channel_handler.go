package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mudaris-academy/portal-api/internal/api/middleware"
	"github.com/mudaris-academy/portal-api/internal/models"
	"github.com/mudaris-academy/portal-api/internal/service"
)

// ============================================
// Channel Handler
// ============================================

type ChannelHandler struct {
	channelService service.ChannelService
}

// ListByWorkspace returns the workspace's channels, optionally narrowed by
// ?visibility= and a case-insensitive ?search= on the name.
func (h *ChannelHandler) ListByWorkspace(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	workspaceID := c.Param("id")
	visibility := c.Query("visibility")
	search := strings.ToLower(c.Query("search"))

	channels, err := h.channelService.ListChannels(c.Request.Context(), userID, workspaceID)
	if err != nil {
		if err == service.ErrForbidden {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this workspace"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch channels"})
		return
	}

	response := make([]models.ChannelResponse, 0, len(channels))
	for _, ch := range channels {
		if visibility != "" && ch.Visibility != visibility {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(ch.Name), search) {
			continue
		}
		response = append(response, models.ChannelResponse{
			ID:          ch.ID,
			WorkspaceID: ch.WorkspaceID,
			Name:        ch.Name,
			Visibility:  ch.Visibility,
			CreatedAt:   ch.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChannelHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	workspaceID := c.Param("id")

	var req models.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel, err := h.channelService.CreateChannel(c.Request.Context(), userID, workspaceID, &req)
	if err != nil {
		if err == service.ErrForbidden {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this workspace"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create channel"})
		return
	}

	c.JSON(http.StatusCreated, models.ChannelResponse{
		ID:          channel.ID,
		WorkspaceID: channel.WorkspaceID,
		Name:        channel.Name,
		Visibility:  channel.Visibility,
		CreatedAt:   channel.CreatedAt,
	})
}

// SearchPrivate powers the invite composer's channel picker: only private
// channels, filtered by name.
func (h *ChannelHandler) SearchPrivate(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	workspaceID := c.Param("id")
	query := c.Query("q")

	channels, err := h.channelService.SearchPrivate(c.Request.Context(), userID, workspaceID, query)
	if err != nil {
		if err == service.ErrForbidden {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this workspace"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search channels"})
		return
	}

	c.JSON(http.StatusOK, channels)
}
