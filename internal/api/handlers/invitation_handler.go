package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mudaris-academy/portal-api/internal/api/middleware"
	"github.com/mudaris-academy/portal-api/internal/invite"
	"github.com/mudaris-academy/portal-api/internal/models"
	"github.com/mudaris-academy/portal-api/internal/service"
)

// ============================================
// Invitation Handler
// ============================================

type InvitationHandler struct {
	invitationService service.InvitationService
}

// Send accepts a pre-parsed address list and dispatches invitation emails,
// returning one result per address.
func (h *InvitationHandler) Send(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.SendInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.invitationService.SendBatch(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to send invitations")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ComposeBatch runs the full composer pipeline on raw input: parse free
// text and CSV, validate the batch, then send.
func (h *InvitationHandler) ComposeBatch(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	workspaceID := c.Param("id")

	var req models.ComposeInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.invitationService.ComposeAndSend(c.Request.Context(), userID, workspaceID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to send invitations")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InvitationHandler) GetPublicLink(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	workspaceID := c.Param("id")

	link, err := h.invitationService.GetPublicLink(c.Request.Context(), userID, workspaceID)
	if err != nil {
		h.respondError(c, err, "Failed to load invite link")
		return
	}

	c.JSON(http.StatusOK, link)
}

func (h *InvitationHandler) GenerateLink(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	workspaceID := c.Param("id")

	var req models.GenerateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.invitationService.GeneratePublicLink(c.Request.Context(), userID, workspaceID, req.ExpiresInDays)
	if err != nil {
		h.respondError(c, err, "Failed to generate invite link")
		return
	}

	c.JSON(http.StatusCreated, link)
}

func (h *InvitationHandler) RevokeLink(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	workspaceID := c.Param("id")
	token := c.Param("token")

	link, err := h.invitationService.RevokePublicLink(c.Request.Context(), userID, workspaceID, token)
	if err != nil {
		h.respondError(c, err, "Failed to revoke invite link")
		return
	}

	c.JSON(http.StatusOK, link)
}

// Verify checks a token without authentication so the join page can render
// before login.
func (h *InvitationHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	resp, err := h.invitationService.VerifyToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify token"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Accept joins the caller via an emailed invitation token.
func (h *InvitationHandler) Accept(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	h.acceptToken(c, userID, c.Param("token"))
}

// AcceptLink joins the caller via a shared public link token.
func (h *InvitationHandler) AcceptLink(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.AcceptLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.acceptToken(c, userID, req.Token)
}

func (h *InvitationHandler) acceptToken(c *gin.Context, userID, token string) {
	workspace, err := h.invitationService.Accept(c.Request.Context(), userID, token)
	if err != nil {
		h.respondError(c, err, "Failed to accept invitation")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workspace_id":   workspace.ID,
		"workspace_name": workspace.Name,
	})
}

func (h *InvitationHandler) MyInvitations(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	invitations, err := h.invitationService.MyInvitations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	c.JSON(http.StatusOK, invitations)
}

// respondError maps service errors onto HTTP statuses. Batch validation
// failures surface their message verbatim so the composer can show it.
func (h *InvitationHandler) respondError(c *gin.Context, err error, fallback string) {
	switch err {
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case service.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this workspace"})
	case service.ErrBusy:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case service.ErrInviteExpired:
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case service.ErrInviteUsed:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case service.ErrInvalidDuration:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case invite.ErrNoEmails, invite.ErrSelfInvite, invite.ErrAlreadyMember:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		var invalidEmails *invite.InvalidEmailsError
		if errors.As(err, &invalidEmails) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
