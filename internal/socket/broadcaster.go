package socket

import (
	"fmt"
)

// Broadcaster provides high-level methods for broadcasting portal events.
// A nil Broadcaster is valid and drops every event, so callers never need
// to guard against the hub being disabled.
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	if hub == nil {
		return nil
	}
	return &Broadcaster{hub: hub}
}

// ============================================
// Workspace Broadcasting
// ============================================

// BroadcastWorkspaceCreated notifies the creator that their workspace is live
func (b *Broadcaster) BroadcastWorkspaceCreated(creatorID string, workspace map[string]interface{}) {
	if b == nil {
		return
	}
	b.hub.SendToUser(creatorID, MessageWorkspaceCreated, workspace)
}

// BroadcastMemberAdded broadcasts a new member joining to workspace members
func (b *Broadcaster) BroadcastMemberAdded(workspaceID string, member map[string]interface{}, excludeUserID string) {
	if b == nil {
		return
	}
	room := fmt.Sprintf("workspace:%s", workspaceID)
	b.hub.SendToRoom(room, MessageMemberAdded, member, excludeUserID)
}

// ============================================
// Channel Broadcasting
// ============================================

// BroadcastChannelCreated broadcasts channel creation to workspace members
func (b *Broadcaster) BroadcastChannelCreated(workspaceID string, channel map[string]interface{}, excludeUserID string) {
	if b == nil {
		return
	}
	room := fmt.Sprintf("workspace:%s", workspaceID)
	b.hub.SendToRoom(room, MessageChannelCreated, channel, excludeUserID)
}

// ============================================
// Invitation Broadcasting
// ============================================

// BroadcastInvitationSent tells workspace members invitations went out
func (b *Broadcaster) BroadcastInvitationSent(workspaceID string, payload map[string]interface{}, excludeUserID string) {
	if b == nil {
		return
	}
	room := fmt.Sprintf("workspace:%s", workspaceID)
	b.hub.SendToRoom(room, MessageInvitationSent, payload, excludeUserID)
}

// BroadcastInvitationAccepted tells workspace members an invitee joined
func (b *Broadcaster) BroadcastInvitationAccepted(workspaceID string, payload map[string]interface{}, excludeUserID string) {
	if b == nil {
		return
	}
	room := fmt.Sprintf("workspace:%s", workspaceID)
	b.hub.SendToRoom(room, MessageInvitationAccepted, payload, excludeUserID)
}

// BroadcastLinkGenerated announces a fresh public invite link to the workspace
func (b *Broadcaster) BroadcastLinkGenerated(workspaceID string, payload map[string]interface{}, excludeUserID string) {
	if b == nil {
		return
	}
	room := fmt.Sprintf("workspace:%s", workspaceID)
	b.hub.SendToRoom(room, MessageLinkGenerated, payload, excludeUserID)
}

// BroadcastLinkRevoked announces the public invite link was revoked
func (b *Broadcaster) BroadcastLinkRevoked(workspaceID string, excludeUserID string) {
	if b == nil {
		return
	}
	room := fmt.Sprintf("workspace:%s", workspaceID)
	b.hub.SendToRoom(room, MessageLinkRevoked, map[string]interface{}{
		"workspaceId": workspaceID,
	}, excludeUserID)
}

// SendToUsers sends a message to multiple specific users
func (b *Broadcaster) SendToUsers(userIDs []string, msgType MessageType, payload map[string]interface{}) {
	if b == nil {
		return
	}
	for _, userID := range userIDs {
		b.hub.SendToUser(userID, msgType, payload)
	}
}
