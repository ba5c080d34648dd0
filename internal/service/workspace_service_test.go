package service

import (
	"context"
	"testing"

	"github.com/mudaris-academy/portal-api/internal/models"
	"github.com/mudaris-academy/portal-api/internal/repository"
	"github.com/stretchr/testify/require"
)

func newWorkspaceService(f *inviteFixture) WorkspaceService {
	return NewWorkspaceService(f.workspaces, f.users, f.channels, nil, nil)
}

func TestCreateWorkspace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("admin gets an owner membership and a default channel", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)
		svc := newWorkspaceService(f)

		ws, err := svc.CreateWorkspace(ctx, f.admin.ID, &models.CreateWorkspaceRequest{Name: "Fiqh Circle"})
		require.NoError(t, err)
		require.NotEmpty(t, ws.ID)

		members, err := f.workspaces.FindMembers(ctx, ws.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		require.Equal(t, "owner", members[0].Role)

		first, err := f.channels.FindFirstByWorkspace(ctx, ws.ID)
		require.NoError(t, err)
		require.NotNil(t, first)
		require.Equal(t, "general", first.Name)
	})

	t.Run("regular members cannot create workspaces", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)
		svc := newWorkspaceService(f)

		_, err := svc.CreateWorkspace(ctx, f.member.ID, &models.CreateWorkspaceRequest{Name: "Rogue"})
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestListCards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInviteFixture(t)
	svc := newWorkspaceService(f)

	// Seed a public channel so cards have a launch target.
	general := &repository.Channel{WorkspaceID: f.workspace.ID, Name: "general", Visibility: "public"}
	require.NoError(t, f.channels.Create(ctx, general))

	cards, err := svc.ListCards(ctx, f.member.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	card := cards[0]
	require.Equal(t, f.workspace.ID, card.Workspace.ID)
	require.Equal(t, 2, card.MemberCount)
	require.Len(t, card.Members, 2)
	require.NotNil(t, card.FirstChannelID)
	require.Equal(t, f.private.ID, *card.FirstChannelID)

	// Non-members see an empty dashboard, not an error.
	cards, err = svc.ListCards(ctx, f.outsider.ID)
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestGetWorkspaceAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInviteFixture(t)
	svc := newWorkspaceService(f)

	ws, err := svc.GetWorkspace(ctx, f.member.ID, f.workspace.ID)
	require.NoError(t, err)
	require.Equal(t, "Tafsir Cohort", ws.Name)

	_, err = svc.GetWorkspace(ctx, f.outsider.ID, f.workspace.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetWorkspace(ctx, f.member.ID, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
