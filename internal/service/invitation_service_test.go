package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mudaris-academy/portal-api/internal/invite"
	"github.com/mudaris-academy/portal-api/internal/models"
	"github.com/mudaris-academy/portal-api/internal/repository"
	"github.com/stretchr/testify/require"
)

type inviteFixture struct {
	users       *fakeUserRepo
	workspaces  *fakeWorkspaceRepo
	channels    *fakeChannelRepo
	invitations *fakeInvitationRepo
	sender      *fakeSender
	svc         InvitationService

	admin     *repository.User
	member    *repository.User
	outsider  *repository.User
	workspace *repository.Workspace
	private   *repository.Channel
}

func newInviteFixture(t *testing.T) *inviteFixture {
	t.Helper()
	ctx := context.Background()

	f := &inviteFixture{
		users:       newFakeUserRepo(),
		channels:    newFakeChannelRepo(),
		invitations: newFakeInvitationRepo(),
		sender:      newFakeSender(),
	}
	f.workspaces = newFakeWorkspaceRepo(f.users)

	f.admin = &repository.User{Name: "Asha", Email: "asha@example.com", Role: "admin"}
	f.member = &repository.User{Name: "Bilal", Email: "bilal@example.com", Role: "member"}
	f.outsider = &repository.User{Name: "Noor", Email: "noor@example.com", Role: "member"}
	require.NoError(t, f.users.Create(ctx, f.admin))
	require.NoError(t, f.users.Create(ctx, f.member))
	require.NoError(t, f.users.Create(ctx, f.outsider))

	f.workspace = &repository.Workspace{Name: "Tafsir Cohort", OwnerID: f.admin.ID}
	require.NoError(t, f.workspaces.Create(ctx, f.workspace))
	require.NoError(t, f.workspaces.AddMember(ctx, &repository.WorkspaceMember{
		WorkspaceID: f.workspace.ID, UserID: f.admin.ID, Role: "owner",
	}))
	require.NoError(t, f.workspaces.AddMember(ctx, &repository.WorkspaceMember{
		WorkspaceID: f.workspace.ID, UserID: f.member.ID, Role: "member",
	}))

	f.private = &repository.Channel{WorkspaceID: f.workspace.ID, Name: "mentors", Visibility: "private"}
	require.NoError(t, f.channels.Create(ctx, f.private))

	f.svc = NewInvitationService(
		f.invitations, f.workspaces, f.channels, f.users,
		nil, f.sender, nil, "https://mymudarisacademy.com/invite/verify",
	)
	return f
}

func TestComposeAndSend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("sends to merged text and csv addresses", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		resp, err := f.svc.ComposeAndSend(ctx, f.admin.ID, f.workspace.ID, &models.ComposeInviteRequest{
			EmailText:  "one@example.com, two@example.com",
			CSVData:    "two@example.com\nthree@example.com,Three",
			ChannelIDs: []string{f.private.ID},
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 3)
		for _, r := range resp.Results {
			require.Empty(t, r.Error)
		}
		require.Equal(t, 3, f.sender.sentCount())
	})

	t.Run("rejects whole batch before anything is sent", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name      string
			emailText string
			wantErr   error
		}{
			{"empty input", "   ", invite.ErrNoEmails},
			{"requester's own address", "asha@example.com", invite.ErrSelfInvite},
			{"existing member", "new@example.com, bilal@example.com", invite.ErrAlreadyMember},
		}
		for _, tc := range cases {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				f := newInviteFixture(t)

				_, err := f.svc.ComposeAndSend(ctx, f.admin.ID, f.workspace.ID, &models.ComposeInviteRequest{
					EmailText: tc.emailText,
				})
				require.ErrorIs(t, err, tc.wantErr)
				require.Zero(t, f.sender.sentCount())
				require.Empty(t, f.invitations.order)
			})
		}
	})

	t.Run("malformed address rejects the batch", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		_, err := f.svc.ComposeAndSend(ctx, f.admin.ID, f.workspace.ID, &models.ComposeInviteRequest{
			EmailText: "good@example.com, not-an-email",
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "not-an-email")
		require.Zero(t, f.sender.sentCount())
	})
}

func TestSendBatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reports outcome per address", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)
		f.sender.failTo["down@example.com"] = true

		resp, err := f.svc.SendBatch(ctx, f.admin.ID, &models.SendInviteRequest{
			WorkspaceID: f.workspace.ID,
			Emails:      []string{"ok@example.com", "broken", "bilal@example.com", "down@example.com"},
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 4)

		byEmail := make(map[string]string)
		for _, r := range resp.Results {
			byEmail[r.Email] = r.Error
		}
		require.Empty(t, byEmail["ok@example.com"])
		require.Equal(t, "invalid email address", byEmail["broken"])
		require.Equal(t, "already a member", byEmail["bilal@example.com"])
		require.Equal(t, "failed to send invitation email", byEmail["down@example.com"])

		// The delivery failure still leaves a pending invitation row.
		pending, err := f.invitations.FindPendingByEmail(ctx, "down@example.com")
		require.NoError(t, err)
		require.Len(t, pending, 1)
	})

	t.Run("deduplicates addresses within a request", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		resp, err := f.svc.SendBatch(ctx, f.admin.ID, &models.SendInviteRequest{
			WorkspaceID: f.workspace.ID,
			Emails:      []string{"One@Example.com", "one@example.com"},
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		require.Equal(t, 1, f.sender.sentCount())
	})

	t.Run("repeat invitation for a pending address is refused", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		_, err := f.svc.SendBatch(ctx, f.admin.ID, &models.SendInviteRequest{
			WorkspaceID: f.workspace.ID,
			Emails:      []string{"new@example.com"},
		})
		require.NoError(t, err)

		resp, err := f.svc.SendBatch(ctx, f.admin.ID, &models.SendInviteRequest{
			WorkspaceID: f.workspace.ID,
			Emails:      []string{"New@Example.com"},
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		require.Equal(t, "already invited", resp.Results[0].Error)
		require.Equal(t, 1, f.sender.sentCount())
	})

	t.Run("pending-check failure reports the address, creates nothing", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)
		f.invitations.pendingCheckErr = errors.New("connection reset")

		resp, err := f.svc.SendBatch(ctx, f.admin.ID, &models.SendInviteRequest{
			WorkspaceID: f.workspace.ID,
			Emails:      []string{"new@example.com"},
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		require.Equal(t, "failed to check existing invitations", resp.Results[0].Error)
		require.Empty(t, f.invitations.order)
		require.Zero(t, f.sender.sentCount())
	})

	t.Run("non-member sender is forbidden", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		_, err := f.svc.SendBatch(ctx, f.outsider.ID, &models.SendInviteRequest{
			WorkspaceID: f.workspace.ID,
			Emails:      []string{"someone@example.com"},
		})
		require.ErrorIs(t, err, ErrForbidden)
		require.Zero(t, f.sender.sentCount())
	})
}

func TestPublicLinkLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("absent until generated, active after, absent after revoke", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		link, err := f.svc.GetPublicLink(ctx, f.admin.ID, f.workspace.ID)
		require.NoError(t, err)
		require.Equal(t, "absent", link.State)
		require.False(t, link.CanCopy)

		link, err = f.svc.GeneratePublicLink(ctx, f.admin.ID, f.workspace.ID, 0)
		require.NoError(t, err)
		require.Equal(t, "active", link.State)
		require.True(t, link.CanCopy)
		require.NotEmpty(t, link.Token)
		require.Equal(t, "https://mymudarisacademy.com/invite/verify?token="+link.Token, link.URL)
		require.WithinDuration(t, time.Now().AddDate(0, 0, invite.DefaultExpirationDays), *link.ExpiresAt, time.Minute)

		link, err = f.svc.RevokePublicLink(ctx, f.admin.ID, f.workspace.ID, link.Token)
		require.NoError(t, err)
		require.Equal(t, "absent", link.State)

		link, err = f.svc.GetPublicLink(ctx, f.admin.ID, f.workspace.ID)
		require.NoError(t, err)
		require.Equal(t, "absent", link.State)
	})

	t.Run("regenerating replaces the visible link", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		first, err := f.svc.GeneratePublicLink(ctx, f.admin.ID, f.workspace.ID, 7)
		require.NoError(t, err)
		second, err := f.svc.GeneratePublicLink(ctx, f.admin.ID, f.workspace.ID, 30)
		require.NoError(t, err)
		require.NotEqual(t, first.Token, second.Token)

		link, err := f.svc.GetPublicLink(ctx, f.admin.ID, f.workspace.ID)
		require.NoError(t, err)
		require.Equal(t, second.Token, link.Token)
	})

	t.Run("only fixed durations are accepted", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		_, err := f.svc.GeneratePublicLink(ctx, f.admin.ID, f.workspace.ID, 14)
		require.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("expired link stays visible but cannot be copied", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		require.NoError(t, f.invitations.Create(ctx, &repository.Invitation{
			WorkspaceID: f.workspace.ID,
			InviteType:  "public",
			ExpiresAt:   time.Now().Add(-time.Hour),
		}))

		link, err := f.svc.GetPublicLink(ctx, f.admin.ID, f.workspace.ID)
		require.NoError(t, err)
		require.Equal(t, "expired", link.State)
		require.NotEmpty(t, link.Token)
		require.False(t, link.CanCopy)
	})

	t.Run("revoking an unknown token reports not found", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		_, err := f.svc.RevokePublicLink(ctx, f.admin.ID, f.workspace.ID, "no-such-token")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("revoke refuses a token from another workspace", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		other := &repository.Workspace{Name: "Hadith Circle", OwnerID: f.admin.ID}
		require.NoError(t, f.workspaces.Create(ctx, other))
		require.NoError(t, f.workspaces.AddMember(ctx, &repository.WorkspaceMember{
			WorkspaceID: other.ID, UserID: f.admin.ID, Role: "owner",
		}))

		link, err := f.svc.GeneratePublicLink(ctx, f.admin.ID, other.ID, 7)
		require.NoError(t, err)

		_, err = f.svc.RevokePublicLink(ctx, f.admin.ID, f.workspace.ID, link.Token)
		require.ErrorIs(t, err, ErrNotFound)

		current, err := f.svc.GetPublicLink(ctx, f.admin.ID, other.ID)
		require.NoError(t, err)
		require.Equal(t, "active", current.State)
	})
}

func TestVerifyToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown token is invalid", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		resp, err := f.svc.VerifyToken(ctx, "no-such-token")
		require.NoError(t, err)
		require.False(t, resp.Valid)
		require.False(t, resp.Expired)
	})

	t.Run("expired token reports expiry without deleting the record", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		addr := "late@example.com"
		inv := &repository.Invitation{
			WorkspaceID: f.workspace.ID,
			Email:       &addr,
			InviteType:  "email",
			ExpiresAt:   time.Now().Add(-time.Hour),
		}
		require.NoError(t, f.invitations.Create(ctx, inv))

		resp, err := f.svc.VerifyToken(ctx, inv.Token)
		require.NoError(t, err)
		require.False(t, resp.Valid)
		require.True(t, resp.Expired)

		still, err := f.invitations.FindByToken(ctx, inv.Token)
		require.NoError(t, err)
		require.NotNil(t, still)
	})

	t.Run("live token resolves the workspace", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		link, err := f.svc.GeneratePublicLink(ctx, f.admin.ID, f.workspace.ID, 7)
		require.NoError(t, err)

		resp, err := f.svc.VerifyToken(ctx, link.Token)
		require.NoError(t, err)
		require.True(t, resp.Valid)
		require.Equal(t, "public", resp.InviteType)
		require.Equal(t, f.workspace.ID, resp.WorkspaceID)
		require.Equal(t, "Tafsir Cohort", resp.WorkspaceName)
	})
}

func TestAccept(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sendTo := func(t *testing.T, f *inviteFixture, addr string) string {
		t.Helper()
		resp, err := f.svc.SendBatch(ctx, f.admin.ID, &models.SendInviteRequest{
			WorkspaceID: f.workspace.ID,
			Emails:      []string{addr},
			Channels:    []string{f.private.ID},
		})
		require.NoError(t, err)
		require.Empty(t, resp.Results[0].Error)

		pending, err := f.invitations.FindPendingByEmail(ctx, addr)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		return pending[0].Token
	}

	t.Run("email invite joins workspace and selected channels once", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)
		token := sendTo(t, f, "noor@example.com")

		ws, err := f.svc.Accept(ctx, f.outsider.ID, token)
		require.NoError(t, err)
		require.Equal(t, f.workspace.ID, ws.ID)

		isMember, err := f.workspaces.IsMember(ctx, f.workspace.ID, f.outsider.ID)
		require.NoError(t, err)
		require.True(t, isMember)
		require.Contains(t, f.channels.members[f.private.ID], f.outsider.ID)

		_, err = f.svc.Accept(ctx, f.outsider.ID, token)
		require.ErrorIs(t, err, ErrInviteUsed)
	})

	t.Run("email invite is bound to the invited address", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)
		token := sendTo(t, f, "someone.else@example.com")

		_, err := f.svc.Accept(ctx, f.outsider.ID, token)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("expired invite cannot be accepted", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		addr := "noor@example.com"
		inv := &repository.Invitation{
			WorkspaceID: f.workspace.ID,
			Email:       &addr,
			InviteType:  "email",
			ExpiresAt:   time.Now().Add(-time.Minute),
		}
		require.NoError(t, f.invitations.Create(ctx, inv))

		_, err := f.svc.Accept(ctx, f.outsider.ID, inv.Token)
		require.ErrorIs(t, err, ErrInviteExpired)
	})

	t.Run("public link is reusable until revoked", func(t *testing.T) {
		t.Parallel()
		f := newInviteFixture(t)

		link, err := f.svc.GeneratePublicLink(ctx, f.admin.ID, f.workspace.ID, 7)
		require.NoError(t, err)

		second := &repository.User{Name: "Omar", Email: "omar@example.com", Role: "member"}
		require.NoError(t, f.users.Create(ctx, second))

		_, err = f.svc.Accept(ctx, f.outsider.ID, link.Token)
		require.NoError(t, err)
		_, err = f.svc.Accept(ctx, second.ID, link.Token)
		require.NoError(t, err)

		for _, userID := range []string{f.outsider.ID, second.ID} {
			isMember, err := f.workspaces.IsMember(ctx, f.workspace.ID, userID)
			require.NoError(t, err)
			require.True(t, isMember)
		}
	})
}

func TestMyInvitations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInviteFixture(t)

	_, err := f.svc.SendBatch(ctx, f.admin.ID, &models.SendInviteRequest{
		WorkspaceID: f.workspace.ID,
		Emails:      []string{"noor@example.com"},
	})
	require.NoError(t, err)

	invitations, err := f.svc.MyInvitations(ctx, f.outsider.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 1)
	require.Equal(t, "Tafsir Cohort", invitations[0].WorkspaceName)
	require.Equal(t, "pending", invitations[0].Status)

	// Other users see nothing.
	invitations, err = f.svc.MyInvitations(ctx, f.member.ID)
	require.NoError(t, err)
	require.Empty(t, invitations)
}

// blockingSender parks the first delivery until released so tests can
// observe in-flight state.
type blockingSender struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingSender) SendInvitation(_, _, _, _ string) error {
	close(b.started)
	<-b.release
	return nil
}

func TestSendBatchRejectsConcurrentRequests(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInviteFixture(t)

	blocker := &blockingSender{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewInvitationService(
		f.invitations, f.workspaces, f.channels, f.users,
		nil, blocker, nil, "https://mymudarisacademy.com/invite/verify",
	)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendBatch(ctx, f.admin.ID, &models.SendInviteRequest{
			WorkspaceID: f.workspace.ID,
			Emails:      []string{"slow@example.com"},
		})
		done <- err
	}()

	<-blocker.started
	_, err := svc.SendBatch(ctx, f.admin.ID, &models.SendInviteRequest{
		WorkspaceID: f.workspace.ID,
		Emails:      []string{"second@example.com"},
	})
	require.ErrorIs(t, err, ErrBusy)

	close(blocker.release)
	require.NoError(t, <-done)
}

// blockingInvitationRepo parks the first Create until released so tests can
// observe in-flight state.
type blockingInvitationRepo struct {
	*fakeInvitationRepo
	started chan struct{}
	release chan struct{}
}

func (b *blockingInvitationRepo) Create(ctx context.Context, inv *repository.Invitation) error {
	close(b.started)
	<-b.release
	return b.fakeInvitationRepo.Create(ctx, inv)
}

func TestLinkMutationsRejectConcurrentRequests(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInviteFixture(t)

	blocker := &blockingInvitationRepo{
		fakeInvitationRepo: f.invitations,
		started:            make(chan struct{}),
		release:            make(chan struct{}),
	}
	svc := NewInvitationService(
		blocker, f.workspaces, f.channels, f.users,
		nil, f.sender, nil, "https://mymudarisacademy.com/invite/verify",
	)

	done := make(chan error, 1)
	go func() {
		_, err := svc.GeneratePublicLink(ctx, f.admin.ID, f.workspace.ID, 7)
		done <- err
	}()

	<-blocker.started
	_, err := svc.GeneratePublicLink(ctx, f.admin.ID, f.workspace.ID, 7)
	require.ErrorIs(t, err, ErrBusy)

	_, err = svc.RevokePublicLink(ctx, f.admin.ID, f.workspace.ID, "any-token")
	require.ErrorIs(t, err, ErrBusy)

	close(blocker.release)
	require.NoError(t, <-done)
}
