package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mudaris-academy/portal-api/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*repository.User
	rts   map[string]*repository.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[string]*repository.User),
		rts:   make(map[string]*repository.RefreshToken),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *repository.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *repository.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SaveRefreshToken(_ context.Context, rt *repository.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rt.ID == "" {
		rt.ID = uuid.New().String()
	}
	f.rts[rt.Token] = rt
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(_ context.Context, token string) (*repository.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rts[token], nil
}

func (f *fakeUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rts, token)
	return nil
}

func (f *fakeUserRepo) DeleteExpiredRefreshTokens(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for token, rt := range f.rts {
		if time.Now().After(rt.ExpiresAt) {
			delete(f.rts, token)
			n++
		}
	}
	return n, nil
}

type fakeWorkspaceRepo struct {
	mu         sync.Mutex
	workspaces map[string]*repository.Workspace
	members    map[string][]*repository.WorkspaceMember
	users      *fakeUserRepo
}

func newFakeWorkspaceRepo(users *fakeUserRepo) *fakeWorkspaceRepo {
	return &fakeWorkspaceRepo{
		workspaces: make(map[string]*repository.Workspace),
		members:    make(map[string][]*repository.WorkspaceMember),
		users:      users,
	}
}

func (f *fakeWorkspaceRepo) Create(_ context.Context, ws *repository.Workspace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ws.ID == "" {
		ws.ID = uuid.New().String()
	}
	ws.CreatedAt = time.Now()
	ws.UpdatedAt = ws.CreatedAt
	f.workspaces[ws.ID] = ws
	return nil
}

func (f *fakeWorkspaceRepo) FindByID(_ context.Context, id string) (*repository.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workspaces[id], nil
}

func (f *fakeWorkspaceRepo) FindByUserID(_ context.Context, userID string) ([]*repository.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.Workspace
	for wsID, members := range f.members {
		for _, m := range members {
			if m.UserID == userID {
				out = append(out, f.workspaces[wsID])
				break
			}
		}
	}
	return out, nil
}

func (f *fakeWorkspaceRepo) AddMember(_ context.Context, member *repository.WorkspaceMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members[member.WorkspaceID] {
		if m.UserID == member.UserID {
			m.Role = member.Role
			return nil
		}
	}
	if member.ID == "" {
		member.ID = strconv.Itoa(len(f.members[member.WorkspaceID]) + 1)
	}
	member.JoinedAt = time.Now()
	f.members[member.WorkspaceID] = append(f.members[member.WorkspaceID], member)
	return nil
}

func (f *fakeWorkspaceRepo) FindMembers(ctx context.Context, workspaceID string) ([]*repository.WorkspaceMember, error) {
	f.mu.Lock()
	members := append([]*repository.WorkspaceMember(nil), f.members[workspaceID]...)
	f.mu.Unlock()
	for _, m := range members {
		if m.User == nil {
			m.User, _ = f.users.FindByID(ctx, m.UserID)
		}
	}
	return members, nil
}

func (f *fakeWorkspaceRepo) FindMemberEmails(ctx context.Context, workspaceID string) ([]string, error) {
	members, _ := f.FindMembers(ctx, workspaceID)
	var emails []string
	for _, m := range members {
		if m.User != nil {
			emails = append(emails, m.User.Email)
		}
	}
	return emails, nil
}

func (f *fakeWorkspaceRepo) IsMember(_ context.Context, workspaceID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members[workspaceID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeChannelRepo struct {
	mu       sync.Mutex
	channels map[string]*repository.Channel
	members  map[string][]string // channel ID -> user IDs
	order    []string
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{
		channels: make(map[string]*repository.Channel),
		members:  make(map[string][]string),
	}
}

func (f *fakeChannelRepo) Create(_ context.Context, ch *repository.Channel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	if ch.Visibility == "" {
		ch.Visibility = "public"
	}
	ch.CreatedAt = time.Now()
	f.channels[ch.ID] = ch
	f.order = append(f.order, ch.ID)
	return nil
}

func (f *fakeChannelRepo) FindByID(_ context.Context, id string) (*repository.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channels[id], nil
}

func (f *fakeChannelRepo) FindByWorkspace(_ context.Context, workspaceID string) ([]*repository.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.Channel
	for _, id := range f.order {
		if f.channels[id].WorkspaceID == workspaceID {
			out = append(out, f.channels[id])
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) FindFirstByWorkspace(ctx context.Context, workspaceID string) (*repository.Channel, error) {
	channels, _ := f.FindByWorkspace(ctx, workspaceID)
	if len(channels) == 0 {
		return nil, nil
	}
	return channels[0], nil
}

func (f *fakeChannelRepo) AddMember(_ context.Context, channelID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.members[channelID] {
		if existing == userID {
			return nil
		}
	}
	f.members[channelID] = append(f.members[channelID], userID)
	return nil
}

type fakeInvitationRepo struct {
	mu              sync.Mutex
	invitations     map[string]*repository.Invitation // keyed by token
	order           []string
	activities      []*repository.InvitationActivity
	pendingCheckErr error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[string]*repository.Invitation)}
}

func (f *fakeInvitationRepo) Create(_ context.Context, inv *repository.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.Token == "" {
		inv.Token = uuid.New().String()
	}
	if inv.Status == "" {
		inv.Status = "pending"
	}
	inv.CreatedAt = time.Now()
	f.invitations[inv.Token] = inv
	f.order = append(f.order, inv.Token)
	return nil
}

func (f *fakeInvitationRepo) FindByToken(_ context.Context, token string) (*repository.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invitations[token], nil
}

func (f *fakeInvitationRepo) FindLatestPublic(_ context.Context, workspaceID string) (*repository.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.order) - 1; i >= 0; i-- {
		inv, ok := f.invitations[f.order[i]]
		if ok && inv.WorkspaceID == workspaceID && inv.InviteType == "public" {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) FindPendingByEmail(_ context.Context, email string) ([]*repository.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.Invitation
	for i := len(f.order) - 1; i >= 0; i-- {
		inv, ok := f.invitations[f.order[i]]
		if ok && inv.Status == "pending" && inv.Email != nil && strings.EqualFold(*inv.Email, email) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) HasPendingEmail(_ context.Context, workspaceID, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pendingCheckErr != nil {
		return false, f.pendingCheckErr
	}
	for _, inv := range f.invitations {
		if inv.WorkspaceID == workspaceID && inv.InviteType == "email" && inv.Status == "pending" &&
			!inv.IsExpired() && inv.Email != nil && strings.EqualFold(*inv.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitationRepo) MarkAccepted(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.ID == id {
			inv.Status = "accepted"
			return nil
		}
	}
	return nil
}

func (f *fakeInvitationRepo) DeleteByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.invitations, token)
	return nil
}

func (f *fakeInvitationRepo) DeleteExpiredEmailInvites(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for token, inv := range f.invitations {
		if inv.InviteType == "email" && inv.Status == "pending" && inv.IsExpired() {
			delete(f.invitations, token)
			n++
		}
	}
	return n, nil
}

func (f *fakeInvitationRepo) LogActivity(_ context.Context, activity *repository.InvitationActivity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	activity.CreatedAt = time.Now()
	f.activities = append(f.activities, activity)
	return nil
}

// fakeSender records delivered invitations and optionally fails for
// specific addresses.
type fakeSender struct {
	mu     sync.Mutex
	sent   []string
	failTo map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failTo: make(map[string]bool)}
}

func (f *fakeSender) SendInvitation(to, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo[strings.ToLower(to)] {
		return errSMTPDown
	}
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

var errSMTPDown = &smtpError{}

type smtpError struct{}

func (e *smtpError) Error() string { return "smtp connection refused" }
