package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"partyplanner/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testTimeout = 2 * time.Second

// memStore is an in-memory database shared by the fake repositories. It also
// implements domain.RelationshipLookup directly.
type memStore struct {
	users       map[string]*domain.User
	parties     map[string]*domain.Party
	invitations map[string]*domain.Invitation
	items       map[string]*domain.Item
	seq         int
	err         error // if set, lookups return it
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*domain.User),
		parties:     make(map[string]*domain.Party),
		invitations: make(map[string]*domain.Invitation),
		items:       make(map[string]*domain.Item),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%03d", prefix, m.seq)
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// deleteInvitations removes the matching invitations and their items.
func (m *memStore) deleteInvitations(match func(*domain.Invitation) bool) {
	for id, inv := range m.invitations {
		if !match(inv) {
			continue
		}
		for itemID, it := range m.items {
			if it.InvitationID == id {
				delete(m.items, itemID)
			}
		}
		delete(m.invitations, id)
	}
}

// RelationshipLookup

func (m *memStore) IsCreator(_ context.Context, partyID, userID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	p, ok := m.parties[partyID]
	return ok && p.CreatorID == userID, nil
}

func (m *memStore) InvitationOf(_ context.Context, partyID, userID string) (*domain.Invitation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, inv := range m.invitations {
		if inv.PartyID == partyID && inv.UserID == userID {
			c := *inv
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memStore) InvitationByID(_ context.Context, id string) (*domain.Invitation, error) {
	if m.err != nil {
		return nil, m.err
	}
	if inv, ok := m.invitations[id]; ok {
		c := *inv
		return &c, nil
	}
	return nil, nil
}

func (m *memStore) ItemByID(_ context.Context, id string) (*domain.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	if it, ok := m.items[id]; ok {
		c := *it
		return &c, nil
	}
	return nil, nil
}

func (m *memStore) listInvitations(match func(*domain.Invitation) bool) []*domain.Invitation {
	var out []*domain.Invitation
	for _, id := range sortedKeys(m.invitations) {
		if inv := m.invitations[id]; match(inv) {
			c := *inv
			out = append(out, &c)
		}
	}
	return out
}

func (m *memStore) InvitationsForParty(_ context.Context, partyID string) ([]*domain.Invitation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.listInvitations(func(inv *domain.Invitation) bool { return inv.PartyID == partyID }), nil
}

func (m *memStore) InvitationsForUser(_ context.Context, userID string, side domain.InvitationSide) ([]*domain.Invitation, error) {
	if m.err != nil {
		return nil, m.err
	}
	if side == domain.SideInvitor {
		return m.listInvitations(func(inv *domain.Invitation) bool { return inv.InvitorID == userID }), nil
	}
	return m.listInvitations(func(inv *domain.Invitation) bool { return inv.UserID == userID }), nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct{ *memStore }

func (f fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, other := range f.users {
		if other.Username == u.Username {
			return domain.ErrUsernameTaken
		}
		if other.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	u.ID = f.nextID("user")
	c := *u
	f.users[u.ID] = &c
	return nil
}

func (f fakeUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	for _, u := range f.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.ID == id })
}

func (f fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.Username == username })
}

func (f fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.Email == email })
}

func (f fakeUserRepo) ListUsernames(_ context.Context, params domain.PaginationParams) ([]string, int, error) {
	names := []string{}
	for _, u := range f.users {
		names = append(names, u.Username)
	}
	sort.Strings(names)
	total := len(names)
	if limit := params.Limit(); limit > 0 {
		start := min(params.Offset(), total)
		names = names[start:min(start+limit, total)]
	}
	return names, total, nil
}

func (f fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, other := range f.users {
		if other.ID != u.ID && other.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	c := *u
	f.users[u.ID] = &c
	return nil
}

func (f fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	created := map[string]bool{}
	for pid, p := range f.parties {
		if p.CreatorID == id {
			created[pid] = true
		}
	}
	f.deleteInvitations(func(inv *domain.Invitation) bool {
		return inv.UserID == id || inv.InvitorID == id || created[inv.PartyID]
	})
	for pid := range created {
		delete(f.parties, pid)
	}
	delete(f.users, id)
	return nil
}

// fakePartyRepo is an in-memory PartyRepository for tests.
type fakePartyRepo struct{ *memStore }

func (f fakePartyRepo) Create(_ context.Context, p *domain.Party) error {
	if _, ok := f.users[p.CreatorID]; !ok {
		return domain.ErrUserNotFound
	}
	p.ID = f.nextID("party")
	c := *p
	f.parties[p.ID] = &c
	return nil
}

func (f fakePartyRepo) GetByID(_ context.Context, id string) (*domain.Party, error) {
	if p, ok := f.parties[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, domain.ErrPartyNotFound
}

func (f fakePartyRepo) list(match func(*domain.Party) bool) []*domain.Party {
	out := []*domain.Party{}
	for _, id := range sortedKeys(f.parties) {
		if p := f.parties[id]; match(p) {
			c := *p
			out = append(out, &c)
		}
	}
	return out
}

func (f fakePartyRepo) ListByCreatorID(_ context.Context, creatorID string) ([]*domain.Party, error) {
	return f.list(func(p *domain.Party) bool { return p.CreatorID == creatorID }), nil
}

func (f fakePartyRepo) ListByInviteeID(_ context.Context, userID string) ([]*domain.Party, error) {
	return f.list(func(p *domain.Party) bool {
		for _, inv := range f.invitations {
			if inv.PartyID == p.ID && inv.UserID == userID {
				return true
			}
		}
		return false
	}), nil
}

func (f fakePartyRepo) Update(_ context.Context, p *domain.Party) error {
	if _, ok := f.parties[p.ID]; !ok {
		return domain.ErrPartyNotFound
	}
	c := *p
	f.parties[p.ID] = &c
	return nil
}

func (f fakePartyRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.parties[id]; !ok {
		return domain.ErrPartyNotFound
	}
	f.deleteInvitations(func(inv *domain.Invitation) bool { return inv.PartyID == id })
	delete(f.parties, id)
	return nil
}

// fakeInvitationRepo is an in-memory InvitationRepository for tests.
type fakeInvitationRepo struct{ *memStore }

func (f fakeInvitationRepo) Create(_ context.Context, inv *domain.Invitation) error {
	for _, other := range f.invitations {
		if other.PartyID == inv.PartyID && other.UserID == inv.UserID {
			return domain.ErrDuplicateInvitation
		}
	}
	inv.ID = f.nextID("inv")
	c := *inv
	f.invitations[inv.ID] = &c
	return nil
}

func (f fakeInvitationRepo) Update(_ context.Context, inv *domain.Invitation) error {
	if _, ok := f.invitations[inv.ID]; !ok {
		return domain.ErrInvitationNotFound
	}
	c := *inv
	f.invitations[inv.ID] = &c
	return nil
}

func (f fakeInvitationRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.invitations[id]; !ok {
		return domain.ErrInvitationNotFound
	}
	f.deleteInvitations(func(inv *domain.Invitation) bool { return inv.ID == id })
	return nil
}

// fakeItemRepo is an in-memory ItemRepository for tests.
type fakeItemRepo struct{ *memStore }

func (f fakeItemRepo) Create(_ context.Context, it *domain.Item) error {
	it.ID = f.nextID("item")
	c := *it
	f.items[it.ID] = &c
	return nil
}

func (f fakeItemRepo) ListByInvitationIDs(_ context.Context, ids []string) ([]*domain.Item, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []*domain.Item{}
	for _, id := range sortedKeys(f.items) {
		if it := f.items[id]; want[it.InvitationID] {
			c := *it
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f fakeItemRepo) Update(_ context.Context, it *domain.Item) error {
	if _, ok := f.items[it.ID]; !ok {
		return domain.ErrItemNotFound
	}
	c := *it
	f.items[it.ID] = &c
	return nil
}

func (f fakeItemRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct{ err error }

func (f fakeTokenIssuer) Issue(userID, username string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID + "-" + username, nil
}

// fakeEmailService records every email request.
type fakeEmailService struct {
	mu            sync.Mutex
	invitations   []*domain.InvitationEmailData
	cancellations []*domain.PartyCancelledEmailData
	cancelCtxErr  error
	err           error
}

func (f *fakeEmailService) SendInvitation(_ context.Context, data *domain.InvitationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invitations = append(f.invitations, data)
	return f.err
}

func (f *fakeEmailService) SendPartyCancelled(ctx context.Context, data []*domain.PartyCancelledEmailData) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCtxErr = ctx.Err()
	f.cancellations = append(f.cancellations, data...)
	return nil
}

// testEnv wires every service over one memStore.
type testEnv struct {
	store       *memStore
	email       *fakeEmailService
	users       domain.UserService
	auth        domain.AuthService
	parties     domain.PartyService
	invitations domain.InvitationService
	items       domain.ItemService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	email := &fakeEmailService{}
	userRepo := fakeUserRepo{store}
	partyRepo := fakePartyRepo{store}
	return &testEnv{
		store:       store,
		email:       email,
		users:       NewUserService(userRepo, fakePasswordHasher{}, testTimeout),
		auth:        NewAuthService(userRepo, fakePasswordHasher{}, fakeTokenIssuer{}, time.Hour, testTimeout),
		parties:     NewPartyService(partyRepo, userRepo, store, email, testLogger, testTimeout),
		invitations: NewInvitationService(fakeInvitationRepo{store}, partyRepo, userRepo, store, email, testLogger, testTimeout),
		items:       NewItemService(fakeItemRepo{store}, partyRepo, store, testTimeout),
	}
}

// seedUser stores a user directly and returns it.
func (e *testEnv) seedUser(t *testing.T, username string) *domain.User {
	t.Helper()
	now := time.Now()
	u := domain.NewUser(username, "Test", username, username+"@party.test",
		time.Date(1995, 5, 5, 0, 0, 0, 0, time.UTC), domain.RelationshipSingle, now, now)
	u.Salt = "salt"
	u.PasswordHash = "hash-salt-password123"
	require.NoError(t, fakeUserRepo{e.store}.Create(context.Background(), u))
	return u
}

// seedParty creates a party owned by creator through the service.
func (e *testEnv) seedParty(t *testing.T, creator *domain.User, name string) *domain.Party {
	t.Helper()
	p := domain.NewParty(name, "Rooftop", time.Date(2026, 12, 31, 21, 0, 0, 0, time.UTC), "", nil, nil, "", time.Time{}, time.Time{})
	require.NoError(t, e.parties.Create(context.Background(), creator.ID, p))
	return p
}

// seedInvitation has inviter invite invitee and optionally sets a role directly in storage.
func (e *testEnv) seedInvitation(t *testing.T, party *domain.Party, inviter, invitee *domain.User, role domain.Role) *domain.Invitation {
	t.Helper()
	inv, err := e.invitations.Invite(context.Background(), inviter.ID, party.ID, invitee.Username)
	require.NoError(t, err)
	if role != domain.RoleParticipant {
		e.store.invitations[inv.ID].Role = role
		inv.Role = role
	}
	return inv
}

func requireForbidden(t *testing.T, err error, reason domain.DenialReason) {
	t.Helper()
	require.ErrorIs(t, err, domain.ErrForbidden)
	got, ok := domain.DenialReasonOf(err)
	require.True(t, ok, "expected a ForbiddenError, got %v", err)
	require.Equal(t, reason, got)
}
