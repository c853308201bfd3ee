package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"partyplanner/internal/delivery/http/helpers"
	"partyplanner/internal/delivery/http/middleware"
	"partyplanner/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testPartyID      = "6f1c2d3e-4a5b-4c6d-8e7f-9a0b1c2d3e4f"
	testInvitationID = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
	testItemID       = "9f8e7d6c-5b4a-4938-8271-6a5b4c3d2e1f"
)

type request struct {
	method string
	target string
	body   string
	actor  string
	path   map[string]string
}

type envelope struct {
	Data  json.RawMessage   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// serve runs handler on req and decodes the response envelope.
func serve(t *testing.T, handler http.HandlerFunc, req request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body io.Reader
	if req.body != "" {
		body = strings.NewReader(req.body)
	}
	r := httptest.NewRequest(req.method, req.target, body)
	for k, v := range req.path {
		r.SetPathValue(k, v)
	}
	if req.actor != "" {
		r = r.WithContext(middleware.SetUserID(r.Context(), req.actor))
	}
	rr := httptest.NewRecorder()
	handler(rr, r)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr, env
}

func decodeData(t *testing.T, env envelope, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

type fakeAuthService struct {
	token string
	user  *domain.User
	err   error

	lastUsername string
}

func (f *fakeAuthService) Login(_ context.Context, username, _ string) (string, *domain.User, error) {
	f.lastUsername = username
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

type fakeUserService struct {
	user      *domain.User
	public    *domain.PublicProfile
	usernames []string
	total     int
	err       error

	lastActor    string
	lastUsername string
	lastRegister domain.RegisterInput
	lastPatch    domain.UserPatch
	lastParams   domain.PaginationParams
}

func (f *fakeUserService) Register(_ context.Context, in domain.RegisterInput) (*domain.User, error) {
	f.lastRegister = in
	return f.user, f.err
}

func (f *fakeUserService) GetProfile(_ context.Context, actorID, username string) (*domain.User, *domain.PublicProfile, error) {
	f.lastActor, f.lastUsername = actorID, username
	return f.user, f.public, f.err
}

func (f *fakeUserService) ListUsernames(_ context.Context, params domain.PaginationParams) ([]string, int, error) {
	f.lastParams = params
	return f.usernames, f.total, f.err
}

func (f *fakeUserService) Update(_ context.Context, actorID, username string, patch domain.UserPatch) (*domain.User, error) {
	f.lastActor, f.lastUsername, f.lastPatch = actorID, username, patch
	return f.user, f.err
}

func (f *fakeUserService) Delete(_ context.Context, actorID, username string) error {
	f.lastActor, f.lastUsername = actorID, username
	return f.err
}

type fakePartyService struct {
	party   *domain.Party
	parties []*domain.Party
	mine    *domain.MyParties
	err     error

	lastActor   string
	lastPartyID string
	lastCreated *domain.Party
	lastPatch   domain.PartyPatch
}

func (f *fakePartyService) Create(_ context.Context, actorID string, party *domain.Party) error {
	f.lastActor, f.lastCreated = actorID, party
	if f.err != nil {
		return f.err
	}
	party.ID = testPartyID
	party.CreatorID = actorID
	return nil
}

func (f *fakePartyService) Get(_ context.Context, actorID, partyID string) (*domain.Party, error) {
	f.lastActor, f.lastPartyID = actorID, partyID
	return f.party, f.err
}

func (f *fakePartyService) ListMine(_ context.Context, actorID string) (*domain.MyParties, error) {
	f.lastActor = actorID
	return f.mine, f.err
}

func (f *fakePartyService) ListByCreator(_ context.Context, actorID, _ string) ([]*domain.Party, error) {
	f.lastActor = actorID
	return f.parties, f.err
}

func (f *fakePartyService) Update(_ context.Context, actorID, partyID string, patch domain.PartyPatch) (*domain.Party, error) {
	f.lastActor, f.lastPartyID, f.lastPatch = actorID, partyID, patch
	return f.party, f.err
}

func (f *fakePartyService) Delete(_ context.Context, actorID, partyID string) error {
	f.lastActor, f.lastPartyID = actorID, partyID
	return f.err
}

type fakeInvitationService struct {
	invitation  *domain.Invitation
	invitations []*domain.Invitation
	mine        *domain.MyInvitations
	err         error

	lastActor    string
	lastPartyID  string
	lastUsername string
	lastID       string
	lastUpdate   domain.InvitationUpdate
}

func (f *fakeInvitationService) Invite(_ context.Context, actorID, partyID, username string) (*domain.Invitation, error) {
	f.lastActor, f.lastPartyID, f.lastUsername = actorID, partyID, username
	return f.invitation, f.err
}

func (f *fakeInvitationService) ListMine(_ context.Context, actorID string) (*domain.MyInvitations, error) {
	f.lastActor = actorID
	return f.mine, f.err
}

func (f *fakeInvitationService) ListForParty(_ context.Context, actorID, partyID string) ([]*domain.Invitation, error) {
	f.lastActor, f.lastPartyID = actorID, partyID
	return f.invitations, f.err
}

func (f *fakeInvitationService) Update(_ context.Context, actorID, id string, upd domain.InvitationUpdate) (*domain.Invitation, error) {
	f.lastActor, f.lastID, f.lastUpdate = actorID, id, upd
	return f.invitation, f.err
}

func (f *fakeInvitationService) Delete(_ context.Context, actorID, id string) error {
	f.lastActor, f.lastID = actorID, id
	return f.err
}

type fakeItemService struct {
	item  *domain.Item
	items []*domain.Item
	err   error

	lastActor string
	lastID    string
	lastInput domain.ItemInput
	lastPatch domain.ItemPatch
}

func (f *fakeItemService) Create(_ context.Context, actorID, invitationID string, in domain.ItemInput) (*domain.Item, error) {
	f.lastActor, f.lastID, f.lastInput = actorID, invitationID, in
	return f.item, f.err
}

func (f *fakeItemService) ListMine(_ context.Context, actorID string) ([]*domain.Item, error) {
	f.lastActor = actorID
	return f.items, f.err
}

func (f *fakeItemService) Get(_ context.Context, actorID, itemID string) (*domain.Item, error) {
	f.lastActor, f.lastID = actorID, itemID
	return f.item, f.err
}

func (f *fakeItemService) ListForParty(_ context.Context, actorID, partyID string) ([]*domain.Item, error) {
	f.lastActor, f.lastID = actorID, partyID
	return f.items, f.err
}

func (f *fakeItemService) Update(_ context.Context, actorID, itemID string, patch domain.ItemPatch) (*domain.Item, error) {
	f.lastActor, f.lastID, f.lastPatch = actorID, itemID, patch
	return f.item, f.err
}

func (f *fakeItemService) Delete(_ context.Context, actorID, itemID string) error {
	f.lastActor, f.lastID = actorID, itemID
	return f.err
}
