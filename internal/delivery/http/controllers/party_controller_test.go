package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partyplanner/internal/delivery/http/helpers"
	"partyplanner/internal/domain"
)

func TestPartyController_Create(t *testing.T) {
	tests := []struct {
		name       string
		actor      string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "created",
			actor:      "user-1",
			body:       `{"name":"Launch","location":"Rooftop","date":"2026-12-31T21:00:00Z","minimum_age":18}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "age bounds",
			actor:      "user-1",
			body:       `{"name":"Launch","location":"Rooftop","date":"2026-12-31T21:00:00Z","minimum_age":30,"maximum_age":18}`,
			err:        domain.ErrAgeBounds,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   helpers.ErrCodeInvalidState,
		},
		{
			name:       "missing date",
			actor:      "user-1",
			body:       `{"name":"Launch","location":"Rooftop"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "creator cannot be chosen",
			actor:      "user-1",
			body:       `{"name":"Launch","location":"Rooftop","date":"2026-12-31T21:00:00Z","creator_id":"user-2"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "unauthenticated",
			body:       `{"name":"Launch","location":"Rooftop","date":"2026-12-31T21:00:00Z"}`,
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePartyService{err: tt.err}
			ctrl := NewPartyController(testLogger, fake)
			rr, env := serve(t, ctrl.Create, request{method: http.MethodPost, target: "/parties", body: tt.body, actor: tt.actor})

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
				return
			}
			var got domain.Party
			decodeData(t, env, &got)
			assert.Equal(t, testPartyID, got.ID)
			assert.Equal(t, "user-1", got.CreatorID)
			assert.Equal(t, time.Date(2026, 12, 31, 21, 0, 0, 0, time.UTC), got.Date.UTC())
			require.NotNil(t, got.MinimumAge)
			assert.Equal(t, 18, *got.MinimumAge)
			assert.Nil(t, got.MaximumAge)
			assert.Equal(t, "user-1", fake.lastActor)
		})
	}
}

func TestPartyController_Get(t *testing.T) {
	tests := []struct {
		name       string
		partyID    string
		err        error
		wantStatus int
		wantCode   string
		wantReason string
	}{
		{name: "ok", partyID: testPartyID, wantStatus: http.StatusOK},
		{name: "invalid id", partyID: "launch", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "not invited", partyID: testPartyID, err: domain.Forbidden(domain.DenyNotInvited), wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden, wantReason: "not_invited"},
		{name: "missing", partyID: testPartyID, err: domain.ErrPartyNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePartyService{party: &domain.Party{ID: testPartyID, Name: "Launch"}, err: tt.err}
			ctrl := NewPartyController(testLogger, fake)
			rr, env := serve(t, ctrl.Get, request{
				method: http.MethodGet, target: "/parties/" + tt.partyID, actor: "user-1", path: map[string]string{"partyID": tt.partyID},
			})

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
				assert.Equal(t, tt.wantReason, env.Error.Reason)
				return
			}
			assert.Equal(t, testPartyID, fake.lastPartyID)
		})
	}
}

func TestPartyController_Lists(t *testing.T) {
	fake := &fakePartyService{
		mine: &domain.MyParties{Created: []*domain.Party{{ID: "p1"}}, Invited: []*domain.Party{}},
	}
	ctrl := NewPartyController(testLogger, fake)

	rr, env := serve(t, ctrl.ListMine, request{method: http.MethodGet, target: "/parties", actor: "user-1"})
	require.Equal(t, http.StatusOK, rr.Code)
	var mine map[string][]domain.Party
	decodeData(t, env, &mine)
	assert.Len(t, mine["created_parties"], 1)
	assert.Empty(t, mine["invited_parties"])

	rr, env = serve(t, ctrl.ListByCreator, request{
		method: http.MethodGet, target: "/parties/user/alice", actor: "user-1", path: map[string]string{"username": "alice"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, string(env.Data), "an empty list is encoded as []")
}

func TestPartyController_UpdateAndDelete(t *testing.T) {
	t.Run("update forwards only set fields", func(t *testing.T) {
		fake := &fakePartyService{party: &domain.Party{ID: testPartyID, Name: "Launch v2"}}
		ctrl := NewPartyController(testLogger, fake)
		rr, _ := serve(t, ctrl.Update, request{
			method: http.MethodPatch, target: "/parties/" + testPartyID, actor: "user-1",
			path: map[string]string{"partyID": testPartyID}, body: `{"name":"Launch v2","maximum_age":40}`,
		})
		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, fake.lastPatch.Name)
		assert.Equal(t, "Launch v2", *fake.lastPatch.Name)
		require.NotNil(t, fake.lastPatch.MaximumAge)
		assert.Equal(t, 40, *fake.lastPatch.MaximumAge)
		assert.Nil(t, fake.lastPatch.Location)
		assert.Nil(t, fake.lastPatch.MinimumAge)
	})

	t.Run("update without fields", func(t *testing.T) {
		ctrl := NewPartyController(testLogger, &fakePartyService{})
		rr, _ := serve(t, ctrl.Update, request{
			method: http.MethodPatch, target: "/parties/" + testPartyID, actor: "user-1",
			path: map[string]string{"partyID": testPartyID}, body: `{}`,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("participant cannot delete", func(t *testing.T) {
		ctrl := NewPartyController(testLogger, &fakePartyService{err: domain.Forbidden(domain.DenyNotOrganizer)})
		rr, env := serve(t, ctrl.Delete, request{
			method: http.MethodDelete, target: "/parties/" + testPartyID, actor: "user-2", path: map[string]string{"partyID": testPartyID},
		})
		require.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "not_organizer", env.Error.Reason)
	})

	t.Run("delete", func(t *testing.T) {
		fake := &fakePartyService{}
		ctrl := NewPartyController(testLogger, fake)
		rr, _ := serve(t, ctrl.Delete, request{
			method: http.MethodDelete, target: "/parties/" + testPartyID, actor: "user-1", path: map[string]string{"partyID": testPartyID},
		})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, testPartyID, fake.lastPartyID)
		assert.Equal(t, "user-1", fake.lastActor)
	})
}
