package postgres

import (
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partyplanner/internal/domain"
)

func TestMissingReference(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		errIs error
	}{
		{name: "creator", err: &pq.Error{Code: "23503", Constraint: "parties_creator_id_fkey"}, errIs: domain.ErrUserNotFound},
		{name: "invitor", err: &pq.Error{Code: "23503", Constraint: "invitations_invitor_id_fkey"}, errIs: domain.ErrUserNotFound},
		{name: "party", err: &pq.Error{Code: "23503", Constraint: "invitations_party_id_fkey"}, errIs: domain.ErrPartyNotFound},
		{name: "invitation", err: &pq.Error{Code: "23503", Constraint: "items_invitation_id_fkey"}, errIs: domain.ErrInvitationNotFound},
		{name: "unknown foreign key is still not found", err: &pq.Error{Code: "23503", Constraint: "other_fkey"}, errIs: domain.ErrNotFound},
		{name: "unique violation untouched", err: &pq.Error{Code: "23505", Constraint: "users_email_key"}},
		{name: "driver error untouched", err: sql.ErrConnDone, errIs: sql.ErrConnDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := missingReference(tt.err)
			if tt.errIs != nil {
				require.ErrorIs(t, got, tt.errIs)
				return
			}
			assert.Equal(t, tt.err, got)
		})
	}

	assert.NoError(t, missingReference(nil))
}
