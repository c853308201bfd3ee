package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"partyplanner/internal/domain"
)

func TestInvitationRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mock   func(mock sqlmock.Sqlmock)
		wantID string
		errIs  error
	}{
		{
			name: "success stores pending participant",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO invitations \(party_id, user_id, invitor_id, accepted, role, created_at\)`).
					WithArgs("party-1", "user-b", "user-a", false, "participant", now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("inv-1"))
			},
			wantID: "inv-1",
		},
		{
			name: "duplicate returns ErrDuplicateInvitation",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO invitations`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "invitations_party_user_key"})
			},
			errIs: domain.ErrDuplicateInvitation,
		},
		{
			name: "party deleted meanwhile returns ErrPartyNotFound",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO invitations`).
					WillReturnError(&pq.Error{Code: "23503", Constraint: "invitations_party_id_fkey"})
			},
			errIs: domain.ErrPartyNotFound,
		},
		{
			name: "invitee deleted meanwhile returns ErrUserNotFound",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO invitations`).
					WillReturnError(&pq.Error{Code: "23503", Constraint: "invitations_user_id_fkey"})
			},
			errIs: domain.ErrUserNotFound,
		},
		{
			name: "db error passes through",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO invitations`).
					WillReturnError(sql.ErrConnDone)
			},
			errIs: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			inv := domain.NewInvitation("party-1", "user-b", "user-a", now)
			err = NewInvitationRepository(db).Create(ctx, inv)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, inv.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInvitationRepository_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		affected int64
		errIs    error
	}{
		{name: "success", affected: 1},
		{name: "not found", affected: 0, errIs: domain.ErrInvitationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`UPDATE invitations SET accepted = \$1, role = \$2 WHERE id = \$3`).
				WithArgs(true, "invitor", "inv-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			inv := &domain.Invitation{ID: "inv-1", Accepted: true, Role: domain.RoleInvitor}
			err = NewInvitationRepository(db).Update(ctx, inv)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInvitationRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "removes items then invitation",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM items WHERE invitation_id = \$1`).
					WithArgs("inv-1").WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(`DELETE FROM invitations WHERE id = \$1`).
					WithArgs("inv-1").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "missing invitation rolls back",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM items`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`DELETE FROM invitations`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			errIs: domain.ErrInvitationNotFound,
		},
		{
			name: "begin failure",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(sql.ErrConnDone)
			},
			errIs: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewInvitationRepository(db).Delete(ctx, "inv-1")
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
