package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"partyplanner/internal/domain"
)

// Postgres SQLSTATE codes.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// missingReferences maps foreign keys to the not-found error of the row they
// point at. A row can vanish between the service lookup and the insert, or
// belong to an account deleted while its token is still valid.
var missingReferences = map[string]error{
	"parties_creator_id_fkey":     domain.ErrUserNotFound,
	"invitations_party_id_fkey":   domain.ErrPartyNotFound,
	"invitations_user_id_fkey":    domain.ErrUserNotFound,
	"invitations_invitor_id_fkey": domain.ErrUserNotFound,
	"items_invitation_id_fkey":    domain.ErrInvitationNotFound,
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// uniqueConstraint returns the violated constraint name when err is a unique violation.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// foreignKeyConstraint returns the violated constraint name when err is a foreign key violation.
func foreignKeyConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// missingReference turns a foreign key violation into the matching not-found
// error and returns any other error unchanged.
func missingReference(err error) error {
	constraint, ok := foreignKeyConstraint(err)
	if !ok {
		return err
	}
	if mapped, known := missingReferences[constraint]; known {
		return mapped
	}
	return fmt.Errorf("%w: %s", domain.ErrNotFound, constraint)
}

// withTx runs fn inside a transaction, rolling back when fn or the commit fails.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullableString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringFromNull(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}
