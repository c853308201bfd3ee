package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"partyplanner/internal/domain"
)

const invitationColumns = `i.id, i.party_id, i.user_id, i.invitor_id, i.accepted, i.role, i.created_at`

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{DB: db}
}

func scanInvitation(row scanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var role string
	if err := row.Scan(&inv.ID, &inv.PartyID, &inv.UserID, &inv.InvitorID, &inv.Accepted, &role, &inv.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("invitation %s: %w", inv.ID, err)
	}
	inv.Role = parsed
	return inv, nil
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (party_id, user_id, invitor_id, accepted, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, inv.PartyID, inv.UserID, inv.InvitorID, inv.Accepted, inv.Role.String(), inv.CreatedAt).Scan(&inv.ID)
	if _, dup := uniqueConstraint(err); dup {
		return domain.ErrDuplicateInvitation
	}
	return missingReference(err)
}

func (r *invitationRepository) Update(ctx context.Context, inv *domain.Invitation) error {
	query := `UPDATE invitations SET accepted = $1, role = $2 WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, inv.Accepted, inv.Role.String(), inv.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// Delete removes the invitation and its items in one transaction.
func (r *invitationRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE invitation_id = $1`, id); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM invitations WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete invitation: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrInvitationNotFound
		}
		return nil
	})
}
