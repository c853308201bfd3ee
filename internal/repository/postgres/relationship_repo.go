package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partyplanner/internal/domain"
)

type relationshipLookup struct {
	DB *sql.DB
}

// NewRelationshipLookup returns the lookup used by permission checks. Every
// call reads committed state directly; nothing is cached.
func NewRelationshipLookup(db *sql.DB) domain.RelationshipLookup {
	return &relationshipLookup{DB: db}
}

func (r *relationshipLookup) IsCreator(ctx context.Context, partyID, userID string) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM parties WHERE id = $1 AND creator_id = $2)`
	if err := r.DB.QueryRowContext(ctx, query, partyID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *relationshipLookup) oneInvitation(ctx context.Context, where string, args ...any) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations i WHERE ` + where
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *relationshipLookup) InvitationOf(ctx context.Context, partyID, userID string) (*domain.Invitation, error) {
	return r.oneInvitation(ctx, "i.party_id = $1 AND i.user_id = $2", partyID, userID)
}

func (r *relationshipLookup) InvitationByID(ctx context.Context, id string) (*domain.Invitation, error) {
	return r.oneInvitation(ctx, "i.id = $1", id)
}

func (r *relationshipLookup) ItemByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *relationshipLookup) listInvitations(ctx context.Context, where string, arg any) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations i WHERE ` + where + ` ORDER BY i.created_at, i.id`
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *relationshipLookup) InvitationsForParty(ctx context.Context, partyID string) ([]*domain.Invitation, error) {
	return r.listInvitations(ctx, "i.party_id = $1", partyID)
}

func (r *relationshipLookup) InvitationsForUser(ctx context.Context, userID string, side domain.InvitationSide) ([]*domain.Invitation, error) {
	switch side {
	case domain.SideInvitee:
		return r.listInvitations(ctx, "i.user_id = $1", userID)
	case domain.SideInvitor:
		return r.listInvitations(ctx, "i.invitor_id = $1", userID)
	}
	return nil, fmt.Errorf("%w: unknown invitation side %d", domain.ErrInvalidInput, side)
}
