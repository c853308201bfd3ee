package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partyplanner/internal/domain"
)

const partyColumns = `p.id, p.name, p.location, p.date, p.description, p.minimum_age, p.maximum_age, p.creator_id, p.created_at, p.updated_at`

type partyRepository struct {
	DB *sql.DB
}

func NewPartyRepository(db *sql.DB) domain.PartyRepository {
	return &partyRepository{DB: db}
}

func scanParty(row scanner) (*domain.Party, error) {
	p := &domain.Party{}
	var minAge, maxAge sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Location, &p.Date, &p.Description, &minAge, &maxAge, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.MinimumAge = intFromNull(minAge)
	p.MaximumAge = intFromNull(maxAge)
	return p, nil
}

func (r *partyRepository) Create(ctx context.Context, p *domain.Party) error {
	query := `
		INSERT INTO parties (name, location, date, description, minimum_age, maximum_age, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		p.Name, p.Location, p.Date, p.Description,
		nullableInt(p.MinimumAge), nullableInt(p.MaximumAge),
		p.CreatorID, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	return missingReference(err)
}

func (r *partyRepository) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties p WHERE p.id = $1`
	p, err := scanParty(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPartyNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *partyRepository) list(ctx context.Context, query string, arg any) ([]*domain.Party, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	parties := []*domain.Party{}
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (r *partyRepository) ListByCreatorID(ctx context.Context, creatorID string) ([]*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties p WHERE p.creator_id = $1 ORDER BY p.date, p.id`
	return r.list(ctx, query, creatorID)
}

func (r *partyRepository) ListByInviteeID(ctx context.Context, userID string) ([]*domain.Party, error) {
	query := `
		SELECT ` + partyColumns + `
		FROM parties p
		INNER JOIN invitations i ON i.party_id = p.id
		WHERE i.user_id = $1
		ORDER BY p.date, p.id
	`
	return r.list(ctx, query, userID)
}

func (r *partyRepository) Update(ctx context.Context, p *domain.Party) error {
	query := `
		UPDATE parties
		SET name = $1, location = $2, date = $3, description = $4, minimum_age = $5, maximum_age = $6, updated_at = $7
		WHERE id = $8
	`
	res, err := r.DB.ExecContext(ctx, query,
		p.Name, p.Location, p.Date, p.Description,
		nullableInt(p.MinimumAge), nullableInt(p.MaximumAge),
		p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrPartyNotFound
	}
	return nil
}

// Delete removes the party, its invitations and their items in one transaction.
func (r *partyRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE invitation_id IN (SELECT id FROM invitations WHERE party_id = $1)`, id); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM invitations WHERE party_id = $1`, id); err != nil {
			return fmt.Errorf("delete invitations: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM parties WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete party: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrPartyNotFound
		}
		return nil
	})
}
