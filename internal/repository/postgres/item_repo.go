package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"partyplanner/internal/domain"
)

const itemColumns = `id, invitation_id, type, name, description, quantity, created_at, updated_at`

type itemRepository struct {
	DB *sql.DB
}

func NewItemRepository(db *sql.DB) domain.ItemRepository {
	return &itemRepository{DB: db}
}

func scanItem(row scanner) (*domain.Item, error) {
	it := &domain.Item{}
	var itemType string
	var description sql.NullString
	if err := row.Scan(&it.ID, &it.InvitationID, &itemType, &it.Name, &description, &it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Type = domain.ItemType(itemType)
	it.Description = stringFromNull(description)
	return it, nil
}

func (r *itemRepository) Create(ctx context.Context, it *domain.Item) error {
	query := `
		INSERT INTO items (invitation_id, type, name, description, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		it.InvitationID, string(it.Type), it.Name, nullableString(it.Description), it.Quantity, it.CreatedAt, it.UpdatedAt,
	).Scan(&it.ID)
	return missingReference(err)
}

func (r *itemRepository) ListByInvitationIDs(ctx context.Context, invitationIDs []string) ([]*domain.Item, error) {
	items := []*domain.Item{}
	if len(invitationIDs) == 0 {
		return items, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE invitation_id = ANY($1) ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(invitationIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *itemRepository) Update(ctx context.Context, it *domain.Item) error {
	query := `
		UPDATE items
		SET type = $1, name = $2, description = $3, quantity = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := r.DB.ExecContext(ctx, query, string(it.Type), it.Name, nullableString(it.Description), it.Quantity, it.UpdatedAt, it.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
