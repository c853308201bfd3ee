package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partyplanner/internal/domain"
)

const userColumns = `id, firstname, lastname, username, email, password_hash, salt, birthdate, relationship_status, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func scanUser(row scanner) (*domain.User, error) {
	u := &domain.User{}
	var status string
	err := row.Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.Birthdate, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.RelationshipStatus = domain.RelationshipStatus(status)
	return u, nil
}

// userConflict maps a unique violation on users to the matching domain error.
func userConflict(err error) error {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return err
	}
	switch constraint {
	case "users_username_key":
		return domain.ErrUsernameTaken
	case "users_email_key":
		return domain.ErrEmailTaken
	}
	return fmt.Errorf("%w: %s", domain.ErrConflict, constraint)
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (firstname, lastname, username, email, password_hash, salt, birthdate, relationship_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Firstname, u.Lastname, u.Username, u.Email, u.PasswordHash, u.Salt,
		u.Birthdate, string(u.RelationshipStatus), u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return userConflict(err)
	}
	return nil
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

func (r *userRepository) ListUsernames(ctx context.Context, params domain.PaginationParams) ([]string, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT username FROM users ORDER BY username`
	var args []any
	if limit := params.Limit(); limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, params.Offset())
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, 0, err
		}
		names = append(names, name)
	}
	return names, total, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET firstname = $1, lastname = $2, email = $3, birthdate = $4, relationship_status = $5, updated_at = $6
		WHERE id = $7
	`
	res, err := r.DB.ExecContext(ctx, query, u.Firstname, u.Lastname, u.Email, u.Birthdate, string(u.RelationshipStatus), u.UpdatedAt, u.ID)
	if err != nil {
		return userConflict(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the user together with the parties they created, every
// invitation they received or issued and the items of those invitations.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		const affected = `
			SELECT id FROM invitations
			WHERE user_id = $1 OR invitor_id = $1
			   OR party_id IN (SELECT id FROM parties WHERE creator_id = $1)
		`
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE invitation_id IN (`+affected+`)`, id); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM invitations WHERE id IN (`+affected+`)`, id); err != nil {
			return fmt.Errorf("delete invitations: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM parties WHERE creator_id = $1`, id); err != nil {
			return fmt.Errorf("delete parties: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
