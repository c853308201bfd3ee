package domain

import (
	"context"
	"fmt"
	"time"
)

// RelationshipStatus is the self-declared relationship status on a profile.
type RelationshipStatus string

const (
	RelationshipSingle          RelationshipStatus = "single"
	RelationshipInRelationship  RelationshipStatus = "in a relationship"
	RelationshipMarried         RelationshipStatus = "married"
	RelationshipNotYourBusiness RelationshipStatus = "not your business"
)

// ParseRelationshipStatus validates s. An empty string yields the default status.
func ParseRelationshipStatus(s string) (RelationshipStatus, error) {
	switch RelationshipStatus(s) {
	case "":
		return RelationshipNotYourBusiness, nil
	case RelationshipSingle, RelationshipInRelationship, RelationshipMarried, RelationshipNotYourBusiness:
		return RelationshipStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown relationship status %q", ErrInvalidInput, s)
}

// User represents a registered user. Credentials are never serialized.
// swagger:model User
type User struct {
	ID                 string             `json:"id"`
	Firstname          string             `json:"firstname"`
	Lastname           string             `json:"lastname"`
	Username           string             `json:"username"`
	Email              string             `json:"email"`
	PasswordHash       string             `json:"-"`
	Salt               string             `json:"-"`
	Birthdate          time.Time          `json:"birthdate"`
	RelationshipStatus RelationshipStatus `json:"relationship_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(firstname, lastname, username, email string, birthdate time.Time, status RelationshipStatus, createdAt, updatedAt time.Time) *User {
	return &User{
		Firstname:          firstname,
		Lastname:           lastname,
		Username:           username,
		Email:              email,
		Birthdate:          birthdate,
		RelationshipStatus: status,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
}

// PublicProfile is what other users may see of a profile.
// swagger:model PublicProfile
type PublicProfile struct {
	ID                 string             `json:"id"`
	Username           string             `json:"username"`
	Birthdate          time.Time          `json:"birthdate"`
	RelationshipStatus RelationshipStatus `json:"relationship_status"`
}

// Public returns the projection of u visible to other users.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:                 u.ID,
		Username:           u.Username,
		Birthdate:          u.Birthdate,
		RelationshipStatus: u.RelationshipStatus,
	}
}

// RegisterInput carries the already-validated fields for a new account.
type RegisterInput struct {
	Firstname          string
	Lastname           string
	Username           string
	Email              string
	Password           string
	Birthdate          time.Time
	RelationshipStatus string
}

// UserPatch lists profile fields to change; nil fields are left untouched.
type UserPatch struct {
	Firstname          *string
	Lastname           *string
	Email              *string
	Birthdate          *time.Time
	RelationshipStatus *string
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, username string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
// Create and Update map unique violations to ErrUsernameTaken / ErrEmailTaken.
// Delete removes the user's created parties, every invitation the user
// received or issued, and the items of all removed invitations, atomically.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListUsernames(ctx context.Context, params PaginationParams) ([]string, int, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

// UserService defines account and profile operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	// GetProfile returns the full user when actorID owns the profile, otherwise only Public is set.
	GetProfile(ctx context.Context, actorID, username string) (*User, *PublicProfile, error)
	ListUsernames(ctx context.Context, params PaginationParams) ([]string, int, error)
	Update(ctx context.Context, actorID, username string, patch UserPatch) (*User, error)
	Delete(ctx context.Context, actorID, username string) error
}

// AuthService authenticates users by username and password.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, user *User, err error)
}
