package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"partyplanner/internal/domain"
	"partyplanner/internal/policy"
)

const minPasswordLen = 8

type userService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	contextTimeout time.Duration
}

// NewUserService creates a UserService with the given repository and password hasher.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		hasher:         hasher,
		contextTimeout: timeout,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	return email, nil
}

func validateBirthdate(d time.Time) error {
	if d.IsZero() {
		return fmt.Errorf("%w: birthdate is required", domain.ErrInvalidInput)
	}
	if d.After(time.Now()) {
		return fmt.Errorf("%w: birthdate is in the future", domain.ErrInvalidInput)
	}
	return nil
}

func (s *userService) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	username := strings.TrimSpace(in.Username)
	firstname := strings.TrimSpace(in.Firstname)
	lastname := strings.TrimSpace(in.Lastname)
	if username == "" || firstname == "" || lastname == "" {
		return nil, fmt.Errorf("%w: firstname, lastname and username are required", domain.ErrInvalidInput)
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	if err := validateBirthdate(in.Birthdate); err != nil {
		return nil, err
	}
	status, err := domain.ParseRelationshipStatus(in.RelationshipStatus)
	if err != nil {
		return nil, err
	}

	// Friendly pre-checks; the unique constraints remain the source of truth.
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := domain.NewUser(firstname, lastname, username, email, in.Birthdate, status, now, now)
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) getByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, actorID, username string) (*domain.User, *domain.PublicProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if user.ID == actorID {
		return user, nil, nil
	}
	return nil, user.Public(), nil
}

func (s *userService) ListUsernames(ctx context.Context, params domain.PaginationParams) ([]string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	names, total, err := s.userRepo.ListUsernames(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list usernames: %w", err)
	}
	return names, total, nil
}

func (s *userService) Update(ctx context.Context, actorID, username string, patch domain.UserPatch) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := policy.CanManageAccount(actorID, user); err != nil {
		return nil, err
	}

	updated := *user
	if patch.Firstname != nil {
		if updated.Firstname = strings.TrimSpace(*patch.Firstname); updated.Firstname == "" {
			return nil, fmt.Errorf("%w: firstname cannot be empty", domain.ErrInvalidInput)
		}
	}
	if patch.Lastname != nil {
		if updated.Lastname = strings.TrimSpace(*patch.Lastname); updated.Lastname == "" {
			return nil, fmt.Errorf("%w: lastname cannot be empty", domain.ErrInvalidInput)
		}
	}
	if patch.Birthdate != nil {
		if err := validateBirthdate(*patch.Birthdate); err != nil {
			return nil, err
		}
		updated.Birthdate = *patch.Birthdate
	}
	if patch.RelationshipStatus != nil {
		status, err := domain.ParseRelationshipStatus(*patch.RelationshipStatus)
		if err != nil {
			return nil, err
		}
		updated.RelationshipStatus = status
	}
	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			other, err := s.userRepo.GetByEmail(ctx, email)
			if err == nil && other.ID != user.ID {
				return nil, domain.ErrEmailTaken
			}
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
		}
		updated.Email = email
	}
	updated.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &updated, nil
}

func (s *userService) Delete(ctx context.Context, actorID, username string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.getByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := policy.CanManageAccount(actorID, user); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
