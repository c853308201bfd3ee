package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and repositories.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Resource-specific variants. They match their generic sentinel with errors.Is.
var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrPartyNotFound       = fmt.Errorf("party %w", ErrNotFound)
	ErrInvitationNotFound  = fmt.Errorf("invitation %w", ErrNotFound)
	ErrItemNotFound        = fmt.Errorf("item %w", ErrNotFound)
	ErrDuplicateInvitation = fmt.Errorf("%w: user is already invited to this party", ErrConflict)
	ErrUsernameTaken       = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrEmailTaken          = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrAgeBounds           = fmt.Errorf("%w: minimum age is greater than maximum age", ErrInvalidState)
	ErrAcceptReversal      = fmt.Errorf("%w: an accepted invitation cannot be set back to pending", ErrInvalidState)
)

// DenialReason identifies which permission rule rejected an action.
type DenialReason string

const (
	DenyNotInvited     DenialReason = "not_invited"
	DenyNotOrganizer   DenialReason = "not_organizer"
	DenyNotInvitor     DenialReason = "not_invitor"
	DenyNotInvitee     DenialReason = "not_invitee"
	DenySelfRoleChange DenialReason = "self_role_change"
	DenyNotSelf        DenialReason = "not_self"
)

// ForbiddenError is returned by permission checks. It matches ErrForbidden.
type ForbiddenError struct {
	Reason DenialReason
}

// Forbidden returns a *ForbiddenError carrying reason.
func Forbidden(reason DenialReason) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Reason)
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// DenialReasonOf extracts the denial reason from err, if err is a ForbiddenError.
func DenialReasonOf(err error) (DenialReason, bool) {
	var fe *ForbiddenError
	if errors.As(err, &fe) {
		return fe.Reason, true
	}
	return "", false
}
