package domain

import (
	"context"
	"time"
)

// Invitation binds an invitee to a party. At most one invitation exists per (party, user).
// swagger:model Invitation
type Invitation struct {
	ID        string    `json:"id"`
	PartyID   string    `json:"party_id"`
	UserID    string    `json:"user_id"`
	InvitorID string    `json:"invitor_id"`
	Accepted  bool      `json:"accepted"`
	Role      Role      `json:"role" swaggertype:"string" enums:"participant,invitor,organizer"`
	CreatedAt time.Time `json:"created_at"`
}

// NewInvitation returns a pending Participant invitation issued by invitorID.
func NewInvitation(partyID, userID, invitorID string, createdAt time.Time) *Invitation {
	return &Invitation{
		PartyID:   partyID,
		UserID:    userID,
		InvitorID: invitorID,
		Accepted:  false,
		Role:      RoleParticipant,
		CreatedAt: createdAt,
	}
}

// SetAccepted applies an accepted flag requested by the invitee.
// Only pending→accepted is a transition; accepted→pending is ErrAcceptReversal.
func (i *Invitation) SetAccepted(accepted bool) error {
	if accepted {
		i.Accepted = true
		return nil
	}
	if i.Accepted {
		return ErrAcceptReversal
	}
	return nil
}

// SetRole moves the invitation to role. Any valid role may follow any other.
func (i *Invitation) SetRole(role Role) error {
	if !role.Valid() {
		return ErrInvalidInput
	}
	i.Role = role
	return nil
}

// InvitationSide selects which end of an invitation a user is on.
type InvitationSide int

const (
	SideInvitee InvitationSide = iota + 1
	SideInvitor
)

// MyInvitations groups the invitations a user received and issued.
type MyInvitations struct {
	Received []*Invitation `json:"received_invitations"`
	Sent     []*Invitation `json:"sent_invitations"`
}

// InvitationUpdate carries the optional changes of an invitation update.
type InvitationUpdate struct {
	Accepted *bool
	Role     *Role
}

// InvitationRepository defines storage operations for invitations.
// Create returns ErrDuplicateInvitation when (party, user) already exists.
// Delete removes the invitation and its items in one transaction.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	Update(ctx context.Context, inv *Invitation) error
	Delete(ctx context.Context, id string) error
}

// InvitationService defines invitation operations on behalf of an acting user.
type InvitationService interface {
	Invite(ctx context.Context, actorID, partyID, username string) (*Invitation, error)
	ListMine(ctx context.Context, actorID string) (*MyInvitations, error)
	ListForParty(ctx context.Context, actorID, partyID string) ([]*Invitation, error)
	Update(ctx context.Context, actorID, invitationID string, upd InvitationUpdate) (*Invitation, error)
	Delete(ctx context.Context, actorID, invitationID string) error
}
