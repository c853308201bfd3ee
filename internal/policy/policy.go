// Package policy provides authorization decisions for party, invitation and item actions.
//
// Every check works on a Subject: the acting user's resolved relationship with
// one party. The party creator holds organizer rights without an invitation
// row, so checks compare against Subject.EffectiveRole instead of repeating
// creator and invitation lookups.
package policy

import (
	"context"
	"fmt"

	"partyplanner/internal/domain"
)

// Subject is the acting user as seen from one party.
type Subject struct {
	UserID     string
	PartyID    string
	Creator    bool
	Invitation *domain.Invitation
}

// Resolve builds the Subject for userID on party. Creator status is checked
// from the party record first; the invitation lookup runs only for non-creators.
func Resolve(ctx context.Context, lookup domain.RelationshipLookup, party *domain.Party, userID string) (Subject, error) {
	s := Subject{UserID: userID, PartyID: party.ID}
	if party.CreatorID == userID {
		s.Creator = true
		return s, nil
	}
	inv, err := lookup.InvitationOf(ctx, party.ID, userID)
	if err != nil {
		return Subject{}, fmt.Errorf("lookup invitation: %w", err)
	}
	s.Invitation = inv
	return s, nil
}

// ResolveByID is Resolve for callers holding only the party id, such as item
// checks that reach the party through an invitation.
func ResolveByID(ctx context.Context, lookup domain.RelationshipLookup, partyID, userID string) (Subject, error) {
	s := Subject{UserID: userID, PartyID: partyID}
	creator, err := lookup.IsCreator(ctx, partyID, userID)
	if err != nil {
		return Subject{}, fmt.Errorf("lookup creator: %w", err)
	}
	if creator {
		s.Creator = true
		return s, nil
	}
	inv, err := lookup.InvitationOf(ctx, partyID, userID)
	if err != nil {
		return Subject{}, fmt.Errorf("lookup invitation: %w", err)
	}
	s.Invitation = inv
	return s, nil
}

// EffectiveRole is RoleOrganizer for the creator, the invitation's role for an
// invitee and RoleNone otherwise.
func (s Subject) EffectiveRole() domain.Role {
	if s.Creator {
		return domain.RoleOrganizer
	}
	if s.Invitation != nil {
		return s.Invitation.Role
	}
	return domain.RoleNone
}

// Member reports whether the subject is the creator or holds any invitation.
func (s Subject) Member() bool {
	return s.Creator || s.Invitation != nil
}

func requireMember(s Subject) error {
	if !s.Member() {
		return domain.Forbidden(domain.DenyNotInvited)
	}
	return nil
}

func requireRole(s Subject, floor domain.Role, reason domain.DenialReason) error {
	if !s.EffectiveRole().AtLeast(floor) {
		return domain.Forbidden(reason)
	}
	return nil
}

// CanViewParty allows the creator and every invitee.
func CanViewParty(s Subject) error {
	return requireMember(s)
}

// CanEditParty allows organizers.
func CanEditParty(s Subject) error {
	return requireRole(s, domain.RoleOrganizer, domain.DenyNotOrganizer)
}

// CanDeleteParty allows organizers.
func CanDeleteParty(s Subject) error {
	return requireRole(s, domain.RoleOrganizer, domain.DenyNotOrganizer)
}

// CanInvite allows invitors and organizers. Whether the invitee is already
// invited is a uniqueness question answered by storage, not a permission.
func CanInvite(s Subject) error {
	return requireRole(s, domain.RoleInvitor, domain.DenyNotInvitor)
}

// CanListInvitations allows the creator and every invitee.
func CanListInvitations(s Subject) error {
	return requireMember(s)
}

// CanChangeRole allows organizers to change the role of someone else's invitation.
// Nobody may change the role on their own invitation.
func CanChangeRole(s Subject, target *domain.Invitation) error {
	if err := requireRole(s, domain.RoleOrganizer, domain.DenyNotOrganizer); err != nil {
		return err
	}
	if target.UserID == s.UserID {
		return domain.Forbidden(domain.DenySelfRoleChange)
	}
	return nil
}

// CanSetAccepted allows only the invitee.
func CanSetAccepted(actorID string, target *domain.Invitation) error {
	if target.UserID != actorID {
		return domain.Forbidden(domain.DenyNotInvitee)
	}
	return nil
}

// CanDeleteInvitation allows the invitee and organizers of the party.
func CanDeleteInvitation(s Subject, target *domain.Invitation) error {
	if target.UserID == s.UserID {
		return nil
	}
	return requireRole(s, domain.RoleOrganizer, domain.DenyNotOrganizer)
}

// CanCreateItem allows only the invitee of the invitation the item is attached to.
func CanCreateItem(actorID string, inv *domain.Invitation) error {
	return requireInvitee(actorID, inv)
}

// CanViewItem allows the creator and every invitee of the item's party.
func CanViewItem(s Subject) error {
	return requireMember(s)
}

// CanEditItem allows only the invitee owning the item's invitation.
func CanEditItem(actorID string, inv *domain.Invitation) error {
	return requireInvitee(actorID, inv)
}

// CanDeleteItem allows only the invitee owning the item's invitation.
func CanDeleteItem(actorID string, inv *domain.Invitation) error {
	return requireInvitee(actorID, inv)
}

func requireInvitee(actorID string, inv *domain.Invitation) error {
	if inv == nil || inv.UserID != actorID {
		return domain.Forbidden(domain.DenyNotInvitee)
	}
	return nil
}

// CanManageAccount allows a user to act only on their own account.
func CanManageAccount(actorID string, target *domain.User) error {
	if target.ID != actorID {
		return domain.Forbidden(domain.DenyNotSelf)
	}
	return nil
}
