package domain

import "context"

// RelationshipLookup answers the relationship questions every permission check needs.
// Lookups read the latest committed state on each call and are never cached.
// A missing record is a normal outcome: the single-record lookups return
// (nil, nil) and IsCreator returns false. Errors are reserved for storage failures.
type RelationshipLookup interface {
	IsCreator(ctx context.Context, partyID, userID string) (bool, error)
	InvitationOf(ctx context.Context, partyID, userID string) (*Invitation, error)
	InvitationByID(ctx context.Context, id string) (*Invitation, error)
	ItemByID(ctx context.Context, id string) (*Item, error)
	InvitationsForParty(ctx context.Context, partyID string) ([]*Invitation, error)
	InvitationsForUser(ctx context.Context, userID string, side InvitationSide) ([]*Invitation, error)
}
