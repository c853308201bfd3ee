package domain

import (
	"context"
	"time"
)

// Party is a gathering created by one user who holds organizer rights over it.
// swagger:model Party
type Party struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	MinimumAge  *int      `json:"minimum_age,omitempty"`
	MaximumAge  *int      `json:"maximum_age,omitempty"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewParty returns a new Party with the given fields. ID is typically set by the repository on create.
func NewParty(name, location string, date time.Time, description string, minimumAge, maximumAge *int, creatorID string, createdAt, updatedAt time.Time) *Party {
	return &Party{
		Name:        name,
		Location:    location,
		Date:        date,
		Description: description,
		MinimumAge:  minimumAge,
		MaximumAge:  maximumAge,
		CreatorID:   creatorID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// ValidateAgeBounds returns ErrAgeBounds when both bounds are set and minimum exceeds maximum.
func (p *Party) ValidateAgeBounds() error {
	if p.MinimumAge != nil && p.MaximumAge != nil && *p.MinimumAge > *p.MaximumAge {
		return ErrAgeBounds
	}
	return nil
}

// PartyPatch lists party fields to change; nil fields are left untouched.
type PartyPatch struct {
	Name        *string
	Location    *string
	Date        *time.Time
	Description *string
	MinimumAge  *int
	MaximumAge  *int
}

// Apply copies the set fields of patch onto p. The creator is never changed.
func (patch PartyPatch) Apply(p *Party) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Date != nil {
		p.Date = *patch.Date
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.MinimumAge != nil {
		v := *patch.MinimumAge
		p.MinimumAge = &v
	}
	if patch.MaximumAge != nil {
		v := *patch.MaximumAge
		p.MaximumAge = &v
	}
}

// MyParties groups the parties a user created and those they are invited to.
type MyParties struct {
	Created []*Party `json:"created_parties"`
	Invited []*Party `json:"invited_parties"`
}

// PartyRepository defines the interface for party storage.
// Delete removes the party, its invitations and their items in one transaction.
type PartyRepository interface {
	Create(ctx context.Context, party *Party) error
	GetByID(ctx context.Context, id string) (*Party, error)
	ListByCreatorID(ctx context.Context, creatorID string) ([]*Party, error)
	ListByInviteeID(ctx context.Context, userID string) ([]*Party, error)
	Update(ctx context.Context, party *Party) error
	Delete(ctx context.Context, id string) error
}

// PartyService defines party operations on behalf of an acting user.
type PartyService interface {
	Create(ctx context.Context, actorID string, party *Party) error
	Get(ctx context.Context, actorID, partyID string) (*Party, error)
	ListMine(ctx context.Context, actorID string) (*MyParties, error)
	ListByCreator(ctx context.Context, actorID, username string) ([]*Party, error)
	Update(ctx context.Context, actorID, partyID string, patch PartyPatch) (*Party, error)
	Delete(ctx context.Context, actorID, partyID string) error
}
