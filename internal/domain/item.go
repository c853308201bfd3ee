package domain

import (
	"context"
	"fmt"
	"time"
)

// ItemType classifies what an invitee brings.
type ItemType string

const (
	ItemNonAlcoholicDrink ItemType = "Non-alcoholic drink"
	ItemAlcoholicDrink    ItemType = "Alcoholic drink"
	ItemFood              ItemType = "Food"
	ItemGame              ItemType = "Game"
	ItemAccessory         ItemType = "Accessory"
	ItemOther             ItemType = "Other"
)

// ParseItemType validates s. An empty string yields ItemOther.
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case "":
		return ItemOther, nil
	case ItemNonAlcoholicDrink, ItemAlcoholicDrink, ItemFood, ItemGame, ItemAccessory, ItemOther:
		return ItemType(s), nil
	}
	return "", fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, s)
}

// Item is something the invitee of an invitation commits to bring.
// swagger:model Item
type Item struct {
	ID           string    `json:"id"`
	InvitationID string    `json:"invitation_id"`
	Type         ItemType  `json:"type"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewItem returns an Item with defaults applied: type Other and quantity 1.
func NewItem(invitationID string, itemType ItemType, name string, description *string, quantity int, createdAt, updatedAt time.Time) *Item {
	if itemType == "" {
		itemType = ItemOther
	}
	if quantity == 0 {
		quantity = 1
	}
	return &Item{
		InvitationID: invitationID,
		Type:         itemType,
		Name:         name,
		Description:  description,
		Quantity:     quantity,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Validate checks the item's own invariants.
func (it *Item) Validate() error {
	if it.Name == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if it.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if _, err := ParseItemType(string(it.Type)); err != nil {
		return err
	}
	return nil
}

// ItemInput carries the fields of a new item.
type ItemInput struct {
	Type        string
	Name        string
	Description *string
	Quantity    int
}

// ItemPatch lists item fields to change; nil fields are left untouched.
type ItemPatch struct {
	Type        *string
	Name        *string
	Description *string
	Quantity    *int
}

// ItemRepository defines storage operations for items.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	ListByInvitationIDs(ctx context.Context, invitationIDs []string) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
}

// ItemService defines item operations on behalf of an acting user.
type ItemService interface {
	Create(ctx context.Context, actorID, invitationID string, in ItemInput) (*Item, error)
	ListMine(ctx context.Context, actorID string) ([]*Item, error)
	Get(ctx context.Context, actorID, itemID string) (*Item, error)
	ListForParty(ctx context.Context, actorID, partyID string) ([]*Item, error)
	Update(ctx context.Context, actorID, itemID string, patch ItemPatch) (*Item, error)
	Delete(ctx context.Context, actorID, itemID string) error
}
