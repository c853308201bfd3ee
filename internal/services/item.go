package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"partyplanner/internal/domain"
	"partyplanner/internal/policy"
)

type itemService struct {
	itemRepo       domain.ItemRepository
	partyRepo      domain.PartyRepository
	lookup         domain.RelationshipLookup
	contextTimeout time.Duration
}

func NewItemService(itemRepo domain.ItemRepository, partyRepo domain.PartyRepository, lookup domain.RelationshipLookup, timeout time.Duration) domain.ItemService {
	return &itemService{
		itemRepo:       itemRepo,
		partyRepo:      partyRepo,
		lookup:         lookup,
		contextTimeout: timeout,
	}
}

// loadItem returns the item and the invitation it belongs to.
func (s *itemService) loadItem(ctx context.Context, itemID string) (*domain.Item, *domain.Invitation, error) {
	item, err := s.lookup.ItemByID(ctx, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, nil, domain.ErrItemNotFound
	}
	inv, err := loadInvitation(ctx, s.lookup, item.InvitationID)
	if err != nil {
		return nil, nil, err
	}
	return item, inv, nil
}

func (s *itemService) Create(ctx context.Context, actorID, invitationID string, in domain.ItemInput) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := loadInvitation(ctx, s.lookup, invitationID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanCreateItem(actorID, inv); err != nil {
		return nil, err
	}

	itemType, err := domain.ParseItemType(in.Type)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	item := domain.NewItem(inv.ID, itemType, strings.TrimSpace(in.Name), in.Description, in.Quantity, now, now)
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *itemService) ListMine(ctx context.Context, actorID string) ([]*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invitations, err := s.lookup.InvitationsForUser(ctx, actorID, domain.SideInvitee)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return s.itemsOf(ctx, invitations)
}

func (s *itemService) itemsOf(ctx context.Context, invitations []*domain.Invitation) ([]*domain.Item, error) {
	ids := make([]string, 0, len(invitations))
	for _, inv := range invitations {
		ids = append(ids, inv.ID)
	}
	items, err := s.itemRepo.ListByInvitationIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []*domain.Item{}
	}
	return items, nil
}

func (s *itemService) Get(ctx context.Context, actorID, itemID string) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	item, inv, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	subject, err := policy.ResolveByID(ctx, s.lookup, inv.PartyID, actorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewItem(subject); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) ListForParty(ctx context.Context, actorID, partyID string) ([]*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	party, err := loadParty(ctx, s.partyRepo, partyID)
	if err != nil {
		return nil, err
	}
	subject, err := policy.Resolve(ctx, s.lookup, party, actorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanViewItem(subject); err != nil {
		return nil, err
	}
	invitations, err := s.lookup.InvitationsForParty(ctx, party.ID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return s.itemsOf(ctx, invitations)
}

func (s *itemService) Update(ctx context.Context, actorID, itemID string, patch domain.ItemPatch) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	item, inv, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanEditItem(actorID, inv); err != nil {
		return nil, err
	}

	updated := *item
	if patch.Type != nil {
		t, err := domain.ParseItemType(*patch.Type)
		if err != nil {
			return nil, err
		}
		updated.Type = t
	}
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		d := *patch.Description
		updated.Description = &d
	}
	if patch.Quantity != nil {
		updated.Quantity = *patch.Quantity
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()

	if err := s.itemRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return &updated, nil
}

func (s *itemService) Delete(ctx context.Context, actorID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	item, inv, err := s.loadItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteItem(actorID, inv); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrItemNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
