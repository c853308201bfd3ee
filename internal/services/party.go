package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"partyplanner/internal/domain"
	"partyplanner/internal/policy"
)

// emailDateLayout formats party dates in notification emails.
const emailDateLayout = "Mon 2 Jan 2006, 15:04 MST"

type partyService struct {
	partyRepo      domain.PartyRepository
	userRepo       domain.UserRepository
	lookup         domain.RelationshipLookup
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewPartyService(
	partyRepo domain.PartyRepository,
	userRepo domain.UserRepository,
	lookup domain.RelationshipLookup,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.PartyService {
	return &partyService{
		partyRepo:      partyRepo,
		userRepo:       userRepo,
		lookup:         lookup,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// loadParty maps any not-found outcome to ErrPartyNotFound.
func loadParty(ctx context.Context, repo domain.PartyRepository, partyID string) (*domain.Party, error) {
	party, err := repo.GetByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPartyNotFound
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return party, nil
}

func validatePartyFields(p *domain.Party) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Location) == "" {
		return fmt.Errorf("%w: name and location are required", domain.ErrInvalidInput)
	}
	if p.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	for _, age := range []*int{p.MinimumAge, p.MaximumAge} {
		if age != nil && *age < 0 {
			return fmt.Errorf("%w: age bounds cannot be negative", domain.ErrInvalidInput)
		}
	}
	return p.ValidateAgeBounds()
}

func (s *partyService) Create(ctx context.Context, actorID string, party *domain.Party) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actorID == "" {
		return fmt.Errorf("%w: party creator is required", domain.ErrInvalidInput)
	}
	if err := validatePartyFields(party); err != nil {
		return err
	}
	party.CreatorID = actorID
	party.CreatedAt = time.Now()
	party.UpdatedAt = party.CreatedAt

	if err := s.partyRepo.Create(ctx, party); err != nil {
		return fmt.Errorf("create party: %w", err)
	}
	return nil
}

func (s *partyService) Get(ctx context.Context, actorID, partyID string) (*domain.Party, error) {
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
	if err := policy.CanViewParty(subject); err != nil {
		return nil, err
	}
	return party, nil
}

func (s *partyService) ListMine(ctx context.Context, actorID string) (*domain.MyParties, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	created, err := s.partyRepo.ListByCreatorID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list created parties: %w", err)
	}
	invited, err := s.partyRepo.ListByInviteeID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list invited parties: %w", err)
	}
	if created == nil {
		created = []*domain.Party{}
	}
	if invited == nil {
		invited = []*domain.Party{}
	}
	return &domain.MyParties{Created: created, Invited: invited}, nil
}

// ListByCreator returns every party of username to that user, and to anyone
// else only the parties they are invited to.
func (s *partyService) ListByCreator(ctx context.Context, actorID, username string) ([]*domain.Party, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	creator, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	parties, err := s.partyRepo.ListByCreatorID(ctx, creator.ID)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	if creator.ID == actorID {
		if parties == nil {
			parties = []*domain.Party{}
		}
		return parties, nil
	}

	invited, err := s.partyRepo.ListByInviteeID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list invited parties: %w", err)
	}
	visible := make(map[string]struct{}, len(invited))
	for _, p := range invited {
		visible[p.ID] = struct{}{}
	}
	out := []*domain.Party{}
	for _, p := range parties {
		if _, ok := visible[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *partyService) Update(ctx context.Context, actorID, partyID string, patch domain.PartyPatch) (*domain.Party, error) {
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
	if err := policy.CanEditParty(subject); err != nil {
		return nil, err
	}

	updated := *party
	patch.Apply(&updated)
	if err := validatePartyFields(&updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()
	if err := s.partyRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPartyNotFound
		}
		return nil, fmt.Errorf("update party: %w", err)
	}
	return &updated, nil
}

// Delete removes the party with its invitations and items, then notifies the
// invitees. Notification failures are logged and never undo the deletion.
func (s *partyService) Delete(ctx context.Context, actorID, partyID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	party, err := loadParty(ctx, s.partyRepo, partyID)
	if err != nil {
		return err
	}
	subject, err := policy.Resolve(ctx, s.lookup, party, actorID)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteParty(subject); err != nil {
		return err
	}

	invitations, err := s.lookup.InvitationsForParty(ctx, party.ID)
	if err != nil {
		return fmt.Errorf("list invitations: %w", err)
	}
	recipients := make([]*domain.PartyCancelledEmailData, 0, len(invitations))
	for _, inv := range invitations {
		if inv.UserID == actorID {
			continue
		}
		invitee, err := s.userRepo.GetByID(ctx, inv.UserID)
		if err != nil {
			s.logger.Warn("skipping cancellation email", "party_id", party.ID, "user_id", inv.UserID, "error", err)
			continue
		}
		recipients = append(recipients, &domain.PartyCancelledEmailData{
			Email:       invitee.Email,
			InviteeName: invitee.Firstname,
			PartyName:   party.Name,
			PartyDate:   party.Date.Format(emailDateLayout),
		})
	}

	if err := s.partyRepo.Delete(ctx, party.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrPartyNotFound
		}
		return fmt.Errorf("delete party: %w", err)
	}
	s.logger.Info("party deleted", "party_id", party.ID, "by", actorID, "invitations", len(invitations))

	if s.emailService != nil && len(recipients) > 0 {
		// The deletion is committed; notify on a fresh budget detached from the request.
		sendCtx, cancelSend := context.WithTimeout(context.WithoutCancel(ctx), s.contextTimeout)
		defer cancelSend()
		if failed := s.emailService.SendPartyCancelled(sendCtx, recipients); len(failed) > 0 {
			s.logger.Warn("some cancellation emails failed", "party_id", party.ID, "failed", len(failed))
		}
	}
	return nil
}
