package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"partyplanner/internal/domain"
	"partyplanner/internal/policy"
)

type invitationService struct {
	invitationRepo domain.InvitationRepository
	partyRepo      domain.PartyRepository
	userRepo       domain.UserRepository
	lookup         domain.RelationshipLookup
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewInvitationService(
	invitationRepo domain.InvitationRepository,
	partyRepo domain.PartyRepository,
	userRepo domain.UserRepository,
	lookup domain.RelationshipLookup,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		partyRepo:      partyRepo,
		userRepo:       userRepo,
		lookup:         lookup,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// loadInvitation resolves id through the lookup, turning an absent invitation into ErrInvitationNotFound.
func loadInvitation(ctx context.Context, lookup domain.RelationshipLookup, id string) (*domain.Invitation, error) {
	inv, err := lookup.InvitationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrInvitationNotFound
	}
	return inv, nil
}

func (s *invitationService) Invite(ctx context.Context, actorID, partyID, username string) (*domain.Invitation, error) {
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
	if err := policy.CanInvite(subject); err != nil {
		return nil, err
	}

	invitee, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get invitee: %w", err)
	}
	if invitee.ID == party.CreatorID {
		return nil, fmt.Errorf("%w: the party creator cannot be invited", domain.ErrInvalidInput)
	}
	existing, err := s.lookup.InvitationOf(ctx, party.ID, invitee.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup invitation: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateInvitation
	}

	inv := domain.NewInvitation(party.ID, invitee.ID, actorID, time.Now())
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	s.notifyInvitee(ctx, party, invitee, inv)
	return inv, nil
}

// notifyInvitee sends the invitation email; failures are logged only.
func (s *invitationService) notifyInvitee(ctx context.Context, party *domain.Party, invitee *domain.User, inv *domain.Invitation) {
	if s.emailService == nil {
		return
	}
	invitorName := inv.InvitorID
	if invitor, err := s.userRepo.GetByID(ctx, inv.InvitorID); err == nil {
		invitorName = invitor.Firstname + " " + invitor.Lastname
	}
	data := &domain.InvitationEmailData{
		Email:         invitee.Email,
		InviteeName:   invitee.Firstname,
		InvitorName:   invitorName,
		PartyName:     party.Name,
		PartyLocation: party.Location,
		PartyDate:     party.Date.Format(emailDateLayout),
		InvitationID:  inv.ID,
	}
	if err := s.emailService.SendInvitation(ctx, data); err != nil {
		s.logger.Warn("invitation email failed", "invitation_id", inv.ID, "error", err)
	}
}

func (s *invitationService) ListMine(ctx context.Context, actorID string) (*domain.MyInvitations, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	received, err := s.lookup.InvitationsForUser(ctx, actorID, domain.SideInvitee)
	if err != nil {
		return nil, fmt.Errorf("list received invitations: %w", err)
	}
	sent, err := s.lookup.InvitationsForUser(ctx, actorID, domain.SideInvitor)
	if err != nil {
		return nil, fmt.Errorf("list sent invitations: %w", err)
	}
	if received == nil {
		received = []*domain.Invitation{}
	}
	if sent == nil {
		sent = []*domain.Invitation{}
	}
	return &domain.MyInvitations{Received: received, Sent: sent}, nil
}

func (s *invitationService) ListForParty(ctx context.Context, actorID, partyID string) ([]*domain.Invitation, error) {
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
	if err := policy.CanListInvitations(subject); err != nil {
		return nil, err
	}
	invitations, err := s.lookup.InvitationsForParty(ctx, party.ID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	if invitations == nil {
		invitations = []*domain.Invitation{}
	}
	return invitations, nil
}

// Update applies an accepted flag and/or a role change. Every permission is
// checked before anything is changed, so a partly denied request has no effect.
func (s *invitationService) Update(ctx context.Context, actorID, invitationID string, upd domain.InvitationUpdate) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Accepted == nil && upd.Role == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	inv, err := loadInvitation(ctx, s.lookup, invitationID)
	if err != nil {
		return nil, err
	}

	if upd.Accepted != nil {
		if err := policy.CanSetAccepted(actorID, inv); err != nil {
			return nil, err
		}
	}
	if upd.Role != nil {
		subject, err := policy.ResolveByID(ctx, s.lookup, inv.PartyID, actorID)
		if err != nil {
			return nil, err
		}
		if err := policy.CanChangeRole(subject, inv); err != nil {
			return nil, err
		}
	}

	updated := *inv
	if upd.Accepted != nil {
		if err := updated.SetAccepted(*upd.Accepted); err != nil {
			return nil, err
		}
	}
	if upd.Role != nil {
		if err := updated.SetRole(*upd.Role); err != nil {
			return nil, err
		}
	}
	if updated.Accepted == inv.Accepted && updated.Role == inv.Role {
		return inv, nil
	}

	if err := s.invitationRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("update invitation: %w", err)
	}
	return &updated, nil
}

func (s *invitationService) Delete(ctx context.Context, actorID, invitationID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := loadInvitation(ctx, s.lookup, invitationID)
	if err != nil {
		return err
	}
	subject, err := policy.ResolveByID(ctx, s.lookup, inv.PartyID, actorID)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteInvitation(subject, inv); err != nil {
		return err
	}
	if err := s.invitationRepo.Delete(ctx, inv.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvitationNotFound
		}
		return fmt.Errorf("delete invitation: %w", err)
	}
	return nil
}
