package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"partyplanner/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
	workers  int
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
// workers bounds concurrent sends when notifying several recipients.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger, workers int) domain.EmailService {
	if workers < 1 {
		workers = 1
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger, workers: workers}
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	return nil
}

// SendInvitation sends the "invitation" email to the invitee.
func (s *emailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation email data is nil")
	}
	if err := s.send(ctx, "invitation", data.Email, data); err != nil {
		return err
	}
	s.logger.Info("invitation email sent", "invitation_id", data.InvitationID)
	return nil
}

// SendPartyCancelled sends the "party_cancelled" email to every recipient
// concurrently and returns the addresses that failed, in input order.
func (s *emailService) SendPartyCancelled(ctx context.Context, data []*domain.PartyCancelledEmailData) []string {
	failed := make([]bool, len(data))
	p := pool.New().WithMaxGoroutines(s.workers)
	for i, d := range data {
		if d == nil {
			continue
		}
		p.Go(func() {
			if err := s.send(ctx, "party_cancelled", d.Email, d); err != nil {
				s.logger.Warn("party cancelled email failed", "to", d.Email, "error", err)
				failed[i] = true
			}
		})
	}
	p.Wait()

	var out []string
	for i, f := range failed {
		if f {
			out = append(out, data[i].Email)
		}
	}
	return out
}
