package app

import (
	"context"
	"errors"

	"github.com/akshadgujarkar/fair-ticketing/internal/clock"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

type VerificationRepository interface {
	GetTicket(ctx context.Context, tokenID string) (domain.Ticket, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

// EventCache serves event config snapshots on the hot verification path.
// Misses and cache errors fall through to the repository.
type EventCache interface {
	GetEvent(ctx context.Context, eventID string) (*domain.Event, error)
	PutEvent(ctx context.Context, event domain.Event) error
}

// VerificationService classifies redemption eligibility for entry gates. It
// never mutates state; redemption itself goes through the ledger's Use.
type VerificationService struct {
	repo  VerificationRepository
	cache EventCache
	clock clock.Clock
}

func NewVerificationService(repo VerificationRepository, cache EventCache, clk clock.Clock) *VerificationService {
	return &VerificationService{
		repo:  repo,
		cache: cache,
		clock: clk,
	}
}

// Verify evaluates outcomes in strict priority order: ticket lookup, event
// lookup, state, then timing. Ticket state is always read from storage; only
// the event's immutable schedule/config may come from the cache.
func (s *VerificationService) Verify(ctx context.Context, tokenID string) (domain.VerificationResult, error) {
	if tokenID == "" {
		return domain.VerificationResult{Outcome: domain.VerificationTicketNotFound}, nil
	}

	ticket, err := s.repo.GetTicket(ctx, tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return domain.VerificationResult{Outcome: domain.VerificationTicketNotFound}, nil
		}
		return domain.VerificationResult{}, err
	}

	event, err := s.loadEvent(ctx, ticket.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return domain.VerificationResult{
				Outcome: domain.VerificationEventNotFound,
				Ticket:  &ticket,
			}, nil
		}
		return domain.VerificationResult{}, err
	}

	outcome := domain.ClassifyAdmission(ticket, event, s.clock.Now())
	return domain.VerificationResult{
		Outcome: outcome,
		Ticket:  &ticket,
		Event:   &event,
	}, nil
}

func (s *VerificationService) loadEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetEvent(ctx, eventID); err == nil && cached != nil {
			return *cached, nil
		}
	}

	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if s.cache != nil {
		_ = s.cache.PutEvent(ctx, event)
	}
	return event, nil
}
