package app

import (
	"context"
	"time"

	"github.com/akshadgujarkar/fair-ticketing/internal/clock"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

type RegistryRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	SetSoldCount(ctx context.Context, eventID string, soldCount int) error
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// RegistryService administers event configuration and the supply counter.
type RegistryService struct {
	repo  RegistryRepository
	clock clock.Clock
}

func NewRegistryService(repo RegistryRepository, clk clock.Clock) *RegistryService {
	return &RegistryService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	Name                     string
	Venue                    string
	Description              string
	Organizer                string
	TotalSupply              int
	BasePrice                int64
	PerWalletLimit           int
	ResalePriceCapPct        int
	RoyaltyPlatformPct       int
	RoyaltyArtistPct         int
	ResaleLockedUntilSoldOut bool
	StartsAt                 time.Time
	EndsAt                   time.Time
}

func (s *RegistryService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	event := domain.Event{
		ID:                       newID(),
		Name:                     in.Name,
		Venue:                    in.Venue,
		Description:              in.Description,
		Organizer:                in.Organizer,
		TotalSupply:              in.TotalSupply,
		SoldCount:                0,
		BasePrice:                in.BasePrice,
		PerWalletLimit:           in.PerWalletLimit,
		ResalePriceCapPct:        in.ResalePriceCapPct,
		RoyaltyPlatformPct:       in.RoyaltyPlatformPct,
		RoyaltyArtistPct:         in.RoyaltyArtistPct,
		ResaleLockedUntilSoldOut: in.ResaleLockedUntilSoldOut,
		StartsAt:                 in.StartsAt,
		EndsAt:                   in.EndsAt,
		CreatedAt:                s.clock.Now(),
	}
	if err := event.Validate(); err != nil {
		return domain.Event{}, err
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *RegistryService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, eventID)
}

func (s *RegistryService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

// ReleaseSupply is the compensating action when external settlement of a mint
// fails after the supply was consumed: it returns the quantity to the pool
// and, when the event was sold out, reopens it.
func (s *RegistryService) ReleaseSupply(ctx context.Context, eventID string, quantity int) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	if quantity <= 0 {
		return domain.Event{}, domain.ErrInvalidQuantity
	}

	var result domain.Event
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, eventID)
		if err != nil {
			return err
		}
		if quantity > event.SoldCount {
			return domain.ErrInvalidQuantity
		}
		event.SoldCount -= quantity
		if err := s.repo.SetSoldCount(txCtx, eventID, event.SoldCount); err != nil {
			return err
		}
		result = event
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}
	return result, nil
}
