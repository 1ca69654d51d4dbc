package app

import (
	"context"

	"github.com/akshadgujarkar/fair-ticketing/internal/clock"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

type MarketRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	GetTicketForUpdate(ctx context.Context, tokenID string) (domain.Ticket, error)
	SetTicketState(ctx context.Context, tokenID string, state domain.TicketState) error
	RecordResale(ctx context.Context, tokenID, owner string, price int64) error
	CreateListing(ctx context.Context, listing domain.Listing) error
	GetListingForUpdate(ctx context.Context, listingID string) (domain.Listing, error)
	SetListingStatus(ctx context.Context, listingID string, status domain.ListingStatus) error
	ListActiveListings(ctx context.Context, eventID string) ([]domain.Listing, error)
	CreateRoyaltyDistribution(ctx context.Context, dist domain.RoyaltyDistribution) error
	AppendTransaction(ctx context.Context, txn domain.Transaction) error
}

// MarketService creates, cancels and fills resale listings. It is the only
// writer of listing status; ticket mutations go through the same transaction
// as the listing change.
type MarketService struct {
	repo  MarketRepository
	clock clock.Clock
}

func NewMarketService(repo MarketRepository, clk clock.Clock) *MarketService {
	return &MarketService{
		repo:  repo,
		clock: clk,
	}
}

type CreateListingInput struct {
	TokenID string
	Price   int64
	Seller  string
}

func (s *MarketService) CreateListing(ctx context.Context, in CreateListingInput) (domain.Listing, error) {
	if in.TokenID == "" {
		return domain.Listing{}, domain.ErrInvalidID
	}
	if in.Seller == "" {
		return domain.Listing{}, domain.ErrWalletRequired
	}
	if in.Price <= 0 {
		return domain.Listing{}, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	var result domain.Listing

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticket, err := s.repo.GetTicketForUpdate(txCtx, in.TokenID)
		if err != nil {
			return err
		}
		if ticket.State == domain.TicketStateUsed {
			return domain.ErrTicketAlreadyUsed
		}
		if ticket.State != domain.TicketStateActive {
			return domain.ErrInvalidState
		}
		if ticket.Owner != in.Seller {
			return domain.ErrNotOwner
		}

		event, err := s.repo.GetEvent(txCtx, ticket.EventID)
		if err != nil {
			return err
		}
		if !event.ResaleOpen() {
			return domain.ErrResaleLocked
		}
		if in.Price > event.MaxResalePrice(ticket.LastSalePrice) {
			return domain.ErrPriceCapExceeded
		}

		listing := domain.Listing{
			ID:        newID(),
			TokenID:   in.TokenID,
			EventID:   ticket.EventID,
			Price:     in.Price,
			Seller:    in.Seller,
			Status:    domain.ListingStatusActive,
			CreatedAt: now,
		}
		if err := s.repo.CreateListing(txCtx, listing); err != nil {
			return err
		}
		if err := s.repo.SetTicketState(txCtx, in.TokenID, domain.TicketStateListed); err != nil {
			return err
		}

		result = listing
		return nil
	})
	if err != nil {
		return domain.Listing{}, err
	}
	return result, nil
}

type CancelListingInput struct {
	ListingID string
	Caller    string
}

func (s *MarketService) CancelListing(ctx context.Context, in CancelListingInput) error {
	if in.ListingID == "" {
		return domain.ErrInvalidID
	}
	if in.Caller == "" {
		return domain.ErrWalletRequired
	}

	now := s.clock.Now()

	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.repo.GetListingForUpdate(txCtx, in.ListingID)
		if err != nil {
			return err
		}
		if listing.Status != domain.ListingStatusActive {
			return domain.ErrInvalidState
		}
		if listing.Seller != in.Caller {
			return domain.ErrNotSeller
		}

		if err := s.repo.SetListingStatus(txCtx, in.ListingID, domain.ListingStatusCancelled); err != nil {
			return err
		}
		if err := s.repo.SetTicketState(txCtx, listing.TokenID, domain.TicketStateActive); err != nil {
			return err
		}
		return s.repo.AppendTransaction(txCtx, domain.Transaction{
			ID:        newID(),
			TokenID:   listing.TokenID,
			Type:      domain.TransactionCancel,
			From:      listing.Seller,
			Timestamp: now,
		})
	})
}

type FillListingInput struct {
	ListingID     string
	Buyer         string
	SettlementRef string
}

// FillResult reports the ownership change and the royalty split the caller
// must settle externally.
type FillResult struct {
	Ticket       domain.Ticket
	Listing      domain.Listing
	Distribution domain.RoyaltyDistribution
}

// FillListing settles a resale whose payment has already cleared. The ticket
// returns to active under the buyer, the listing becomes filled, and the
// computed royalty split is recorded; no funds move here.
func (s *MarketService) FillListing(ctx context.Context, in FillListingInput) (FillResult, error) {
	if in.ListingID == "" {
		return FillResult{}, domain.ErrInvalidID
	}
	if in.Buyer == "" {
		return FillResult{}, domain.ErrWalletRequired
	}

	now := s.clock.Now()
	var result FillResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		listing, err := s.repo.GetListingForUpdate(txCtx, in.ListingID)
		if err != nil {
			return err
		}
		if listing.Status != domain.ListingStatusActive {
			return domain.ErrInvalidState
		}
		if listing.Seller == in.Buyer {
			return domain.ErrSelfTrade
		}

		ticket, err := s.repo.GetTicketForUpdate(txCtx, listing.TokenID)
		if err != nil {
			return err
		}
		event, err := s.repo.GetEvent(txCtx, listing.EventID)
		if err != nil {
			return err
		}

		split := domain.SplitRoyalties(listing.Price, event.RoyaltyPlatformPct, event.RoyaltyArtistPct, ticket.ResaleCount)

		if err := s.repo.RecordResale(txCtx, listing.TokenID, in.Buyer, listing.Price); err != nil {
			return err
		}
		if err := s.repo.SetListingStatus(txCtx, in.ListingID, domain.ListingStatusFilled); err != nil {
			return err
		}

		price := listing.Price
		txn := domain.Transaction{
			ID:            newID(),
			TokenID:       listing.TokenID,
			Type:          domain.TransactionSale,
			From:          listing.Seller,
			To:            in.Buyer,
			Price:         &price,
			SettlementRef: in.SettlementRef,
			Timestamp:     now,
		}
		if err := s.repo.AppendTransaction(txCtx, txn); err != nil {
			return err
		}

		dist := domain.RoyaltyDistribution{
			ID:             newID(),
			ListingID:      listing.ID,
			TokenID:        listing.TokenID,
			Price:          listing.Price,
			SellerProceeds: split.SellerProceeds,
			PlatformFee:    split.PlatformFee,
			ArtistRoyalty:  split.ArtistRoyalty,
			CreatedAt:      now,
		}
		if err := s.repo.CreateRoyaltyDistribution(txCtx, dist); err != nil {
			return err
		}

		ticket.Owner = in.Buyer
		ticket.State = domain.TicketStateActive
		ticket.LastSalePrice = listing.Price
		ticket.ResaleCount++
		ticket.History = append(ticket.History, txn)

		listing.Status = domain.ListingStatusFilled
		result = FillResult{Ticket: ticket, Listing: listing, Distribution: dist}
		return nil
	})
	if err != nil {
		return FillResult{}, err
	}
	return result, nil
}

// ListActive returns the open listings for an event.
func (s *MarketService) ListActive(ctx context.Context, eventID string) ([]domain.Listing, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListActiveListings(ctx, eventID)
}
