package app

import (
	"context"
	"time"

	"github.com/akshadgujarkar/fair-ticketing/internal/clock"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

type LedgerRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	SetSoldCount(ctx context.Context, eventID string, soldCount int) error
	GetPurchasedForUpdate(ctx context.Context, eventID, wallet string) (int, error)
	SetPurchased(ctx context.Context, eventID, wallet string, purchased int) error
	GetTicketForUpdate(ctx context.Context, tokenID string) (domain.Ticket, error)
	GetTicket(ctx context.Context, tokenID string) (domain.Ticket, error)
	ListTicketsByOwner(ctx context.Context, owner string) ([]domain.Ticket, error)
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	UpdateTicketOwner(ctx context.Context, tokenID, owner string) error
	MarkTicketUsed(ctx context.Context, tokenID string, usedAt time.Time) error
	AppendTransaction(ctx context.Context, txn domain.Transaction) error
}

// LedgerService is the mint/transfer/use authority. It is the only writer of
// ticket ownership and lifecycle state.
type LedgerService struct {
	repo  LedgerRepository
	clock clock.Clock
}

func NewLedgerService(repo LedgerRepository, clk clock.Clock) *LedgerService {
	return &LedgerService{
		repo:  repo,
		clock: clk,
	}
}

type MintInput struct {
	EventID       string
	Owner         string
	Quantity      int
	SettlementRef string
}

// Mint issues fresh tickets for a primary purchase. The supply check, the
// per-wallet limit check and the inserts run as one transaction against the
// locked event row: a request that fails either check changes nothing.
func (s *LedgerService) Mint(ctx context.Context, in MintInput) ([]domain.Ticket, error) {
	if in.EventID == "" {
		return nil, domain.ErrInvalidID
	}
	if in.Owner == "" {
		return nil, domain.ErrWalletRequired
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	now := s.clock.Now()
	var minted []domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if event.SoldCount+in.Quantity > event.TotalSupply {
			return domain.ErrInsufficientSupply
		}

		purchased, err := s.repo.GetPurchasedForUpdate(txCtx, in.EventID, in.Owner)
		if err != nil {
			return err
		}
		// The event's limit is the single source of truth, re-read on every
		// purchase so organizer changes apply immediately.
		if purchased+in.Quantity > event.PerWalletLimit {
			return domain.ErrPurchaseLimitExceeded
		}

		if err := s.repo.SetPurchased(txCtx, in.EventID, in.Owner, purchased+in.Quantity); err != nil {
			return err
		}
		if err := s.repo.SetSoldCount(txCtx, in.EventID, event.SoldCount+in.Quantity); err != nil {
			return err
		}

		minted = make([]domain.Ticket, 0, in.Quantity)
		for i := 0; i < in.Quantity; i++ {
			price := event.BasePrice
			ticket := domain.Ticket{
				TokenID:       newID(),
				EventID:       in.EventID,
				Owner:         in.Owner,
				State:         domain.TicketStateActive,
				LastSalePrice: event.BasePrice,
				PurchaseDate:  now,
			}
			txn := domain.Transaction{
				ID:            newID(),
				TokenID:       ticket.TokenID,
				Type:          domain.TransactionMint,
				To:            in.Owner,
				Price:         &price,
				SettlementRef: in.SettlementRef,
				Timestamp:     now,
			}
			if err := s.repo.CreateTicket(txCtx, ticket); err != nil {
				return err
			}
			if err := s.repo.AppendTransaction(txCtx, txn); err != nil {
				return err
			}
			ticket.History = []domain.Transaction{txn}
			minted = append(minted, ticket)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return minted, nil
}

// GetTicket returns a ticket with its full history.
func (s *LedgerService) GetTicket(ctx context.Context, tokenID string) (domain.Ticket, error) {
	if tokenID == "" {
		return domain.Ticket{}, domain.ErrInvalidID
	}
	return s.repo.GetTicket(ctx, tokenID)
}

// ListByOwner returns every ticket currently held by a wallet.
func (s *LedgerService) ListByOwner(ctx context.Context, owner string) ([]domain.Ticket, error) {
	if owner == "" {
		return nil, domain.ErrWalletRequired
	}
	return s.repo.ListTicketsByOwner(ctx, owner)
}

type TransferInput struct {
	TokenID string
	To      string
	Caller  string
}

// Transfer moves an active ticket to a new wallet. Listed tickets must be
// delisted first; used tickets are immutable.
func (s *LedgerService) Transfer(ctx context.Context, in TransferInput) (domain.Ticket, error) {
	if in.TokenID == "" {
		return domain.Ticket{}, domain.ErrInvalidID
	}
	if in.To == "" || in.Caller == "" {
		return domain.Ticket{}, domain.ErrWalletRequired
	}

	now := s.clock.Now()
	var result domain.Ticket

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
		if ticket.Owner != in.Caller {
			return domain.ErrNotOwner
		}

		if err := s.repo.UpdateTicketOwner(txCtx, in.TokenID, in.To); err != nil {
			return err
		}
		txn := domain.Transaction{
			ID:        newID(),
			TokenID:   in.TokenID,
			Type:      domain.TransactionTransfer,
			From:      ticket.Owner,
			To:        in.To,
			Timestamp: now,
		}
		if err := s.repo.AppendTransaction(txCtx, txn); err != nil {
			return err
		}

		ticket.Owner = in.To
		ticket.History = append(ticket.History, txn)
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}

// Use irreversibly redeems a ticket for entry. Timing eligibility is the
// verification engine's concern; Use re-checks only the state invariant,
// atomically under the ticket row lock, so a second gate's attempt fails
// with TicketAlreadyUsed rather than silently succeeding.
func (s *LedgerService) Use(ctx context.Context, tokenID string) (domain.Ticket, error) {
	if tokenID == "" {
		return domain.Ticket{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result domain.Ticket

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticket, err := s.repo.GetTicketForUpdate(txCtx, tokenID)
		if err != nil {
			return err
		}
		if ticket.State == domain.TicketStateUsed {
			return domain.ErrTicketAlreadyUsed
		}
		if ticket.State != domain.TicketStateActive {
			return domain.ErrInvalidState
		}

		ticket.State = domain.TicketStateUsed
		ticket.UsedDate = &now
		if err := s.repo.MarkTicketUsed(txCtx, tokenID, now); err != nil {
			return err
		}
		txn := domain.Transaction{
			ID:        newID(),
			TokenID:   tokenID,
			Type:      domain.TransactionUse,
			From:      ticket.Owner,
			Timestamp: now,
		}
		if err := s.repo.AppendTransaction(txCtx, txn); err != nil {
			return err
		}

		ticket.History = append(ticket.History, txn)
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}
