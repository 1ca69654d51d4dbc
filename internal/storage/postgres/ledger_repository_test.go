package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
	"github.com/akshadgujarkar/fair-ticketing/internal/testutil"
)

func TestLedgerRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewLedgerRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetEventForUpdate returns event and ErrEventNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{TotalSupply: 50, BasePrice: 100})

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			event, err := repo.GetEventForUpdate(txCtx, eventID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if event.ID != eventID || event.TotalSupply != 50 || event.BasePrice != 100 {
				t.Fatalf("unexpected event: %+v", event)
			}

			missingID := "00000000-0000-0000-0000-000000000001"
			_, err = repo.GetEventForUpdate(txCtx, missingID)
			if err != domain.ErrEventNotFound {
				t.Fatalf("expected ErrEventNotFound, got %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		if _, err := repo.GetEventForUpdate(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("purchase counters round-trip", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{})

		purchased, err := repo.GetPurchasedForUpdate(ctx, eventID, "0xwallet")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if purchased != 0 {
			t.Fatalf("expected 0 before first purchase, got %d", purchased)
		}

		if err := repo.SetPurchased(ctx, eventID, "0xwallet", 2); err != nil {
			t.Fatalf("set purchased: %v", err)
		}
		if err := repo.SetPurchased(ctx, eventID, "0xwallet", 3); err != nil {
			t.Fatalf("set purchased again: %v", err)
		}

		purchased, err = repo.GetPurchasedForUpdate(ctx, eventID, "0xwallet")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if purchased != 3 {
			t.Fatalf("expected 3, got %d", purchased)
		}
	})

	t.Run("ticket lifecycle writes", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{})

		now := time.Now().UTC().Truncate(time.Millisecond)
		tokenID := uuid.NewString()
		err := repo.CreateTicket(ctx, domain.Ticket{
			TokenID:       tokenID,
			EventID:       eventID,
			Owner:         "0xalice",
			State:         domain.TicketStateActive,
			LastSalePrice: 100,
			PurchaseDate:  now,
		})
		if err != nil {
			t.Fatalf("create ticket: %v", err)
		}

		if err := repo.UpdateTicketOwner(ctx, tokenID, "0xbob"); err != nil {
			t.Fatalf("update owner: %v", err)
		}
		if err := repo.MarkTicketUsed(ctx, tokenID, now.Add(time.Hour)); err != nil {
			t.Fatalf("mark used: %v", err)
		}

		ticket, err := repo.GetTicket(ctx, tokenID)
		if err != nil {
			t.Fatalf("get ticket: %v", err)
		}
		if ticket.Owner != "0xbob" || ticket.State != domain.TicketStateUsed || ticket.UsedDate == nil {
			t.Fatalf("unexpected ticket: %+v", ticket)
		}

		missingID := "00000000-0000-0000-0000-000000000002"
		if err := repo.UpdateTicketOwner(ctx, missingID, "0xbob"); err != domain.ErrTicketNotFound {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
	})

	t.Run("GetTicket loads history in order", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{})
		tokenID := testutil.InsertTicket(t, ctx, pool, domain.Ticket{EventID: eventID, Owner: "0xalice", LastSalePrice: 100})

		price := int64(100)
		now := time.Now().UTC().Truncate(time.Millisecond)
		mint := domain.Transaction{
			ID: uuid.NewString(), TokenID: tokenID, Type: domain.TransactionMint,
			To: "0xalice", Price: &price, SettlementRef: "0xsettle", Timestamp: now,
		}
		transfer := domain.Transaction{
			ID: uuid.NewString(), TokenID: tokenID, Type: domain.TransactionTransfer,
			From: "0xalice", To: "0xbob", Timestamp: now.Add(time.Minute),
		}
		if err := repo.AppendTransaction(ctx, mint); err != nil {
			t.Fatalf("append mint: %v", err)
		}
		if err := repo.AppendTransaction(ctx, transfer); err != nil {
			t.Fatalf("append transfer: %v", err)
		}

		ticket, err := repo.GetTicket(ctx, tokenID)
		if err != nil {
			t.Fatalf("get ticket: %v", err)
		}
		if len(ticket.History) != 2 {
			t.Fatalf("expected 2 history entries, got %d", len(ticket.History))
		}
		if ticket.History[0].Type != domain.TransactionMint || ticket.History[1].Type != domain.TransactionTransfer {
			t.Fatalf("history out of order: %+v", ticket.History)
		}
		if ticket.History[0].Price == nil || *ticket.History[0].Price != 100 {
			t.Fatalf("expected mint price 100, got %+v", ticket.History[0].Price)
		}
		if ticket.History[1].Price != nil {
			t.Fatalf("expected nil transfer price, got %v", *ticket.History[1].Price)
		}
	})

	t.Run("ListTicketsByOwner filters by owner", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{})
		testutil.InsertTicket(t, ctx, pool, domain.Ticket{EventID: eventID, Owner: "0xalice"})
		testutil.InsertTicket(t, ctx, pool, domain.Ticket{EventID: eventID, Owner: "0xalice"})
		testutil.InsertTicket(t, ctx, pool, domain.Ticket{EventID: eventID, Owner: "0xbob"})

		tickets, err := repo.ListTicketsByOwner(ctx, "0xalice")
		if err != nil {
			t.Fatalf("list tickets: %v", err)
		}
		if len(tickets) != 2 {
			t.Fatalf("expected 2 tickets, got %d", len(tickets))
		}
	})

	t.Run("ListTicketsByOwner loads each ticket's history", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{})
		tokenA := testutil.InsertTicket(t, ctx, pool, domain.Ticket{EventID: eventID, Owner: "0xalice"})
		tokenB := testutil.InsertTicket(t, ctx, pool, domain.Ticket{EventID: eventID, Owner: "0xalice"})
		tokenC := testutil.InsertTicket(t, ctx, pool, domain.Ticket{EventID: eventID, Owner: "0xbob"})

		now := time.Now().UTC().Truncate(time.Millisecond)
		for _, tokenID := range []string{tokenA, tokenB, tokenC} {
			txn := domain.Transaction{
				ID: uuid.NewString(), TokenID: tokenID, Type: domain.TransactionMint,
				To: "0xalice", Timestamp: now,
			}
			if err := repo.AppendTransaction(ctx, txn); err != nil {
				t.Fatalf("append mint: %v", err)
			}
		}
		transfer := domain.Transaction{
			ID: uuid.NewString(), TokenID: tokenB, Type: domain.TransactionTransfer,
			From: "0xcarol", To: "0xalice", Timestamp: now.Add(time.Minute),
		}
		if err := repo.AppendTransaction(ctx, transfer); err != nil {
			t.Fatalf("append transfer: %v", err)
		}

		tickets, err := repo.ListTicketsByOwner(ctx, "0xalice")
		if err != nil {
			t.Fatalf("list tickets: %v", err)
		}
		if len(tickets) != 2 {
			t.Fatalf("expected 2 tickets, got %d", len(tickets))
		}
		for _, ticket := range tickets {
			want := 1
			if ticket.TokenID == tokenB {
				want = 2
			}
			if len(ticket.History) != want {
				t.Fatalf("token %s: expected %d history entries, got %d", ticket.TokenID, want, len(ticket.History))
			}
			for _, txn := range ticket.History {
				if txn.TokenID != ticket.TokenID {
					t.Fatalf("history entry for %s attached to %s", txn.TokenID, ticket.TokenID)
				}
			}
		}
	})
}
