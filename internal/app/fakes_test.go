package app

import (
	"context"
	"sync"
	"time"

	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

// fakeStore is an in-memory implementation of the repository interfaces used
// by the services. WithTx serializes callers on one mutex, which mirrors the
// row-lock behaviour the Postgres repositories provide.
type fakeStore struct {
	mu        sync.Mutex
	events    map[string]*domain.Event
	tickets   map[string]*domain.Ticket
	listings  map[string]*domain.Listing
	purchased map[string]int
	txns      []domain.Transaction
	dists     []domain.RoyaltyDistribution
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:    make(map[string]*domain.Event),
		tickets:   make(map[string]*domain.Ticket),
		listings:  make(map[string]*domain.Listing),
		purchased: make(map[string]int),
	}
}

func (f *fakeStore) addEvent(e domain.Event) {
	f.events[e.ID] = &e
}

func (f *fakeStore) addTicket(t domain.Ticket) {
	f.tickets[t.TokenID] = &t
}

func (f *fakeStore) addListing(l domain.Listing) {
	f.listings[l.ID] = &l
}

func purchaseKey(eventID, wallet string) string {
	return eventID + "|" + wallet
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeStore) CreateEvent(_ context.Context, event domain.Event) error {
	f.events[event.ID] = &event
	return nil
}

func (f *fakeStore) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return *event, nil
}

func (f *fakeStore) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	return f.GetEvent(ctx, eventID)
}

func (f *fakeStore) SetSoldCount(_ context.Context, eventID string, soldCount int) error {
	event, ok := f.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	event.SoldCount = soldCount
	return nil
}

func (f *fakeStore) ListEvents(_ context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(f.events))
	for _, event := range f.events {
		out = append(out, *event)
	}
	return out, nil
}

func (f *fakeStore) GetPurchasedForUpdate(_ context.Context, eventID, wallet string) (int, error) {
	return f.purchased[purchaseKey(eventID, wallet)], nil
}

func (f *fakeStore) SetPurchased(_ context.Context, eventID, wallet string, purchased int) error {
	f.purchased[purchaseKey(eventID, wallet)] = purchased
	return nil
}

func (f *fakeStore) GetTicket(_ context.Context, tokenID string) (domain.Ticket, error) {
	ticket, ok := f.tickets[tokenID]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	out := *ticket
	out.History = f.transactionsFor(tokenID)
	return out, nil
}

func (f *fakeStore) GetTicketForUpdate(_ context.Context, tokenID string) (domain.Ticket, error) {
	ticket, ok := f.tickets[tokenID]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return *ticket, nil
}

func (f *fakeStore) ListTicketsByOwner(_ context.Context, owner string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.Owner == owner {
			withHistory := *ticket
			withHistory.History = f.transactionsFor(ticket.TokenID)
			out = append(out, withHistory)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateTicket(_ context.Context, ticket domain.Ticket) error {
	f.tickets[ticket.TokenID] = &ticket
	return nil
}

func (f *fakeStore) UpdateTicketOwner(_ context.Context, tokenID, owner string) error {
	ticket, ok := f.tickets[tokenID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	ticket.Owner = owner
	return nil
}

func (f *fakeStore) MarkTicketUsed(_ context.Context, tokenID string, usedAt time.Time) error {
	ticket, ok := f.tickets[tokenID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	ticket.State = domain.TicketStateUsed
	ticket.UsedDate = &usedAt
	return nil
}

func (f *fakeStore) SetTicketState(_ context.Context, tokenID string, state domain.TicketState) error {
	ticket, ok := f.tickets[tokenID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	ticket.State = state
	return nil
}

func (f *fakeStore) RecordResale(_ context.Context, tokenID, owner string, price int64) error {
	ticket, ok := f.tickets[tokenID]
	if !ok {
		return domain.ErrTicketNotFound
	}
	ticket.Owner = owner
	ticket.State = domain.TicketStateActive
	ticket.LastSalePrice = price
	ticket.ResaleCount++
	return nil
}

func (f *fakeStore) CreateListing(_ context.Context, listing domain.Listing) error {
	f.listings[listing.ID] = &listing
	return nil
}

func (f *fakeStore) GetListingForUpdate(_ context.Context, listingID string) (domain.Listing, error) {
	listing, ok := f.listings[listingID]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return *listing, nil
}

func (f *fakeStore) SetListingStatus(_ context.Context, listingID string, status domain.ListingStatus) error {
	listing, ok := f.listings[listingID]
	if !ok {
		return domain.ErrListingNotFound
	}
	listing.Status = status
	return nil
}

func (f *fakeStore) ListActiveListings(_ context.Context, eventID string) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, listing := range f.listings {
		if listing.EventID == eventID && listing.Status == domain.ListingStatusActive {
			out = append(out, *listing)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateRoyaltyDistribution(_ context.Context, dist domain.RoyaltyDistribution) error {
	f.dists = append(f.dists, dist)
	return nil
}

func (f *fakeStore) AppendTransaction(_ context.Context, txn domain.Transaction) error {
	f.txns = append(f.txns, txn)
	return nil
}

func (f *fakeStore) transactionsFor(tokenID string) []domain.Transaction {
	var out []domain.Transaction
	for _, txn := range f.txns {
		if txn.TokenID == tokenID {
			out = append(out, txn)
		}
	}
	return out
}
