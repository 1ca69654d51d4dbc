package postgres

import (
	"github.com/jackc/pgx/v5"

	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

// Column lists shared by the repositories so every reader sees the same shape.
const (
	eventColumns = `id, name, venue, description, organizer, total_supply, sold_count, base_price,
per_wallet_limit, resale_price_cap_pct, royalty_platform_pct, royalty_artist_pct,
resale_locked_until_sold_out, starts_at, ends_at, created_at`

	ticketColumns = `token_id, event_id, owner, state, last_sale_price, resale_count, purchase_date, used_date`

	listingColumns = `id, token_id, event_id, price, seller, status, created_at`

	transactionColumns = `id, token_id, type, from_wallet, to_wallet, price, settlement_ref, occurred_at`

	insertTransactionStmt = `
INSERT INTO ticket_transactions (id, token_id, type, from_wallet, to_wallet, price, settlement_ref, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Venue,
		&e.Description,
		&e.Organizer,
		&e.TotalSupply,
		&e.SoldCount,
		&e.BasePrice,
		&e.PerWalletLimit,
		&e.ResalePriceCapPct,
		&e.RoyaltyPlatformPct,
		&e.RoyaltyArtistPct,
		&e.ResaleLockedUntilSoldOut,
		&e.StartsAt,
		&e.EndsAt,
		&e.CreatedAt,
	)
	return e, err
}

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var t domain.Ticket
	var state string
	err := row.Scan(
		&t.TokenID,
		&t.EventID,
		&t.Owner,
		&state,
		&t.LastSalePrice,
		&t.ResaleCount,
		&t.PurchaseDate,
		&t.UsedDate,
	)
	t.State = domain.TicketState(state)
	return t, err
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	var status string
	err := row.Scan(
		&l.ID,
		&l.TokenID,
		&l.EventID,
		&l.Price,
		&l.Seller,
		&status,
		&l.CreatedAt,
	)
	l.Status = domain.ListingStatus(status)
	return l, err
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var txn domain.Transaction
	var typ string
	err := row.Scan(
		&txn.ID,
		&txn.TokenID,
		&typ,
		&txn.From,
		&txn.To,
		&txn.Price,
		&txn.SettlementRef,
		&txn.Timestamp,
	)
	txn.Type = domain.TransactionType(typ)
	return txn, err
}
