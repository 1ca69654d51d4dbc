package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

type MarketRepository struct {
	pool *pgxpool.Pool
}

func NewMarketRepository(pool *pgxpool.Pool) *MarketRepository {
	return &MarketRepository{pool: pool}
}

func (r *MarketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *MarketRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(r.queryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *MarketRepository) GetTicketForUpdate(ctx context.Context, tokenID string) (domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE token_id = $1 FOR UPDATE`
	ticket, err := scanTicket(r.queryRow(ctx, query, tokenID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Ticket{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket for update: %w", err)
	}
	return ticket, nil
}

func (r *MarketRepository) SetTicketState(ctx context.Context, tokenID string, state domain.TicketState) error {
	const stmt = `UPDATE tickets SET state = $2 WHERE token_id = $1`
	tag, err := r.exec(ctx, stmt, tokenID, string(state))
	if err != nil {
		return fmt.Errorf("set ticket state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// RecordResale applies a fill to the ticket row: new owner, back to active,
// updated price baseline and resale counter in one statement.
func (r *MarketRepository) RecordResale(ctx context.Context, tokenID, owner string, price int64) error {
	const stmt = `
UPDATE tickets
SET owner = $2, state = 'active', last_sale_price = $3, resale_count = resale_count + 1
WHERE token_id = $1`
	tag, err := r.exec(ctx, stmt, tokenID, owner, price)
	if err != nil {
		return fmt.Errorf("record resale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *MarketRepository) CreateListing(ctx context.Context, listing domain.Listing) error {
	stmt := `INSERT INTO listings (` + listingColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.exec(ctx, stmt,
		listing.ID,
		listing.TokenID,
		listing.EventID,
		listing.Price,
		listing.Seller,
		string(listing.Status),
		listing.CreatedAt,
	)
	if err != nil {
		// The partial unique index allows one active listing per token.
		if isUniqueViolation(err) {
			return domain.ErrInvalidState
		}
		if isForeignKeyViolation(err) {
			return domain.ErrTicketNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

func (r *MarketRepository) GetListingForUpdate(ctx context.Context, listingID string) (domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`
	listing, err := scanListing(r.queryRow(ctx, query, listingID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Listing{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing for update: %w", err)
	}
	return listing, nil
}

func (r *MarketRepository) SetListingStatus(ctx context.Context, listingID string, status domain.ListingStatus) error {
	const stmt = `UPDATE listings SET status = $2 WHERE id = $1`
	tag, err := r.exec(ctx, stmt, listingID, string(status))
	if err != nil {
		return fmt.Errorf("set listing status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *MarketRepository) ListActiveListings(ctx context.Context, eventID string) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE event_id = $1 AND status = 'active' ORDER BY created_at ASC`
	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list active listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, listing)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate listings: %w", rows.Err())
	}
	return listings, nil
}

func (r *MarketRepository) CreateRoyaltyDistribution(ctx context.Context, dist domain.RoyaltyDistribution) error {
	const stmt = `
INSERT INTO royalty_distributions (id, listing_id, token_id, price, seller_proceeds, platform_fee, artist_royalty, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.exec(ctx, stmt,
		dist.ID,
		dist.ListingID,
		dist.TokenID,
		dist.Price,
		dist.SellerProceeds,
		dist.PlatformFee,
		dist.ArtistRoyalty,
		dist.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create royalty distribution: %w", err)
	}
	return nil
}

func (r *MarketRepository) AppendTransaction(ctx context.Context, txn domain.Transaction) error {
	_, err := r.exec(ctx, insertTransactionStmt,
		txn.ID,
		txn.TokenID,
		string(txn.Type),
		txn.From,
		txn.To,
		txn.Price,
		txn.SettlementRef,
		txn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

func (r *MarketRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *MarketRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *MarketRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
