package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *LedgerRepository) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	event, err := scanEvent(r.queryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event for update: %w", err)
	}
	return event, nil
}

func (r *LedgerRepository) SetSoldCount(ctx context.Context, eventID string, soldCount int) error {
	const stmt = `UPDATE events SET sold_count = $2 WHERE id = $1`
	tag, err := r.exec(ctx, stmt, eventID, soldCount)
	if err != nil {
		return fmt.Errorf("set sold count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *LedgerRepository) GetPurchasedForUpdate(ctx context.Context, eventID, wallet string) (int, error) {
	const query = `SELECT purchased FROM purchase_limits WHERE event_id = $1 AND wallet = $2 FOR UPDATE`
	var purchased int
	err := r.queryRow(ctx, query, eventID, wallet).Scan(&purchased)
	if err != nil {
		if err == pgx.ErrNoRows {
			// No row yet means nothing purchased; the locked event row
			// serializes concurrent first purchases.
			return 0, nil
		}
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("get purchased: %w", err)
	}
	return purchased, nil
}

func (r *LedgerRepository) SetPurchased(ctx context.Context, eventID, wallet string, purchased int) error {
	const stmt = `
INSERT INTO purchase_limits (event_id, wallet, purchased)
VALUES ($1, $2, $3)
ON CONFLICT (event_id, wallet) DO UPDATE SET purchased = EXCLUDED.purchased`
	if _, err := r.exec(ctx, stmt, eventID, wallet, purchased); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("set purchased: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetTicketForUpdate(ctx context.Context, tokenID string) (domain.Ticket, error) {
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

// GetTicket loads a ticket together with its full transaction history in
// insertion order.
func (r *LedgerRepository) GetTicket(ctx context.Context, tokenID string) (domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE token_id = $1`
	ticket, err := scanTicket(r.queryRow(ctx, query, tokenID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Ticket{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}

	history, err := r.listTransactions(ctx, tokenID)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket.History = history
	return ticket, nil
}

// ListTicketsByOwner loads a wallet's tickets with their transaction
// histories, batched in a single query per call rather than one per ticket.
func (r *LedgerRepository) ListTicketsByOwner(ctx context.Context, owner string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE owner = $1 ORDER BY purchase_date ASC, token_id ASC`
	rows, err := r.query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tickets: %w", rows.Err())
	}
	if len(tickets) == 0 {
		return tickets, nil
	}

	histories, err := r.listTransactionsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		tickets[i].History = histories[tickets[i].TokenID]
	}
	return tickets, nil
}

func (r *LedgerRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	stmt := `INSERT INTO tickets (` + ticketColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.exec(ctx, stmt,
		ticket.TokenID,
		ticket.EventID,
		ticket.Owner,
		string(ticket.State),
		ticket.LastSalePrice,
		ticket.ResaleCount,
		ticket.PurchaseDate,
		ticket.UsedDate,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *LedgerRepository) UpdateTicketOwner(ctx context.Context, tokenID, owner string) error {
	const stmt = `UPDATE tickets SET owner = $2 WHERE token_id = $1`
	tag, err := r.exec(ctx, stmt, tokenID, owner)
	if err != nil {
		return fmt.Errorf("update ticket owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *LedgerRepository) MarkTicketUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	const stmt = `UPDATE tickets SET state = 'used', used_date = $2 WHERE token_id = $1`
	tag, err := r.exec(ctx, stmt, tokenID, usedAt)
	if err != nil {
		return fmt.Errorf("mark ticket used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *LedgerRepository) AppendTransaction(ctx context.Context, txn domain.Transaction) error {
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

func (r *LedgerRepository) listTransactions(ctx context.Context, tokenID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ticket_transactions WHERE token_id = $1 ORDER BY seq ASC`
	rows, err := r.query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate transactions: %w", rows.Err())
	}
	return txns, nil
}

func (r *LedgerRepository) listTransactionsByOwner(ctx context.Context, owner string) (map[string][]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ticket_transactions
		WHERE token_id IN (SELECT token_id FROM tickets WHERE owner = $1)
		ORDER BY seq ASC`
	rows, err := r.query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("list transactions by owner: %w", err)
	}
	defer rows.Close()

	histories := make(map[string][]domain.Transaction)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		histories[txn.TokenID] = append(histories[txn.TokenID], txn)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate transactions: %w", rows.Err())
	}
	return histories, nil
}

func (r *LedgerRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *LedgerRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *LedgerRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
