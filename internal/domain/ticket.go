package domain

import "time"

type TicketState string

const (
	TicketStateActive TicketState = "active"
	TicketStateListed TicketState = "listed"
	TicketStateUsed   TicketState = "used"
)

type TransactionType string

const (
	TransactionMint     TransactionType = "mint"
	TransactionTransfer TransactionType = "transfer"
	TransactionSale     TransactionType = "sale"
	TransactionCancel   TransactionType = "cancel"
	TransactionUse      TransactionType = "use"
)

// Ticket is a uniquely numbered admission token. Once used it is permanently
// read-only.
type Ticket struct {
	TokenID       string
	EventID       string
	Owner         string
	State         TicketState
	LastSalePrice int64
	ResaleCount   int
	PurchaseDate  time.Time
	UsedDate      *time.Time
	History       []Transaction
}

// Transaction is one immutable ledger entry in a ticket's history. It is an
// audit trail only and is never consulted for authorization.
type Transaction struct {
	ID            string
	TokenID       string
	Type          TransactionType
	From          string
	To            string
	Price         *int64
	SettlementRef string
	Timestamp     time.Time
}
