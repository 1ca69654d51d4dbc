package domain

import "errors"

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrListingNotFound       = errors.New("listing not found")
	ErrInsufficientSupply    = errors.New("insufficient supply")
	ErrPurchaseLimitExceeded = errors.New("purchase limit exceeded")
	ErrResaleLocked          = errors.New("resale locked until sold out")
	ErrPriceCapExceeded      = errors.New("resale price cap exceeded")
	ErrNotOwner              = errors.New("caller does not own ticket")
	ErrNotSeller             = errors.New("caller is not the listing seller")
	ErrSelfTrade             = errors.New("buyer and seller are the same wallet")
	ErrInvalidState          = errors.New("invalid ticket state for operation")
	ErrTicketAlreadyUsed     = errors.New("ticket already used")
	ErrConflict              = errors.New("concurrent update conflict")

	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrWalletRequired     = errors.New("wallet address required")
	ErrEventNameRequired  = errors.New("event name required")
	ErrInvalidSupply      = errors.New("invalid total supply")
	ErrInvalidWalletLimit = errors.New("invalid per-wallet limit")
	ErrInvalidSchedule    = errors.New("event must end after it starts")
	ErrInvalidRoyalty     = errors.New("royalty percentages out of range")
)
