package domain

import "time"

type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusFilled    ListingStatus = "filled"
	ListingStatusCancelled ListingStatus = "cancelled"
)

// Listing is a resale offer for one ticket. A ticket has at most one active
// listing; filled and cancelled are terminal.
type Listing struct {
	ID        string
	TokenID   string
	EventID   string
	Price     int64
	Seller    string
	Status    ListingStatus
	CreatedAt time.Time
}

// RoyaltyDistribution records the split computed for a filled listing. The
// engine records it; settlement happens outside.
type RoyaltyDistribution struct {
	ID             string
	ListingID      string
	TokenID        string
	Price          int64
	SellerProceeds int64
	PlatformFee    int64
	ArtistRoyalty  int64
	CreatedAt      time.Time
}
