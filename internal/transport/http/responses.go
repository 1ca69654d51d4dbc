package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

// Wallet identity rides on a header rather than the body so every mutating
// endpoint reads the caller the same way.
const walletHeader = "X-Wallet-Address"

func callerWallet(r *http.Request) string {
	return r.Header.Get(walletHeader)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type eventResponse struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	Venue                    string    `json:"venue,omitempty"`
	Description              string    `json:"description,omitempty"`
	Organizer                string    `json:"organizer,omitempty"`
	TotalSupply              int       `json:"total_supply"`
	SoldCount                int       `json:"sold_count"`
	Remaining                int       `json:"remaining"`
	BasePrice                int64     `json:"base_price"`
	PerWalletLimit           int       `json:"per_wallet_limit"`
	ResalePriceCapPct        int       `json:"resale_price_cap_pct"`
	RoyaltyPlatformPct       int       `json:"royalty_platform_pct"`
	RoyaltyArtistPct         int       `json:"royalty_artist_pct"`
	ResaleLockedUntilSoldOut bool      `json:"resale_locked_until_sold_out"`
	ResaleOpen               bool      `json:"resale_open"`
	Status                   string    `json:"status"`
	StartsAt                 time.Time `json:"starts_at"`
	EndsAt                   time.Time `json:"ends_at"`
}

func toEventResponse(event domain.Event, now time.Time) eventResponse {
	return eventResponse{
		ID:                       event.ID,
		Name:                     event.Name,
		Venue:                    event.Venue,
		Description:              event.Description,
		Organizer:                event.Organizer,
		TotalSupply:              event.TotalSupply,
		SoldCount:                event.SoldCount,
		Remaining:                event.Remaining(),
		BasePrice:                event.BasePrice,
		PerWalletLimit:           event.PerWalletLimit,
		ResalePriceCapPct:        event.ResalePriceCapPct,
		RoyaltyPlatformPct:       event.RoyaltyPlatformPct,
		RoyaltyArtistPct:         event.RoyaltyArtistPct,
		ResaleLockedUntilSoldOut: event.ResaleLockedUntilSoldOut,
		ResaleOpen:               event.ResaleOpen(),
		Status:                   string(event.Status(now)),
		StartsAt:                 event.StartsAt,
		EndsAt:                   event.EndsAt,
	}
}

type transactionResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	From          string    `json:"from,omitempty"`
	To            string    `json:"to,omitempty"`
	Price         *int64    `json:"price,omitempty"`
	SettlementRef string    `json:"settlement_ref,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type ticketResponse struct {
	TokenID       string                `json:"token_id"`
	EventID       string                `json:"event_id"`
	Owner         string                `json:"owner"`
	State         string                `json:"state"`
	LastSalePrice int64                 `json:"last_sale_price"`
	ResaleCount   int                   `json:"resale_count"`
	PurchaseDate  time.Time             `json:"purchase_date"`
	UsedDate      *time.Time            `json:"used_date,omitempty"`
	History       []transactionResponse `json:"history,omitempty"`
}

func toTicketResponse(ticket domain.Ticket) ticketResponse {
	resp := ticketResponse{
		TokenID:       ticket.TokenID,
		EventID:       ticket.EventID,
		Owner:         ticket.Owner,
		State:         string(ticket.State),
		LastSalePrice: ticket.LastSalePrice,
		ResaleCount:   ticket.ResaleCount,
		PurchaseDate:  ticket.PurchaseDate,
		UsedDate:      ticket.UsedDate,
	}
	for _, txn := range ticket.History {
		resp.History = append(resp.History, transactionResponse{
			ID:            txn.ID,
			Type:          string(txn.Type),
			From:          txn.From,
			To:            txn.To,
			Price:         txn.Price,
			SettlementRef: txn.SettlementRef,
			Timestamp:     txn.Timestamp,
		})
	}
	return resp
}

type listingResponse struct {
	ID        string    `json:"id"`
	TokenID   string    `json:"token_id"`
	EventID   string    `json:"event_id"`
	Price     int64     `json:"price"`
	Seller    string    `json:"seller"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toListingResponse(listing domain.Listing) listingResponse {
	return listingResponse{
		ID:        listing.ID,
		TokenID:   listing.TokenID,
		EventID:   listing.EventID,
		Price:     listing.Price,
		Seller:    listing.Seller,
		Status:    string(listing.Status),
		CreatedAt: listing.CreatedAt,
	}
}

type distributionResponse struct {
	ID             string `json:"id"`
	ListingID      string `json:"listing_id"`
	TokenID        string `json:"token_id"`
	Price          int64  `json:"price"`
	SellerProceeds int64  `json:"seller_proceeds"`
	PlatformFee    int64  `json:"platform_fee"`
	ArtistRoyalty  int64  `json:"artist_royalty"`
}

func toDistributionResponse(dist domain.RoyaltyDistribution) distributionResponse {
	return distributionResponse{
		ID:             dist.ID,
		ListingID:      dist.ListingID,
		TokenID:        dist.TokenID,
		Price:          dist.Price,
		SellerProceeds: dist.SellerProceeds,
		PlatformFee:    dist.PlatformFee,
		ArtistRoyalty:  dist.ArtistRoyalty,
	}
}
