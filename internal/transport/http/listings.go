package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/akshadgujarkar/fair-ticketing/internal/app"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

// ListingService is the minimal interface needed for the resale marketplace.
type ListingService interface {
	CreateListing(ctx context.Context, in app.CreateListingInput) (domain.Listing, error)
	CancelListing(ctx context.Context, in app.CancelListingInput) error
	FillListing(ctx context.Context, in app.FillListingInput) (app.FillResult, error)
	ListActive(ctx context.Context, eventID string) ([]domain.Listing, error)
}

// HandleListings serves GET /listings?event_id= and POST /listings.
func HandleListings(svc ListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			eventID := r.URL.Query().Get("event_id")
			if eventID == "" {
				writeError(w, http.StatusBadRequest, codeInvalidID, "event_id is required")
				return
			}
			listings, err := svc.ListActive(r.Context(), eventID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]listingResponse, 0, len(listings))
			for _, listing := range listings {
				resp = append(resp, toListingResponse(listing))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createListingRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			listing, err := svc.CreateListing(r.Context(), app.CreateListingInput{
				TokenID: req.TokenID,
				Price:   req.Price,
				Seller:  callerWallet(r),
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toListingResponse(listing))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleListingRoutes serves POST /listings/{id}/cancel and POST /listings/{id}/fill.
func HandleListingRoutes(svc ListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, action, ok := parseListingPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		switch action {
		case "cancel":
			err := svc.CancelListing(r.Context(), app.CancelListingInput{
				ListingID: listingID,
				Caller:    callerWallet(r),
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
		case "fill":
			var req fillListingRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			res, err := svc.FillListing(r.Context(), app.FillListingInput{
				ListingID:     listingID,
				Buyer:         callerWallet(r),
				SettlementRef: req.SettlementRef,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}

			writeJSON(w, http.StatusOK, fillListingResponse{
				Ticket:       toTicketResponse(res.Ticket),
				Listing:      toListingResponse(res.Listing),
				Distribution: toDistributionResponse(res.Distribution),
			})
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func parseListingPath(path string) (listingID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "listings" || parts[1] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

type createListingRequest struct {
	TokenID string `json:"token_id"`
	Price   int64  `json:"price"`
}

type fillListingRequest struct {
	SettlementRef string `json:"settlement_ref"`
}

type fillListingResponse struct {
	Ticket       ticketResponse       `json:"ticket"`
	Listing      listingResponse      `json:"listing"`
	Distribution distributionResponse `json:"distribution"`
}
