package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/akshadgujarkar/fair-ticketing/internal/app"
	"github.com/akshadgujarkar/fair-ticketing/internal/clock"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

// EventCreator is the minimal interface needed to register events.
type EventCreator interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
}

// SupplyReleaser is the minimal interface needed to return supply to the pool.
type SupplyReleaser interface {
	ReleaseSupply(ctx context.Context, eventID string, quantity int) (domain.Event, error)
}

// HandleAdminEvents returns an HTTP handler for event registration.
func HandleAdminEvents(svc EventCreator, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidSchedule, "invalid starts_at format")
			return
		}
		endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidSchedule, "invalid ends_at format")
			return
		}

		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			Name:                     req.Name,
			Venue:                    req.Venue,
			Description:              req.Description,
			Organizer:                callerWallet(r),
			TotalSupply:              req.TotalSupply,
			BasePrice:                req.BasePrice,
			PerWalletLimit:           req.PerWalletLimit,
			ResalePriceCapPct:        req.ResalePriceCapPct,
			RoyaltyPlatformPct:       req.RoyaltyPlatformPct,
			RoyaltyArtistPct:         req.RoyaltyArtistPct,
			ResaleLockedUntilSoldOut: req.ResaleLockedUntilSoldOut,
			StartsAt:                 startsAt,
			EndsAt:                   endsAt,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(event, clk.Now()))
	}
}

// HandleAdminEventRoutes serves POST /admin/events/{id}/release.
func HandleAdminEventRoutes(svc SupplyReleaser, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := parseReleasePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req releaseRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		event, err := svc.ReleaseSupply(r.Context(), eventID, req.Quantity)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event, clk.Now()))
	}
}

func parseReleasePath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "events" || parts[3] != "release" {
		return "", false
	}
	if parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

type createEventRequest struct {
	Name                     string `json:"name"`
	Venue                    string `json:"venue"`
	Description              string `json:"description"`
	TotalSupply              int    `json:"total_supply"`
	BasePrice                int64  `json:"base_price"`
	PerWalletLimit           int    `json:"per_wallet_limit"`
	ResalePriceCapPct        int    `json:"resale_price_cap_pct"`
	RoyaltyPlatformPct       int    `json:"royalty_platform_pct"`
	RoyaltyArtistPct         int    `json:"royalty_artist_pct"`
	ResaleLockedUntilSoldOut bool   `json:"resale_locked_until_sold_out"`
	StartsAt                 string `json:"starts_at"`
	EndsAt                   string `json:"ends_at"`
}

type releaseRequest struct {
	Quantity int `json:"quantity"`
}
