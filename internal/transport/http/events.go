package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/akshadgujarkar/fair-ticketing/internal/app"
	"github.com/akshadgujarkar/fair-ticketing/internal/clock"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

// EventLister is the minimal interface needed to list events.
type EventLister interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// EventGetter is the minimal interface needed to fetch one event.
type EventGetter interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

// TicketMinter is the minimal interface needed for primary purchases.
type TicketMinter interface {
	Mint(ctx context.Context, in app.MintInput) ([]domain.Ticket, error)
}

// HandleListEvents returns an HTTP handler for the public event catalogue.
func HandleListEvents(svc EventLister, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		events, err := svc.ListEvents(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		now := clk.Now()
		resp := make([]eventResponse, 0, len(events))
		for _, event := range events {
			resp = append(resp, toEventResponse(event, now))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleEventRoutes serves GET /events/{id} and POST /events/{id}/purchase.
func HandleEventRoutes(getter EventGetter, minter TicketMinter, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, action, ok := parseEventPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch action {
		case "":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			event, err := getter.GetEvent(r.Context(), eventID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toEventResponse(event, clk.Now()))
		case "purchase":
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handlePurchase(w, r, minter, eventID)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handlePurchase(w http.ResponseWriter, r *http.Request, minter TicketMinter, eventID string) {
	var req purchaseRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	tickets, err := minter.Mint(r.Context(), app.MintInput{
		EventID:       eventID,
		Owner:         callerWallet(r),
		Quantity:      req.Quantity,
		SettlementRef: req.SettlementRef,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := purchaseResponse{Tickets: make([]ticketResponse, 0, len(tickets))}
	for _, ticket := range tickets {
		resp.Tickets = append(resp.Tickets, toTicketResponse(ticket))
	}
	writeJSON(w, http.StatusCreated, resp)
}

func parseEventPath(path string) (eventID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "events" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	return parts[1], parts[2], true
}

type purchaseRequest struct {
	Quantity      int    `json:"quantity"`
	SettlementRef string `json:"settlement_ref"`
}

type purchaseResponse struct {
	Tickets []ticketResponse `json:"tickets"`
}
