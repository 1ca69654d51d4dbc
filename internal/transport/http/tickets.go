package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/akshadgujarkar/fair-ticketing/internal/app"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

// TicketReader is the minimal interface needed for ticket lookups.
type TicketReader interface {
	GetTicket(ctx context.Context, tokenID string) (domain.Ticket, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Ticket, error)
}

// TicketTransferrer is the minimal interface needed for gift transfers.
type TicketTransferrer interface {
	Transfer(ctx context.Context, in app.TransferInput) (domain.Ticket, error)
}

// TicketRedeemer is the minimal interface needed to redeem tickets at a gate.
type TicketRedeemer interface {
	Use(ctx context.Context, tokenID string) (domain.Ticket, error)
}

// TicketVerifier is the minimal interface needed for read-only gate scans.
type TicketVerifier interface {
	Verify(ctx context.Context, tokenID string) (domain.VerificationResult, error)
}

// HandleListTickets returns an HTTP handler for wallet inventory queries.
func HandleListTickets(svc TicketReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		owner := r.URL.Query().Get("owner")
		if owner == "" {
			owner = callerWallet(r)
		}

		tickets, err := svc.ListByOwner(r.Context(), owner)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]ticketResponse, 0, len(tickets))
		for _, ticket := range tickets {
			resp = append(resp, toTicketResponse(ticket))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleTicketRoutes serves GET /tickets/{id}, GET /tickets/{id}/verify,
// POST /tickets/{id}/transfer and POST /tickets/{id}/use.
func HandleTicketRoutes(reader TicketReader, transferrer TicketTransferrer, redeemer TicketRedeemer, verifier TicketVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenID, action, ok := parseTicketPath(r.URL.Path)
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
			ticket, err := reader.GetTicket(r.Context(), tokenID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toTicketResponse(ticket))
		case "verify":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handleVerify(w, r, verifier, tokenID)
		case "transfer":
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handleTransfer(w, r, transferrer, tokenID)
		case "use":
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			ticket, err := redeemer.Use(r.Context(), tokenID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toTicketResponse(ticket))
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleTransfer(w http.ResponseWriter, r *http.Request, svc TicketTransferrer, tokenID string) {
	var req transferRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	ticket, err := svc.Transfer(r.Context(), app.TransferInput{
		TokenID: tokenID,
		To:      req.To,
		Caller:  callerWallet(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTicketResponse(ticket))
}

func handleVerify(w http.ResponseWriter, r *http.Request, svc TicketVerifier, tokenID string) {
	res, err := svc.Verify(r.Context(), tokenID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}

	resp := verifyResponse{
		Outcome:    string(res.Outcome),
		Admissible: res.Admissible(),
	}
	if res.Ticket != nil {
		ticket := toTicketResponse(*res.Ticket)
		resp.Ticket = &ticket
	}
	if res.Event != nil {
		resp.EventID = res.Event.ID
		resp.EventName = res.Event.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseTicketPath(path string) (tokenID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "tickets" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	return parts[1], parts[2], true
}

type transferRequest struct {
	To string `json:"to"`
}

type verifyResponse struct {
	Outcome    string          `json:"outcome"`
	Admissible bool            `json:"admissible"`
	Ticket     *ticketResponse `json:"ticket,omitempty"`
	EventID    string          `json:"event_id,omitempty"`
	EventName  string          `json:"event_name,omitempty"`
}
