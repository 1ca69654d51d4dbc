package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akshadgujarkar/fair-ticketing/internal/app"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

type stubTicketService struct {
	ticket  domain.Ticket
	tickets []domain.Ticket
	result  domain.VerificationResult
	err     error
}

func (s *stubTicketService) GetTicket(_ context.Context, _ string) (domain.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) ListByOwner(_ context.Context, _ string) ([]domain.Ticket, error) {
	return s.tickets, s.err
}

func (s *stubTicketService) Transfer(_ context.Context, _ app.TransferInput) (domain.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) Use(_ context.Context, _ string) (domain.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) Verify(_ context.Context, _ string) (domain.VerificationResult, error) {
	return s.result, s.err
}

func sampleTicket() domain.Ticket {
	return domain.Ticket{
		TokenID: "token-1", EventID: "event-1", Owner: "0xalice",
		State: domain.TicketStateActive, LastSalePrice: 100, PurchaseDate: testNow,
	}
}

func TestHandleListTickets(t *testing.T) {
	t.Parallel()

	t.Run("query param owner", func(t *testing.T) {
		t.Parallel()
		svc := &stubTicketService{tickets: []domain.Ticket{sampleTicket()}}
		req := httptest.NewRequest(http.MethodGet, "/tickets?owner=0xalice", nil)
		rec := httptest.NewRecorder()

		HandleListTickets(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"token_id":"token-1"`) {
			t.Fatalf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("missing owner", func(t *testing.T) {
		t.Parallel()
		svc := &stubTicketService{err: domain.ErrWalletRequired}
		req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
		rec := httptest.NewRecorder()

		HandleListTickets(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandleTicketRoutes_Transfer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"to":"0xbob"}`,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"token_id":"token-1"`,
		},
		{
			name:           "invalid json",
			body:           `{"to":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not owner",
			body:           `{"to":"0xbob"}`,
			serviceErr:     domain.ErrNotOwner,
			expectedStatus: http.StatusForbidden,
			expectedSubstr: `"code":"not_owner"`,
		},
		{
			name:           "already used",
			body:           `{"to":"0xbob"}`,
			serviceErr:     domain.ErrTicketAlreadyUsed,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"ticket_already_used"`,
		},
		{
			name:           "listed ticket",
			body:           `{"to":"0xbob"}`,
			serviceErr:     domain.ErrInvalidState,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"invalid_state"`,
		},
		{
			name:           "internal error",
			body:           `{"to":"0xbob"}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubTicketService{ticket: sampleTicket(), err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/tickets/token-1/transfer", bytes.NewBufferString(tt.body))
			req.Header.Set(walletHeader, "0xalice")
			rec := httptest.NewRecorder()

			HandleTicketRoutes(svc, svc, svc, svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleTicketRoutes_Use(t *testing.T) {
	t.Parallel()

	t.Run("redeems", func(t *testing.T) {
		t.Parallel()
		used := sampleTicket()
		used.State = domain.TicketStateUsed
		svc := &stubTicketService{ticket: used}
		req := httptest.NewRequest(http.MethodPost, "/tickets/token-1/use", nil)
		rec := httptest.NewRecorder()

		HandleTicketRoutes(svc, svc, svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"state":"used"`) {
			t.Fatalf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("double use conflicts", func(t *testing.T) {
		t.Parallel()
		svc := &stubTicketService{err: domain.ErrTicketAlreadyUsed}
		req := httptest.NewRequest(http.MethodPost, "/tickets/token-1/use", nil)
		rec := httptest.NewRecorder()

		HandleTicketRoutes(svc, svc, svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", rec.Code)
		}
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		t.Parallel()
		svc := &stubTicketService{}
		req := httptest.NewRequest(http.MethodGet, "/tickets/token-1/use", nil)
		rec := httptest.NewRecorder()

		HandleTicketRoutes(svc, svc, svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}

func TestHandleTicketRoutes_Verify(t *testing.T) {
	t.Parallel()

	// Verification outcomes are data, not errors: every classified scan is a 200.
	tests := []struct {
		name           string
		result         domain.VerificationResult
		expectedSubstr string
	}{
		{
			name:           "valid",
			result:         domain.VerificationResult{Outcome: domain.VerificationValid},
			expectedSubstr: `"admissible":true`,
		},
		{
			name:           "already used",
			result:         domain.VerificationResult{Outcome: domain.VerificationAlreadyUsed},
			expectedSubstr: `"outcome":"already_used"`,
		},
		{
			name:           "unknown ticket",
			result:         domain.VerificationResult{Outcome: domain.VerificationTicketNotFound},
			expectedSubstr: `"outcome":"ticket_not_found"`,
		},
		{
			name:           "too early",
			result:         domain.VerificationResult{Outcome: domain.VerificationTooEarly},
			expectedSubstr: `"outcome":"too_early"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubTicketService{result: tt.result}
			req := httptest.NewRequest(http.MethodGet, "/tickets/token-1/verify", nil)
			rec := httptest.NewRecorder()

			HandleTicketRoutes(svc, svc, svc, svc).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}
