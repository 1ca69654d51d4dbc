package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akshadgujarkar/fair-ticketing/internal/app"
	"github.com/akshadgujarkar/fair-ticketing/internal/clock"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

type stubAdminService struct {
	event domain.Event
	err   error
}

func (s *stubAdminService) CreateEvent(_ context.Context, _ app.CreateEventInput) (domain.Event, error) {
	return s.event, s.err
}

func (s *stubAdminService) ReleaseSupply(_ context.Context, _ string, _ int) (domain.Event, error) {
	return s.event, s.err
}

func TestHandleAdminEvents(t *testing.T) {
	t.Parallel()

	validBody := `{"name":"ChainFest Live","total_supply":500,"base_price":100,"per_wallet_limit":2,` +
		`"resale_price_cap_pct":20,"royalty_platform_pct":10,"royalty_artist_pct":30,` +
		`"starts_at":"2026-03-15T20:00:00Z","ends_at":"2026-03-15T23:00:00Z"}`

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           validBody,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"id":"event-1"`,
		},
		{
			name:           "invalid json",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad starts_at",
			body:           `{"name":"x","starts_at":"tomorrow","ends_at":"2026-03-15T23:00:00Z"}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_schedule"`,
		},
		{
			name:           "missing name",
			body:           validBody,
			serviceErr:     domain.ErrEventNameRequired,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"event_name_required"`,
		},
		{
			name:           "bad royalties",
			body:           validBody,
			serviceErr:     domain.ErrInvalidRoyalty,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_royalty"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAdminService{event: sampleEvent(), err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/admin/events", bytes.NewBufferString(tt.body))
			req.Header.Set(walletHeader, "0xorg")
			rec := httptest.NewRecorder()

			HandleAdminEvents(svc, clock.NewFixed(testNow)).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleAdminEventRoutes_Release(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		path           string
		body           string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "success",
			path:           "/admin/events/event-1/release",
			body:           `{"quantity":2}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "over-release",
			path:           "/admin/events/event-1/release",
			body:           `{"quantity":9999}`,
			serviceErr:     domain.ErrInvalidQuantity,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown event",
			path:           "/admin/events/missing/release",
			body:           `{"quantity":1}`,
			serviceErr:     domain.ErrEventNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad path",
			path:           "/admin/events/event-1/explode",
			body:           `{"quantity":1}`,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAdminService{event: sampleEvent(), err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleAdminEventRoutes(svc, clock.NewFixed(testNow)).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
		})
	}
}
