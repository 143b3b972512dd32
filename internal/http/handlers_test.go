package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mdsaif2022/ntb-booking-server/internal/booking"
	"github.com/mdsaif2022/ntb-booking-server/internal/config"
	"github.com/mdsaif2022/ntb-booking-server/internal/domain"
	httphandler "github.com/mdsaif2022/ntb-booking-server/internal/http"
	"github.com/mdsaif2022/ntb-booking-server/internal/idempotency"
	"github.com/mdsaif2022/ntb-booking-server/internal/inventory"
	"github.com/mdsaif2022/ntb-booking-server/internal/notify"
	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	cfg := &config.Config{
		HoldTTL:        5 * time.Minute,
		ApprovalWindow: 30 * time.Minute,
	}
	logger := observability.NewLogger()
	inv := inventory.New(cfg.HoldTTL, nil)
	feed := notify.NewFeed()
	ctrl := booking.NewController(cfg.ApprovalWindow, feed, inv, logger)

	h := httphandler.NewHandlers(cfg, inv, ctrl, feed, (*idempotency.Idempotency)(nil), nil, logger)
	return httphandler.SetupRouter(h, logger, nil)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createBooking(t *testing.T, router http.Handler, seats []string) domain.Booking {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/v1/bookings", map[string]interface{}{
		"identity":   map[string]string{"name": "Asha Rai", "email": "asha@example.com", "phone": "+977980"},
		"resourceId": "T1",
		"seatIds":    seats,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var b domain.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestGetSeats_ReturnsFullLayout(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/resources/T1/seats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ResourceID string        `json:"resourceId"`
		Seats      []domain.Seat `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "T1", resp.ResourceID)
	assert.Len(t, resp.Seats, 40)
}

func TestSetHolds_Validation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/resources/T1/seats", map[string]interface{}{
		"seatIds": []string{"A1"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/resources/T1/seats", map[string]interface{}{
		"requesterId": "u1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetHolds_ReturnsUpdatedMap(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/resources/T1/seats", map[string]interface{}{
		"requesterId": "u1",
		"seatIds":     []string{"A1"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Seats []domain.Seat `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, s := range resp.Seats {
		if s.ID == "A1" {
			assert.Equal(t, "u1", s.ReservedBy)
			assert.False(t, s.IsAvailable)
			return
		}
	}
	t.Fatal("A1 missing from response")
}

func TestCreateBooking_Validation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/bookings", map[string]interface{}{
		"resourceId": "T1",
		"seatIds":    []string{"A1"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/bookings", map[string]interface{}{
		"identity": map[string]string{"name": "Asha Rai"},
		"seatIds":  []string{"A1"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingLifecycle_OverHTTP(t *testing.T) {
	router := newTestRouter(t)
	b := createBooking(t, router, []string{"A1", "A2"})
	assert.Equal(t, domain.BookingPending, b.Status)

	rec := doJSON(t, router, http.MethodGet, "/v1/bookings/"+b.ID.String()+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var statusResp struct {
		Status    domain.BookingStatus `json:"status"`
		ExpiresAt string               `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statusResp))
	assert.Equal(t, domain.BookingPending, statusResp.Status)
	assert.NotEmpty(t, statusResp.ExpiresAt)

	rec = doJSON(t, router, http.MethodPost, "/v1/bookings/"+b.ID.String()+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Approve after approve: wrong timing, not wrong id.
	rec = doJSON(t, router, http.MethodPost, "/v1/bookings/"+b.ID.String()+"/reject", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Approval booked the seats.
	rec = doJSON(t, router, http.MethodGet, "/v1/resources/T1/seats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var seatsResp struct {
		Seats []domain.Seat `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seatsResp))
	booked := 0
	for _, s := range seatsResp.Seats {
		if s.BookedBy == b.ID.String() {
			booked++
			assert.False(t, s.IsAvailable)
		}
	}
	assert.Equal(t, 2, booked)
}

func TestBookingStatus_UnknownAndMalformedIDs(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/bookings/0b8c5a7e-13a1-4a52-9d4e-27d4db6a3e10/status", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/bookings/not-a-uuid/status", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentCallback_ForcesApproval(t *testing.T) {
	router := newTestRouter(t)
	b := createBooking(t, router, []string{"B1"})

	rec := doJSON(t, router, http.MethodPost, "/v1/payments/callback", map[string]interface{}{
		"bookingId":     b.ID.String(),
		"status":        "SUCCEEDED",
		"transactionId": "txn-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/bookings/"+b.ID.String()+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(domain.BookingApproved))
}

func TestPaymentCallback_IgnoresFailures(t *testing.T) {
	router := newTestRouter(t)
	b := createBooking(t, router, []string{"B2"})

	rec := doJSON(t, router, http.MethodPost, "/v1/payments/callback", map[string]interface{}{
		"bookingId": b.ID.String(),
		"status":    "FAILED",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/bookings/"+b.ID.String()+"/status", nil)
	assert.Contains(t, rec.Body.String(), string(domain.BookingPending))
}

func TestNotifications_AdminGate(t *testing.T) {
	router := newTestRouter(t)
	b := createBooking(t, router, []string{"C1"})

	rec := doJSON(t, router, http.MethodGet, "/v1/notifications", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/notifications?role=admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].BookingID)

	rec = doJSON(t, router, http.MethodPost, "/v1/notifications/"+items[0].ID.String()+"/read", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/v1/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodGet, "/v1/readyz", nil).Code)
}
