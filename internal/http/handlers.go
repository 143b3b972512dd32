package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mdsaif2022/ntb-booking-server/internal/adapters/rabbit"
	"github.com/mdsaif2022/ntb-booking-server/internal/booking"
	"github.com/mdsaif2022/ntb-booking-server/internal/config"
	"github.com/mdsaif2022/ntb-booking-server/internal/domain"
	"github.com/mdsaif2022/ntb-booking-server/internal/idempotency"
	"github.com/mdsaif2022/ntb-booking-server/internal/inventory"
	"github.com/mdsaif2022/ntb-booking-server/internal/notify"
	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Handlers struct {
	cfg       *config.Config
	inv       *inventory.Manager
	ctrl      *booking.Controller
	feed      *notify.Feed
	idemp     *idempotency.Idempotency
	rabbitPub *rabbit.Publisher
	logger    observability.Logger
}

func NewHandlers(cfg *config.Config, inv *inventory.Manager, ctrl *booking.Controller, feed *notify.Feed, idemp *idempotency.Idempotency, rabbitPub *rabbit.Publisher, logger observability.Logger) *Handlers {
	return &Handlers{
		cfg:       cfg,
		inv:       inv,
		ctrl:      ctrl,
		feed:      feed,
		idemp:     idemp,
		rabbitPub: rabbitPub,
		logger:    logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto status codes. InvalidState
// and InvalidInput both map to 400 but keep distinct messages so callers can
// tell wrong timing from malformed input.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

type seatMapResponse struct {
	ResourceID string        `json:"resourceId"`
	Seats      []domain.Seat `json:"seats"`
}

func (h *Handlers) GetSeats(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")

	seats, err := h.inv.GetSeats(r.Context(), resourceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seatMapResponse{ResourceID: resourceID, Seats: seats})
}

type setHoldsRequest struct {
	RequesterID string   `json:"requesterId"`
	SeatIDs     []string `json:"seatIds"`
}

func (h *Handlers) SetHolds(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")

	var req setHoldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	seats, err := h.inv.SetHolds(r.Context(), resourceID, req.RequesterID, req.SeatIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seatMapResponse{ResourceID: resourceID, Seats: seats})
}

type createBookingRequest struct {
	Identity   domain.Identity `json:"identity"`
	ResourceID string          `json:"resourceId"`
	SeatIDs    []string        `json:"seatIds"`
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("Idempotency-Key")
	existing, err := h.idemp.Get(r.Context(), key)
	if err != nil {
		h.logger.Error("idempotency lookup failed: ", err)
	}
	if existing != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(existing.Status)
		w.Write(existing.Result)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	b, err := h.ctrl.Create(r.Context(), req.Identity, req.ResourceID, req.SeatIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	data, _ := json.Marshal(b)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write(data)

	h.idemp.Set(r.Context(), key, idempotency.Response{Status: http.StatusCreated, Result: data})
}

func (h *Handlers) GetBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.Wrap(domain.ErrInvalidInput, "invalid booking id"))
		return
	}

	status, expiresAt, err := h.ctrl.GetStatus(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"expiresAt": expiresAt.Format(time.RFC3339),
	})
}

func (h *Handlers) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	h.transitionBooking(w, r, h.ctrl.Approve)
}

func (h *Handlers) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.transitionBooking(w, r, h.ctrl.Reject)
}

func (h *Handlers) transitionBooking(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (domain.Booking, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.Wrap(domain.ErrInvalidInput, "invalid booking id"))
		return
	}

	b, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type paymentCallbackRequest struct {
	BookingID     uuid.UUID `json:"bookingId"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transactionId"`
}

// PaymentCallback force-approves a pending booking when the gateway reports
// success, under the same transition rule as a manual approve.
func (h *Handlers) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req paymentCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	if !strings.EqualFold(req.Status, "SUCCEEDED") {
		writeJSON(w, http.StatusOK, map[string]string{"result": "ignored"})
		return
	}

	b, err := h.ctrl.Approve(r.Context(), req.BookingID)
	if err != nil {
		writeError(w, err)
		return
	}

	if h.rabbitPub != nil {
		payload, _ := json.Marshal(map[string]interface{}{"bookingId": b.ID, "status": b.Status})
		msg := amqp.Publishing{
			MessageId:   uuid.New().String(),
			ContentType: "application/json",
			Body:        payload,
		}
		if err := h.rabbitPub.Publish(r.Context(), "booking.approved", msg); err != nil {
			h.logger.Error("failed to publish booking.approved: ", err)
		}
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("role") != "admin" {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin role required"})
		return
	}
	writeJSON(w, http.StatusOK, h.feed.List(r.Context()))
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.Wrap(domain.ErrInvalidInput, "invalid notification id"))
		return
	}
	if err := h.feed.MarkRead(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
