package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mdsaif2022/ntb-booking-server/internal/domain"
	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
)

// Notifier receives exactly one call per booking creation. The admin feed
// implements it; rabbit fan-out wraps it.
type Notifier interface {
	BookingCreated(ctx context.Context, b domain.Booking)
}

// SeatReleaser is the explicit boundary into the seat inventory. Approve
// confirms the booking's seats as booked; Reject and the sweep release any
// surviving holds on them. The controller never reaches into seat state
// directly.
type SeatReleaser interface {
	ConfirmSeats(ctx context.Context, resourceID, holder string, seatIDs []string) error
	ReleaseSeats(ctx context.Context, resourceID string, seatIDs []string) error
}

// TransitionHook observes terminal transitions (audit log, archive). Hook
// errors are logged and never escalated.
type TransitionHook interface {
	BookingTransition(ctx context.Context, b domain.Booking, from domain.BookingStatus) error
}

// Controller owns the canonical booking table and its state machine. Every
// transition, manual or sweep-triggered, runs under the same lock and
// re-checks that the booking is still pending before writing.
type Controller struct {
	mu             sync.RWMutex
	bookings       map[uuid.UUID]*domain.Booking
	approvalWindow time.Duration
	notifier       Notifier
	seats          SeatReleaser
	hooks          []TransitionHook
	logger         observability.Logger
}

func NewController(approvalWindow time.Duration, notifier Notifier, seats SeatReleaser, logger observability.Logger, hooks ...TransitionHook) *Controller {
	return &Controller{
		bookings:       make(map[uuid.UUID]*domain.Booking),
		approvalWindow: approvalWindow,
		notifier:       notifier,
		seats:          seats,
		hooks:          hooks,
		logger:         logger,
	}
}

// Create stores a new pending booking with an approval deadline and emits
// one admin notification referencing it.
func (c *Controller) Create(ctx context.Context, identity domain.Identity, resourceID string, seatIDs []string) (domain.Booking, error) {
	if identity.Empty() {
		return domain.Booking{}, errors.Wrap(domain.ErrInvalidInput, "identity is required")
	}
	if resourceID == "" {
		return domain.Booking{}, errors.Wrap(domain.ErrInvalidInput, "resource id is required")
	}
	if len(seatIDs) == 0 {
		return domain.Booking{}, errors.Wrap(domain.ErrInvalidInput, "at least one seat is required")
	}

	b := domain.NewBooking(identity, resourceID, seatIDs, c.approvalWindow)

	c.mu.Lock()
	c.bookings[b.ID] = &b
	c.mu.Unlock()

	observability.BookingsCreated.Inc()
	if c.notifier != nil {
		c.notifier.BookingCreated(ctx, b)
	}
	return b, nil
}

// GetStatus is a pure read; it does not trigger expiry. Callers should
// expect the status to reflect a sweep that ran moments earlier.
func (c *Controller) GetStatus(ctx context.Context, id uuid.UUID) (domain.BookingStatus, time.Time, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.bookings[id]
	if !ok {
		return "", time.Time{}, errors.Wrapf(domain.ErrNotFound, "booking %s", id)
	}
	return b.Status, b.ExpiresAt, nil
}

// Get returns the full booking record.
func (c *Controller) Get(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.bookings[id]
	if !ok {
		return domain.Booking{}, errors.Wrapf(domain.ErrNotFound, "booking %s", id)
	}
	return *b, nil
}

func (c *Controller) Approve(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return c.transition(ctx, id, domain.BookingApproved)
}

func (c *Controller) Reject(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return c.transition(ctx, id, domain.BookingRejected)
}

// transition moves a pending booking into the terminal state to. It fails
// with ErrNotFound for unknown ids and ErrInvalidState once the booking has
// left pending, so a racing approve/reject/sweep leaves exactly one winner.
func (c *Controller) transition(ctx context.Context, id uuid.UUID, to domain.BookingStatus) (domain.Booking, error) {
	c.mu.Lock()
	b, ok := c.bookings[id]
	if !ok {
		c.mu.Unlock()
		return domain.Booking{}, errors.Wrapf(domain.ErrNotFound, "booking %s", id)
	}
	if b.Status != domain.BookingPending {
		status := b.Status
		c.mu.Unlock()
		return domain.Booking{}, errors.Wrapf(domain.ErrInvalidState, "booking %s is %s", id, status)
	}
	b.Status = to
	done := *b
	c.mu.Unlock()

	observability.BookingTransitions.WithLabelValues(string(to)).Inc()
	c.applySeatOutcome(ctx, done)
	c.runHooks(ctx, done)
	return done, nil
}

// applySeatOutcome carries the booking outcome across the inventory
// boundary: approval books the seats, rejection and expiry free them.
func (c *Controller) applySeatOutcome(ctx context.Context, b domain.Booking) {
	if c.seats == nil {
		return
	}
	var err error
	if b.Status == domain.BookingApproved {
		err = c.seats.ConfirmSeats(ctx, b.ResourceID, b.ID.String(), b.SeatIDs)
	} else {
		err = c.seats.ReleaseSeats(ctx, b.ResourceID, b.SeatIDs)
	}
	if err != nil && c.logger != nil {
		c.logger.WithField("booking_id", b.ID.String()).Error("seat outcome failed: ", err)
	}
}

func (c *Controller) runHooks(ctx context.Context, b domain.Booking) {
	for _, h := range c.hooks {
		if err := h.BookingTransition(ctx, b, domain.BookingPending); err != nil && c.logger != nil {
			c.logger.WithField("booking_id", b.ID.String()).Error("transition hook failed: ", err)
		}
	}
}

// ExpireDue moves every pending booking whose deadline passed before now to
// expired and returns how many it moved. Bookings that leave pending while
// the sweep runs are skipped silently.
func (c *Controller) ExpireDue(ctx context.Context, now time.Time) int {
	c.mu.RLock()
	var due []uuid.UUID
	for id, b := range c.bookings {
		if b.Status == domain.BookingPending && b.ExpiresAt.Before(now) {
			due = append(due, id)
		}
	}
	c.mu.RUnlock()

	expired := 0
	for _, id := range due {
		if _, err := c.transition(ctx, id, domain.BookingExpired); err != nil {
			// Lost the race against a manual approve/reject; expected.
			continue
		}
		expired++
	}
	return expired
}

// NewBookingNotification builds the admin feed entry for a created booking.
func NewBookingNotification(b domain.Booking) domain.Notification {
	return domain.Notification{
		ID:       uuid.New(),
		Title:    "New booking request",
		Priority: domain.PriorityHigh,
		Message: fmt.Sprintf("%s requested %d seat(s) (%s) on %s",
			b.Identity.Name, len(b.SeatIDs), strings.Join(b.SeatIDs, ", "), b.ResourceID),
		CreatedAt: time.Now(),
		ActionURL: "/admin/bookings/" + b.ID.String(),
		BookingID: b.ID,
	}
}
