package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mdsaif2022/ntb-booking-server/internal/domain"
	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
)

// LayoutProvider supplies the seat layout for a resource the first time its
// map is created. Implementations may read a catalog; a nil provider means
// every resource gets domain.DefaultLayout.
type LayoutProvider interface {
	Layout(ctx context.Context, resourceID string) ([]string, error)
}

// Manager owns one seat map per resource. Maps are created lazily on first
// access and live for the process lifetime. All mutation for a resource is
// serialized behind that map's lock; different resources do not contend.
type Manager struct {
	mu      sync.Mutex
	maps    map[string]*seatMap
	holdTTL time.Duration
	layouts LayoutProvider
}

type seatMap struct {
	mu    sync.Mutex
	seats []*domain.Seat
}

func New(holdTTL time.Duration, layouts LayoutProvider) *Manager {
	return &Manager{
		maps:    make(map[string]*seatMap),
		holdTTL: holdTTL,
		layouts: layouts,
	}
}

// getMap returns the seat map for resourceID, creating it from the layout
// provider on first access. A failing or empty layout falls back to the
// default coach grid so reads never fail for a well-formed id.
func (m *Manager) getMap(ctx context.Context, resourceID string) *seatMap {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sm, ok := m.maps[resourceID]; ok {
		return sm
	}

	ids := domain.DefaultLayout()
	if m.layouts != nil {
		if custom, err := m.layouts.Layout(ctx, resourceID); err == nil && len(custom) > 0 {
			ids = custom
		}
	}

	sm := &seatMap{seats: make([]*domain.Seat, 0, len(ids))}
	for _, id := range ids {
		sm.seats = append(sm.seats, &domain.Seat{ID: id})
	}
	m.maps[resourceID] = sm
	return sm
}

// reconcile clears every hold whose deadline has passed. Callers must hold
// sm.mu. Hold expiry is pull-based: it only needs to be correct at the
// moment of the next access.
func (sm *seatMap) reconcile(now time.Time) {
	for _, s := range sm.seats {
		if s.HoldExpired(now) {
			s.ReservedBy = ""
			s.ReservedUntil = nil
		}
	}
}

// snapshot copies the seat list with IsAvailable derived as of now. Callers
// must hold sm.mu.
func (sm *seatMap) snapshot(now time.Time) []domain.Seat {
	out := make([]domain.Seat, 0, len(sm.seats))
	for _, s := range sm.seats {
		c := *s
		if s.ReservedUntil != nil {
			until := *s.ReservedUntil
			c.ReservedUntil = &until
		}
		c.IsAvailable = c.BookedBy == "" && !c.Held(now)
		out = append(out, c)
	}
	return out
}

// GetSeats returns the current seat map for resourceID, creating a fully
// available one if none exists yet. Expired holds are reconciled first.
func (m *Manager) GetSeats(ctx context.Context, resourceID string) ([]domain.Seat, error) {
	if resourceID == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "resource id is required")
	}

	sm := m.getMap(ctx, resourceID)
	now := time.Now()

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.reconcile(now)
	return sm.snapshot(now), nil
}

// SetHolds replaces requesterID's complete hold set on resourceID with
// seatIDs. Seats in the list are granted or renewed with a fresh TTL unless
// booked or live-held by someone else; seats the requester held but dropped
// from the list are released. Denials are silent: callers diff the returned
// map against their request. An empty (non-nil) list releases everything the
// requester holds.
func (m *Manager) SetHolds(ctx context.Context, resourceID, requesterID string, seatIDs []string) ([]domain.Seat, error) {
	if resourceID == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "resource id is required")
	}
	if requesterID == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "requester id is required")
	}
	if seatIDs == nil {
		return nil, errors.Wrap(domain.ErrInvalidInput, "seat ids must be a list")
	}

	requested := make(map[string]bool, len(seatIDs))
	for _, id := range seatIDs {
		requested[id] = true
	}

	sm := m.getMap(ctx, resourceID)
	now := time.Now()
	until := now.Add(m.holdTTL)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.reconcile(now)

	for _, s := range sm.seats {
		switch {
		case s.BookedBy != "":
			// Booked seats are never touched by hold traffic.
		case s.ReservedBy != "" && s.ReservedBy != requesterID:
			if requested[s.ID] {
				observability.HoldsDenied.Inc()
			}
		case requested[s.ID]:
			s.ReservedBy = requesterID
			expiry := until
			s.ReservedUntil = &expiry
			observability.HoldsGranted.Inc()
		case s.ReservedBy == requesterID:
			s.ReservedBy = ""
			s.ReservedUntil = nil
		}
	}

	return sm.snapshot(now), nil
}

// ConfirmSeats marks seatIDs as booked by holder, clearing any hold on them.
// A seat already booked by a different holder is left untouched. Called by
// the booking controller when a booking is approved.
func (m *Manager) ConfirmSeats(ctx context.Context, resourceID, holder string, seatIDs []string) error {
	if resourceID == "" || holder == "" {
		return errors.Wrap(domain.ErrInvalidInput, "resource id and holder are required")
	}

	sm := m.getMap(ctx, resourceID)
	now := time.Now()

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.reconcile(now)

	confirm := make(map[string]bool, len(seatIDs))
	for _, id := range seatIDs {
		confirm[id] = true
	}
	for _, s := range sm.seats {
		if !confirm[s.ID] || s.BookedBy != "" {
			continue
		}
		s.BookedBy = holder
		s.ReservedBy = ""
		s.ReservedUntil = nil
	}
	return nil
}

// ReleaseSeats clears any surviving hold on seatIDs. Booked seats are left
// untouched. Called by the booking controller when a booking is rejected or
// expires.
func (m *Manager) ReleaseSeats(ctx context.Context, resourceID string, seatIDs []string) error {
	if resourceID == "" {
		return errors.Wrap(domain.ErrInvalidInput, "resource id is required")
	}

	sm := m.getMap(ctx, resourceID)
	now := time.Now()

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.reconcile(now)

	release := make(map[string]bool, len(seatIDs))
	for _, id := range seatIDs {
		release[id] = true
	}
	for _, s := range sm.seats {
		if !release[s.ID] || s.BookedBy != "" {
			continue
		}
		s.ReservedBy = ""
		s.ReservedUntil = nil
	}
	return nil
}
