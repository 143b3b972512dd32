package notify

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mdsaif2022/ntb-booking-server/internal/booking"
	"github.com/mdsaif2022/ntb-booking-server/internal/domain"
)

// Feed is the append-only, newest-first admin notification store. Entries
// are never edited or deduplicated; the read flag is the only mutation and
// the feed owns it.
type Feed struct {
	mu    sync.RWMutex
	items []domain.Notification
}

func NewFeed() *Feed {
	return &Feed{}
}

// BookingCreated appends one entry for the booking at the head of the feed.
func (f *Feed) BookingCreated(ctx context.Context, b domain.Booking) {
	n := booking.NewBookingNotification(b)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]domain.Notification{n}, f.items...)
}

// List returns a newest-first copy of the feed.
func (f *Feed) List(ctx context.Context) []domain.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]domain.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// MarkRead flips the read flag on one entry.
func (f *Feed) MarkRead(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			return nil
		}
	}
	return errors.Wrapf(domain.ErrNotFound, "notification %s", id)
}
