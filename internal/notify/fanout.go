package notify

import (
	"context"

	"github.com/mdsaif2022/ntb-booking-server/internal/booking"
	"github.com/mdsaif2022/ntb-booking-server/internal/domain"
)

// Fanout delivers each creation event to every configured sink.
type Fanout struct {
	sinks []booking.Notifier
}

func NewFanout(sinks ...booking.Notifier) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) BookingCreated(ctx context.Context, b domain.Booking) {
	for _, s := range f.sinks {
		s.BookingCreated(ctx, b)
	}
}
