package booking

import (
	"context"
	"time"

	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
)

// Sweeper periodically pushes overdue pending bookings to expired. Booking
// expiry is push-based, unlike hold expiry, because it has externally
// visible consequences that must fire close to the deadline.
type Sweeper struct {
	ctrl     *Controller
	interval time.Duration
	logger   observability.Logger
}

func NewSweeper(ctrl *Controller, interval time.Duration, logger observability.Logger) *Sweeper {
	return &Sweeper{ctrl: ctrl, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled. A sweep itself never fails visibly;
// individual bookings that lost a race with a manual transition are skipped.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("booking expiry sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("booking expiry sweeper stopped")
			return
		case now := <-ticker.C:
			start := time.Now()
			expired := s.ctrl.ExpireDue(ctx, now)
			observability.SweepDuration.Observe(time.Since(start).Seconds())
			if expired > 0 {
				s.logger.WithField("expired", expired).Info("expired overdue bookings")
			}
		}
	}
}
