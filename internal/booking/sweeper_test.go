package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/mdsaif2022/ntb-booking-server/internal/booking"
	"github.com/mdsaif2022/ntb-booking-server/internal/domain"
	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_ExpiresOverdueBookingWithoutManualAction(t *testing.T) {
	ctrl := booking.NewController(5*time.Millisecond, nil, nil, observability.NewLogger())
	sweeper := booking.NewSweeper(ctrl, 10*time.Millisecond, observability.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	b, err := ctrl.Create(ctx, testIdentity, "T1", []string{"A1"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		status, _, err := ctrl.GetStatus(ctx, b.ID)
		return err == nil && status == domain.BookingExpired
	}, time.Second, 5*time.Millisecond)
}

func TestSweeper_StopsOnContextCancel(t *testing.T) {
	ctrl := booking.NewController(time.Hour, nil, nil, observability.NewLogger())
	sweeper := booking.NewSweeper(ctrl, time.Millisecond, observability.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
