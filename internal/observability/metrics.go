package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ntb_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	HoldsGranted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ntb_holds_granted_total",
			Help: "Seats granted or renewed as holds",
		},
	)

	HoldsDenied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ntb_holds_denied_total",
			Help: "Seat hold requests denied because another requester holds the seat",
		},
	)

	BookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ntb_bookings_created_total",
			Help: "Bookings created",
		},
	)

	BookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ntb_booking_transitions_total",
			Help: "Booking transitions out of pending",
		},
		[]string{"status"},
	)

	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ntb_sweep_seconds",
			Help:    "Duration of booking expiry sweeps",
			Buckets: prometheus.DefBuckets,
		},
	)

	RateLimitExceeded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ntb_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(RequestsTotal, HoldsGranted, HoldsDenied,
		BookingsCreated, BookingTransitions, SweepDuration, RateLimitExceeded)
}
