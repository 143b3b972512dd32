package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
	"github.com/mdsaif2022/ntb-booking-server/internal/rateLimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(RateLimitMiddleware(rl))

	r.Get("/v1/resources/{id}/seats", h.GetSeats)
	r.Post("/v1/resources/{id}/seats", h.SetHolds)
	r.Post("/v1/bookings", h.CreateBooking)
	r.Get("/v1/bookings/{id}/status", h.GetBookingStatus)
	r.Post("/v1/bookings/{id}/approve", h.ApproveBooking)
	r.Post("/v1/bookings/{id}/reject", h.RejectBooking)
	r.Post("/v1/payments/callback", h.PaymentCallback)
	r.Get("/v1/notifications", h.ListNotifications)
	r.Post("/v1/notifications/{id}/read", h.MarkNotificationRead)
	r.Get("/v1/healthz", h.Healthz)
	r.Get("/v1/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
