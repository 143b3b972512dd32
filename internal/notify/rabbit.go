package notify

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mdsaif2022/ntb-booking-server/internal/adapters/rabbit"
	"github.com/mdsaif2022/ntb-booking-server/internal/domain"
	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitSink mirrors booking creation events onto the topic exchange for
// external admin consumers. Publish failures are logged, not escalated; the
// in-memory feed remains the source of truth.
type RabbitSink struct {
	pub    *rabbit.Publisher
	logger observability.Logger
}

func NewRabbitSink(pub *rabbit.Publisher, logger observability.Logger) *RabbitSink {
	return &RabbitSink{pub: pub, logger: logger}
}

func (r *RabbitSink) BookingCreated(ctx context.Context, b domain.Booking) {
	payload, _ := json.Marshal(map[string]interface{}{
		"bookingId":  b.ID,
		"resourceId": b.ResourceID,
		"seatIds":    b.SeatIDs,
		"expiresAt":  b.ExpiresAt,
	})
	msg := amqp.Publishing{
		MessageId:   uuid.New().String(),
		ContentType: "application/json",
		Body:        payload,
	}
	if err := r.pub.Publish(ctx, "booking.created", msg); err != nil {
		r.logger.Error("failed to publish booking.created: ", err)
	}
}
