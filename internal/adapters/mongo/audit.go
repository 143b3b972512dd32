package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mdsaif2022/ntb-booking-server/internal/domain"
	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditLogger records booking transitions. It implements the controller's
// TransitionHook; failures are absorbed by the controller.
type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID        uuid.UUID `bson:"_id"`
	Action    string    `bson:"action"`
	BookingID uuid.UUID `bson:"booking_id"`
	Timestamp time.Time `bson:"timestamp"`
	Data      bson.M    `bson:"data"`
}

func (a *AuditLogger) BookingTransition(ctx context.Context, b domain.Booking, from domain.BookingStatus) error {
	log := AuditLog{
		ID:        uuid.New(),
		Action:    "booking." + string(b.Status),
		BookingID: b.ID,
		Timestamp: time.Now(),
		Data: bson.M{
			"resource_id": b.ResourceID,
			"seat_ids":    b.SeatIDs,
			"from":        string(from),
			"expires_at":  b.ExpiresAt.Format(time.RFC3339),
		},
	}
	_, err := a.coll.InsertOne(ctx, log)
	if err != nil {
		a.logger.Error("failed to insert audit log: ", err)
		return err
	}
	return nil
}
