package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is one entry in the append-only admin feed. Entries are never
// edited or deduplicated; Read is the only mutable bit and is owned by the
// feed.
type Notification struct {
	ID        uuid.UUID            `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Priority  NotificationPriority `json:"priority"`
	CreatedAt time.Time            `json:"createdAt"`
	Read      bool                 `json:"read"`
	ActionURL string               `json:"actionUrl,omitempty"`
	BookingID uuid.UUID            `json:"bookingId"`
}
