package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingApproved BookingStatus = "approved"
	BookingRejected BookingStatus = "rejected"
	BookingExpired  BookingStatus = "expired"
)

// Terminal reports whether no further transition may leave this status.
func (s BookingStatus) Terminal() bool {
	return s == BookingApproved || s == BookingRejected || s == BookingExpired
}

// Identity is the requester's contact payload. It is opaque to the booking
// subsystem beyond presence validation.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (i Identity) Empty() bool {
	return i.Name == "" && i.Email == "" && i.Phone == ""
}

// Booking is one seat claim moving through the approval lifecycle. Status
// transitions are one-way out of pending; terminal states are final.
type Booking struct {
	ID         uuid.UUID     `json:"id"`
	Identity   Identity      `json:"identity"`
	ResourceID string        `json:"resourceId"`
	SeatIDs    []string      `json:"seatIds"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	ExpiresAt  time.Time     `json:"expiresAt"`
}

func NewBooking(identity Identity, resourceID string, seatIDs []string, approvalWindow time.Duration) Booking {
	now := time.Now()
	return Booking{
		ID:         uuid.New(),
		Identity:   identity,
		ResourceID: resourceID,
		SeatIDs:    seatIDs,
		Status:     BookingPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(approvalWindow),
	}
}
