package domain

import "time"

// Seat is one bookable seat inside a resource's seat map. BookedBy is set
// only by an approved booking and is never cleared by hold traffic.
// ReservedBy/ReservedUntil describe a temporary soft-lock; once ReservedUntil
// has passed the hold is void regardless of ReservedBy.
type Seat struct {
	ID            string     `json:"id"`
	IsAvailable   bool       `json:"isAvailable"`
	BookedBy      string     `json:"bookedBy,omitempty"`
	ReservedBy    string     `json:"reservedBy,omitempty"`
	ReservedUntil *time.Time `json:"reservedUntil,omitempty"`
}

// HoldExpired reports whether the seat carries a hold whose deadline has
// passed as of now.
func (s *Seat) HoldExpired(now time.Time) bool {
	return s.ReservedBy != "" && s.ReservedUntil != nil && s.ReservedUntil.Before(now)
}

// Held reports whether the seat carries a live hold as of now.
func (s *Seat) Held(now time.Time) bool {
	return s.ReservedBy != "" && s.ReservedUntil != nil && !s.ReservedUntil.Before(now)
}

// DefaultLayout is the fixed coach layout used when no catalog entry exists
// for a resource: rows A-J, four seats per row.
func DefaultLayout() []string {
	ids := make([]string, 0, 40)
	for row := 'A'; row <= 'J'; row++ {
		for n := 1; n <= 4; n++ {
			ids = append(ids, string(row)+string(rune('0'+n)))
		}
	}
	return ids
}
