package notifications

import "time"

// Type categorizes a global notification.
type Type string

const (
	TypeGeneral Type = "GENERAL"
	TypeTrips   Type = "TRIPS"
	TypeBooking Type = "BOOKING"
	TypePayment Type = "PAYMENT"
	TypeChat    Type = "CHAT"
)

// Valid reports whether t is part of the closed type set.
func (t Type) Valid() bool {
	switch t {
	case TypeGeneral, TypeTrips, TypeBooking, TypePayment, TypeChat:
		return true
	default:
		return false
	}
}

// Delivery states of a global notification.
const (
	StatusQueued     = "QUEUED"
	StatusDispatched = "DISPATCHED"
)

// Notification represents a platform-wide announcement. Fan-out to user
// devices happens asynchronously; Status tracks it.
type Notification struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Type       Type      `json:"type"`
	Status     string    `json:"status"`
	Recipients int       `json:"recipients"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}
