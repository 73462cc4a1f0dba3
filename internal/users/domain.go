package users

import "time"

// User is a rider or driver account on the platform.
type User struct {
	ID              string     `json:"id"`
	PhoneNumber     string     `json:"phone_number"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	IsDriver        bool       `json:"is_driver"`
	IsBanned        bool       `json:"is_banned"`
	TripsCount      int        `json:"tripsCount"`
	Rating          *float64   `json:"rating,omitempty"`
	RegisteredAt    time.Time  `json:"registeredAt"`
	LastActiveAt    *time.Time `json:"lastActiveAt,omitempty"`
	CurrentBanEnds  *time.Time `json:"currentBanEnds,omitempty"`
	CurrentBanCause string     `json:"currentBanCause,omitempty"`
}

// BanRecord is one entry of a user's ban history.
type BanRecord struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Reason         string     `json:"reason"`
	DurationInDays *int       `json:"durationInDays,omitempty"`
	BannedBy       string     `json:"bannedBy"`
	BannedAt       time.Time  `json:"bannedAt"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	LiftedAt       *time.Time `json:"liftedAt,omitempty"`
	LiftedBy       string     `json:"liftedBy,omitempty"`
}
