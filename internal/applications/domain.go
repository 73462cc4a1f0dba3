package applications

import "time"

// Status of a driver application.
type Status string

const (
	StatusNotApplied Status = "NOT_APPLIED"
	StatusPending    Status = "PENDING"
	StatusVerified   Status = "VERIFIED"
	StatusRejected   Status = "REJECTED"
)

// Valid reports whether s is part of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusNotApplied, StatusPending, StatusVerified, StatusRejected:
		return true
	default:
		return false
	}
}

// Decidable reports whether s is a legal decision outcome.
func (s Status) Decidable() bool {
	return s == StatusVerified || s == StatusRejected
}

// Applicant is the user summary joined onto a listing row.
type Applicant struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Application represents a driver application under review.
type Application struct {
	ID              int64      `json:"id"`
	UserID          string     `json:"userId"`
	Status          Status     `json:"status"`
	PassportLink    string     `json:"passport_link"`
	CarPassportLink string     `json:"car_passport_link"`
	DecidedBy       string     `json:"decidedBy,omitempty"`
	User            *Applicant `json:"user,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
