package reports

import "time"

// Status of a user report.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusResolved Status = "RESOLVED"
	StatusRejected Status = "REJECTED"
)

// Valid reports whether s is part of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusResolved, StatusRejected:
		return true
	default:
		return false
	}
}

// Resolvable reports whether s is a legal review outcome.
func (s Status) Resolvable() bool {
	return s == StatusResolved || s == StatusRejected
}

// UserSummary identifies a party of the report.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
}

// Report represents a complaint filed by one user against another.
type Report struct {
	ID              string      `json:"id"`
	ReportingUserID string      `json:"reportingUserId"`
	ReportedUserID  string      `json:"reportedUserId"`
	TripID          string      `json:"tripId,omitempty"`
	Reason          string      `json:"reason"`
	Description     string      `json:"description,omitempty"`
	Status          Status      `json:"status"`
	ReportingUser   UserSummary `json:"reportingUser"`
	ReportedUser    UserSummary `json:"reportedUser"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Ban captures the sanction applied through a report. A nil duration is a
// permanent ban.
type Ban struct {
	UserID         string
	Reason         string
	DurationInDays *int
	BannedBy       string
}
