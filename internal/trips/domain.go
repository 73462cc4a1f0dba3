package trips

import "time"

// Trip statuses used by the platform. The admin surface only moves trips
// to CANCELLED; the rest are driven by the rider apps.
const (
	StatusScheduled = "SCHEDULED"
	StatusOngoing   = "ONGOING"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
)

// Trip represents a published ride.
type Trip struct {
	ID             string    `json:"id"`
	DriverID       string    `json:"driver_id"`
	CarID          string    `json:"car_id"`
	FromVillageID  string    `json:"from_village_id"`
	ToVillageID    string    `json:"to_village_id"`
	DepartureTS    time.Time `json:"departure_ts"`
	SeatsAvailable int       `json:"seats_available"`
	PricePerPerson int       `json:"price_per_person"`
	MaxTwoBack     bool      `json:"max_two_back"`
	Status         string    `json:"status"`
	Comment        string    `json:"comment,omitempty"`
	TotalPricePaid int       `json:"totalPricePaid,omitempty"`
}

// Patch carries the fields an admin may edit. Nil fields stay untouched.
type Patch struct {
	DepartureTS    *time.Time `json:"departure_ts"`
	SeatsAvailable *int       `json:"seats_available"`
	PricePerPerson *int       `json:"price_per_person"`
	MaxTwoBack     *bool      `json:"max_two_back"`
	Comment        *string    `json:"comment"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.DepartureTS == nil && p.SeatsAvailable == nil &&
		p.PricePerPerson == nil && p.MaxTwoBack == nil && p.Comment == nil
}

// Filter narrows trip listings.
type Filter struct {
	Status        string
	FromVillageID string
	ToVillageID   string
	Date          *time.Time
}
