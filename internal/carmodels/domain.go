package carmodels

import "time"

// CarModel is a catalog entry drivers pick from when registering a vehicle.
// Brand plus model is unique; year is optional.
type CarModel struct {
	ID        string    `json:"id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      *int      `json:"year,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
