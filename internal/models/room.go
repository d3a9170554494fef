package models

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID           uuid.UUID `json:"id" db:"id"`
	RoomNumber   string    `json:"room_number" db:"room_number"`
	Rent         float64   `json:"rent" db:"rent"`
	TotalBeds    int       `json:"total_beds" db:"total_beds"`
	OccupiedBeds int       `json:"occupied_beds" db:"occupied_beds"`
	Note         *string   `json:"note" db:"note"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AvailableBeds returns the number of unoccupied beds in the room.
func (r *Room) AvailableBeds() int {
	return r.TotalBeds - r.OccupiedBeds
}
