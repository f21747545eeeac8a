package doctor

import "time"

// Slot is a recurring availability window on a doctor's calendar.
type Slot struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Location is a WGS84 point, longitude first.
type Location struct {
	Longitude float64 `json:"longitude" db:"longitude"`
	Latitude  float64 `json:"latitude" db:"latitude"`
}

// Doctor is the professional profile attached to a user with the Doctor role.
// At most one profile exists per user.
type Doctor struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Specialization  string    `db:"specialization"`
	Bio             string    `db:"bio"`
	ConsultationFee float64   `db:"consultation_fee"`
	AvailableSlots  []Slot    `db:"available_slots"`
	Longitude       float64   `db:"longitude"`
	Latitude        float64   `db:"latitude"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
