package appointment

import "time"

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is one of the known appointment states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an appointment may move from one status to
// another. Completed and cancelled are terminal.
func CanTransition(from, to Status) bool {
	return from == StatusScheduled && (to == StatusCompleted || to == StatusCancelled)
}

// Appointment is a booking between a patient and a doctor.
type Appointment struct {
	ID          string    `db:"id"`
	PatientID   string    `db:"patient_id"`
	DoctorID    string    `db:"doctor_id"`
	ScheduledAt time.Time `db:"scheduled_at"`
	Condition   string    `db:"condition"`
	Status      Status    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// IsParticipant reports whether the given user is the patient or the doctor
// on this appointment.
func (a *Appointment) IsParticipant(userID string) bool {
	return a.PatientID == userID || a.DoctorID == userID
}
