package call

import "time"

// Status is the lifecycle state of a call session.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
	StatusCancelled Status = "cancelled"
)

// Call is a scheduled or live consultation session between a doctor and a
// patient. MediaURL is an opaque handle for the media channel.
type Call struct {
	ID            string     `db:"id"`
	AppointmentID *string    `db:"appointment_id"`
	DoctorID      string     `db:"doctor_id"`
	PatientID     string     `db:"patient_id"`
	Video         bool       `db:"video"`
	MediaURL      string     `db:"media_url"`
	Status        Status     `db:"status"`
	StartedAt     *time.Time `db:"started_at"`
	EndedAt       *time.Time `db:"ended_at"`
	Notes         string     `db:"notes"`
	RecordingURL  string     `db:"recording_url"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// IsParticipant reports whether the given user is a party to this call.
func (c *Call) IsParticipant(userID string) bool {
	return c.DoctorID == userID || c.PatientID == userID
}

// Duration returns the elapsed call time, or zero while timestamps are
// missing.
func (c *Call) Duration() time.Duration {
	if c.StartedAt == nil || c.EndedAt == nil {
		return 0
	}
	return c.EndedAt.Sub(*c.StartedAt)
}
