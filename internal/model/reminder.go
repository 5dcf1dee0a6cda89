package model

import (
	"time"

	"github.com/google/uuid"
)

// UpcomingAppointment is the stable read shape consumed by the
// scheduled reminder job: appointment start time joined with the
// patient's consent flag and contact info.
type UpcomingAppointment struct {
	AppointmentID  uuid.UUID `db:"appointment_id" json:"appointment_id"`
	StartTime      time.Time `db:"start_time" json:"start_time"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	PhoneNumber    *string   `db:"phone_number" json:"phone_number,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	AllowReminders bool      `db:"allow_whatsapp_reminders" json:"allow_whatsapp_reminders"`
}

// ReminderMessage is what gets published on the reminders channel.
type ReminderMessage struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Recipient     string    `json:"recipient"`
	Body          string    `json:"body"`
	StartTime     time.Time `json:"start_time"`
}
