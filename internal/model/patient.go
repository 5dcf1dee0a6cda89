package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Email          *string    `db:"email" json:"email,omitempty"`
	PhoneNumber    *string    `db:"phone_number" json:"phone_number,omitempty"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	AllowReminders bool       `db:"allow_whatsapp_reminders" json:"allow_whatsapp_reminders"`
}

// PatientRef is the denormalized join shape used on calendar events.
type PatientRef struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
}
