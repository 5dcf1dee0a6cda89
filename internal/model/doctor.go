package model

import (
	"github.com/google/uuid"
)

type Doctor struct {
	Base
	FullName string  `db:"full_name" json:"full_name"`
	Email    string  `db:"email" json:"email"`
	Phone    *string `db:"phone" json:"phone,omitempty"`
}

// DoctorRef is the denormalized join shape used on calendar events.
type DoctorRef struct {
	ID       uuid.UUID `db:"id" json:"id"`
	FullName string    `db:"full_name" json:"full_name"`
}
