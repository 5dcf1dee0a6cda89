package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment is one concrete occurrence on a doctor's calendar.
// Recurring series create N independent rows sharing RecurrenceRule,
// not a parent-child link. Rows are never deleted in this system;
// cancellation is a status change.
type Appointment struct {
	Base
	PatientID          uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID           uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	StartTime          time.Time         `db:"start_time" json:"start_time"`
	EndTime            time.Time         `db:"end_time" json:"end_time"`
	Status             AppointmentStatus `db:"status" json:"status"`
	ServiceDescription *string           `db:"service_description" json:"service_description,omitempty"`
	Notes              *string           `db:"notes" json:"notes,omitempty"`
	IsRecurring        bool              `db:"is_recurring" json:"is_recurring"`
	RecurrenceRule     *string           `db:"recurrence_rule" json:"recurrence_rule,omitempty"`
	CancelReason       *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID          uuid.UUID `json:"patient_id" binding:"required"`
	StartTime          time.Time `json:"start_time" binding:"required"`
	EndTime            time.Time `json:"end_time" binding:"required"`
	ServiceDescription string    `json:"service_description" binding:"max=500"`
	Notes              string    `json:"notes" binding:"max=1000"`
	IsRecurring        bool      `json:"is_recurring"`
	// RecurrenceRule is not constrained here. Unrecognized rules fall
	// back to a single booking instead of failing the request.
	RecurrenceRule string `json:"recurrence_rule"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type AppointmentFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
