package model

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventKindAppointment EventKind = "appointment"
	EventKindBlocked     EventKind = "blocked"
)

// CalendarEvent is the view-only union of an appointment and a blocked
// time used to render the week grid. It is never persisted. Patient and
// Doctor are normalized to a single optional relation at the data-access
// boundary, so consumers never branch on join shape.
type CalendarEvent struct {
	ID                 uuid.UUID   `json:"id"`
	Kind               EventKind   `json:"kind"`
	StartTime          time.Time   `json:"start_time"`
	EndTime            time.Time   `json:"end_time"`
	Status             *string     `json:"status,omitempty"`
	ServiceDescription *string     `json:"service_description,omitempty"`
	Notes              *string     `json:"notes,omitempty"`
	Reason             *string     `json:"reason,omitempty"`
	Patient            *PatientRef `json:"patient,omitempty"`
	Doctor             *DoctorRef  `json:"doctor,omitempty"`
}
