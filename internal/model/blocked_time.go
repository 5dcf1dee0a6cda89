package model

import (
	"time"

	"github.com/google/uuid"
)

// BlockedTime is a doctor-declared unavailability window. Blocks are
// created directly and never checked against existing appointments:
// declaring a block always succeeds and leaves booked appointments
// untouched. Appointments, on the other hand, may not be booked into
// a block.
type BlockedTime struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateBlockedTimeRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Reason    string    `json:"reason" binding:"max=500"`
}
