package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/model"
)

// eventRow is the flat scan target for the joined calendar queries.
// Depending on the query shape a relation may be absent (left join
// miss), so everything joined is nullable here and normalized into a
// single optional relation before leaving the package. Downstream code
// never branches on join shape.
type eventRow struct {
	ID                 uuid.UUID      `db:"id"`
	StartTime          time.Time      `db:"start_time"`
	EndTime            time.Time      `db:"end_time"`
	Status             sql.NullString `db:"status"`
	ServiceDescription sql.NullString `db:"service_description"`
	Notes              sql.NullString `db:"notes"`
	Reason             sql.NullString `db:"reason"`
	PatientID          uuid.NullUUID  `db:"patient_id"`
	PatientFirstName   sql.NullString `db:"patient_first_name"`
	PatientLastName    sql.NullString `db:"patient_last_name"`
	DoctorID           uuid.NullUUID  `db:"doctor_id"`
	DoctorFullName     sql.NullString `db:"doctor_full_name"`
}

func (r eventRow) toCalendarEvent(kind model.EventKind) *model.CalendarEvent {
	event := &model.CalendarEvent{
		ID:        r.ID,
		Kind:      kind,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}

	if r.Status.Valid {
		event.Status = &r.Status.String
	}
	if r.ServiceDescription.Valid {
		event.ServiceDescription = &r.ServiceDescription.String
	}
	if r.Notes.Valid {
		event.Notes = &r.Notes.String
	}
	if r.Reason.Valid {
		event.Reason = &r.Reason.String
	}
	if r.PatientID.Valid {
		event.Patient = &model.PatientRef{
			ID:        r.PatientID.UUID,
			FirstName: r.PatientFirstName.String,
			LastName:  r.PatientLastName.String,
		}
	}
	if r.DoctorID.Valid {
		event.Doctor = &model.DoctorRef{
			ID:       r.DoctorID.UUID,
			FullName: r.DoctorFullName.String,
		}
	}
	return event
}
