package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository handles appointment persistence. Reads used
	// by the availability validator express the shared half-open
	// overlap predicate as a query filter.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		// CreateBatch inserts a recurring series as one atomic unit.
		// The whole batch commits or none of it does. The insert runs
		// under a per-doctor advisory lock so the caller's
		// validate-then-insert sequence cannot interleave with a
		// concurrent booking for the same doctor.
		CreateBatch(ctx context.Context, appointments []*model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		// FindOverlapping returns non-cancelled appointments for the
		// doctor whose stored interval overlaps [start, end).
		FindOverlapping(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
		// ListEventsStartingBetween returns appointments whose start
		// falls in [from, to), joined with patient and doctor display
		// names, as calendar events.
		ListEventsStartingBetween(ctx context.Context, from, to time.Time) ([]*model.CalendarEvent, error)
		// ListUpcoming is the stable read shape consumed by the
		// reminder job: start time joined with patient consent flag
		// and contact info, cancelled appointments excluded.
		ListUpcoming(ctx context.Context, from, to time.Time) ([]*model.UpcomingAppointment, error)
	}

	// BlockedTimeRepository handles doctor unavailability windows.
	BlockedTimeRepository interface {
		Create(ctx context.Context, blocked *model.BlockedTime) error
		Get(ctx context.Context, id uuid.UUID) (*model.BlockedTime, error)
		// FindOverlapping returns blocks for the doctor overlapping
		// [start, end). Blocks have no status; none are filtered.
		FindOverlapping(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.BlockedTime, error)
		ListEventsStartingBetween(ctx context.Context, from, to time.Time) ([]*model.CalendarEvent, error)
	}

	// DoctorRepository exposes the doctor read surface.
	DoctorRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
	}
)
