// Package availability decides whether a candidate interval may be
// booked on a doctor's calendar. It is read-only: rejections are typed
// results and nothing is ever written here.
package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/repository"
	apperrors "github.com/clinicore/agenda-api/pkg/errors"
)

type Service struct {
	appointments repository.AppointmentRepository
	blocks       repository.BlockedTimeRepository
}

func NewService(appointments repository.AppointmentRepository, blocks repository.BlockedTimeRepository) *Service {
	return &Service{
		appointments: appointments,
		blocks:       blocks,
	}
}

// Check reports whether [start, end) may be booked for the doctor.
// Existing non-cancelled appointments are checked first, so a slot that
// is both booked and blocked surfaces DoubleBooked. The caller must
// ensure start < end; the booking orchestrator validates that before
// calling here.
//
// Both queries express the shared half-open overlap predicate
// (schedule.Overlaps) as a store filter: stored_start < end AND
// stored_end > start.
func (s *Service) Check(ctx context.Context, doctorID uuid.UUID, start, end time.Time) error {
	overlapping, err := s.appointments.FindOverlapping(ctx, doctorID, start, end)
	if err != nil {
		return apperrors.Store("check overlapping appointments", err)
	}
	if len(overlapping) > 0 {
		return apperrors.DoubleBooked()
	}

	blocks, err := s.blocks.FindOverlapping(ctx, doctorID, start, end)
	if err != nil {
		return apperrors.Store("check overlapping blocked times", err)
	}
	if len(blocks) > 0 {
		return apperrors.TimeBlocked()
	}

	return nil
}
