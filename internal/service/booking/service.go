// Package booking orchestrates appointment and blocked-time creation:
// field validation, availability checks, recurrence expansion and the
// final persistence step.
package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/model"
	"github.com/clinicore/agenda-api/internal/repository"
	"github.com/clinicore/agenda-api/internal/schedule"
	"github.com/clinicore/agenda-api/internal/service/availability"
	apperrors "github.com/clinicore/agenda-api/pkg/errors"
	"github.com/clinicore/agenda-api/pkg/logger"
	"github.com/clinicore/agenda-api/pkg/metrics"
)

type Service struct {
	appointments repository.AppointmentRepository
	blocks       repository.BlockedTimeRepository
	availability *availability.Service
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

func NewService(
	appointments repository.AppointmentRepository,
	blocks repository.BlockedTimeRepository,
	availability *availability.Service,
	logger *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		appointments: appointments,
		blocks:       blocks,
		availability: availability,
		logger:       logger,
		metrics:      m,
	}
}

// CreateAppointment books a single appointment or a recurring series
// for the doctor. Every expanded occurrence is validated against
// existing appointments and blocked times before anything is written;
// one conflicting occurrence rejects the whole series. The series is
// persisted as one atomic batch under a per-doctor lock.
func (s *Service) CreateAppointment(ctx context.Context, doctorID uuid.UUID, req *model.CreateAppointmentRequest) ([]*model.Appointment, error) {
	if err := validateAppointmentFields(doctorID, req); err != nil {
		return nil, s.reject(err)
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, s.reject(apperrors.InvalidInterval("appointment start must be before end"))
	}

	rule := schedule.RuleNone
	if req.IsRecurring {
		rule = schedule.ParseRule(req.RecurrenceRule)
	}

	occurrences := schedule.Expand(req.StartTime, req.EndTime, rule)
	if rule != schedule.RuleNone {
		s.metrics.RecurringExpanded.Observe(float64(len(occurrences)))
	}

	// Every occurrence gets the full availability check, not just the
	// seed. The first rejection wins but the remaining occurrences are
	// still checked so store-level problems surface before commit.
	var rejection error
	for _, occ := range occurrences {
		err := s.availability.Check(ctx, doctorID, occ.Start, occ.End)
		if err == nil {
			continue
		}
		if !apperrors.IsRejection(err) {
			return nil, err
		}
		if rejection == nil {
			rejection = err
		}
	}
	if rejection != nil {
		return nil, s.reject(rejection)
	}

	appointments := make([]*model.Appointment, 0, len(occurrences))
	for _, occ := range occurrences {
		appointments = append(appointments, &model.Appointment{
			PatientID:          req.PatientID,
			DoctorID:           doctorID,
			StartTime:          occ.Start,
			EndTime:            occ.End,
			Status:             model.AppointmentStatusScheduled,
			ServiceDescription: optional(req.ServiceDescription),
			Notes:              optional(req.Notes),
			IsRecurring:        rule != schedule.RuleNone,
			RecurrenceRule:     recurrenceTag(rule),
		})
	}

	// Single bookings insert directly; series insert as one atomic
	// batch under the per-doctor lock. Either path translates a lost
	// store-level race into the same conflict rejection.
	var err error
	if len(appointments) == 1 {
		err = s.appointments.Create(ctx, appointments[0])
	} else {
		err = s.appointments.CreateBatch(ctx, appointments)
	}
	if err != nil {
		if apperrors.IsRejection(err) {
			return nil, s.reject(err)
		}
		return nil, err
	}

	s.metrics.BookingsCreated.Add(float64(len(appointments)))
	s.logger.Info("appointments created", map[string]interface{}{
		"doctor_id":   doctorID,
		"patient_id":  req.PatientID,
		"occurrences": len(appointments),
		"rule":        string(rule),
	})
	return appointments, nil
}

// CreateBlockedTime declares a doctor unavailability window. Blocks are
// not checked against existing appointments: declaring a block always
// succeeds and already-booked appointments in the window are left
// untouched. Appointments check against blocks, blocks do not check
// against appointments.
func (s *Service) CreateBlockedTime(ctx context.Context, doctorID uuid.UUID, req *model.CreateBlockedTimeRequest) (*model.BlockedTime, error) {
	var missing []string
	if doctorID == uuid.Nil {
		missing = append(missing, "doctor_id")
	}
	if req.StartTime.IsZero() {
		missing = append(missing, "start_time")
	}
	if req.EndTime.IsZero() {
		missing = append(missing, "end_time")
	}
	if len(missing) > 0 {
		return nil, apperrors.MissingFields(missing...)
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, apperrors.InvalidInterval("blocked time start must be before end")
	}

	blocked := &model.BlockedTime{
		DoctorID:  doctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    optional(req.Reason),
	}
	if err := s.blocks.Create(ctx, blocked); err != nil {
		return nil, apperrors.Store("create blocked time", err)
	}

	s.logger.Info("time blocked", map[string]interface{}{
		"doctor_id": doctorID,
		"start":     req.StartTime,
		"end":       req.EndTime,
	})
	return blocked, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	return appointment, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.appointments.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Store("list appointments", err)
	}
	return appointments, nil
}

// CancelAppointment marks the appointment cancelled. Rows are never
// removed; a cancelled appointment stops counting against availability.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) error {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("appointment", err)
	}

	if appointment.Status == model.AppointmentStatusCancelled {
		return apperrors.BadRequest("appointment is already cancelled", nil)
	}
	if appointment.Status == model.AppointmentStatusCompleted {
		return apperrors.BadRequest("cannot cancel a completed appointment", nil)
	}

	appointment.Status = model.AppointmentStatusCancelled
	appointment.CancelReason = optional(reason)

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return err
	}

	s.logger.Info("appointment cancelled", map[string]interface{}{
		"appointment_id": id,
	})
	return nil
}

// reject counts a business rejection by reason before handing it back.
func (s *Service) reject(err error) error {
	s.metrics.BookingsRejected.WithLabelValues(rejectionReason(err)).Inc()
	return err
}

func rejectionReason(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrMissingFields:
		return "missing_fields"
	case apperrors.ErrInvalidInterval:
		return "invalid_interval"
	case apperrors.ErrDoubleBooked:
		return "double_booked"
	case apperrors.ErrTimeBlocked:
		return "time_blocked"
	default:
		return "other"
	}
}

func validateAppointmentFields(doctorID uuid.UUID, req *model.CreateAppointmentRequest) error {
	var missing []string
	if req.PatientID == uuid.Nil {
		missing = append(missing, "patient_id")
	}
	if doctorID == uuid.Nil {
		missing = append(missing, "doctor_id")
	}
	if req.StartTime.IsZero() {
		missing = append(missing, "start_time")
	}
	if req.EndTime.IsZero() {
		missing = append(missing, "end_time")
	}
	if len(missing) > 0 {
		return apperrors.MissingFields(missing...)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func recurrenceTag(rule schedule.Rule) *string {
	if rule == schedule.RuleNone {
		return nil
	}
	tag := string(rule)
	return &tag
}
