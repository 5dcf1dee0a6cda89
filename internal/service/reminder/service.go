// Package reminder serves the scheduled reminder job: it reads the
// stable upcoming-appointments query shape (start time, patient consent
// flag, contact info) and dispatches reminder messages through the
// broker and the email sender.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/agenda-api/internal/email"
	"github.com/clinicore/agenda-api/internal/model"
	"github.com/clinicore/agenda-api/internal/repository"
	apperrors "github.com/clinicore/agenda-api/pkg/errors"
	"github.com/clinicore/agenda-api/pkg/logger"
	"github.com/clinicore/agenda-api/pkg/messaging"
	"github.com/clinicore/agenda-api/pkg/metrics"
)

// Channel is the broker channel reminder messages are published on.
const Channel = "reminders"

type Service struct {
	appointments repository.AppointmentRepository
	broker       messaging.Broker
	emailSvc     email.Service
	logger       *logger.Logger
	metrics      *metrics.Metrics
	window       time.Duration
}

func NewService(
	appointments repository.AppointmentRepository,
	broker messaging.Broker,
	emailSvc email.Service,
	logger *logger.Logger,
	m *metrics.Metrics,
	window time.Duration,
) *Service {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Service{
		appointments: appointments,
		broker:       broker,
		emailSvc:     emailSvc,
		logger:       logger,
		metrics:      m,
		window:       window,
	}
}

// UpcomingAppointments returns non-cancelled appointments starting in
// [now, now+window). Consent is filtered in code rather than in the
// query so the read shape stays stable for other consumers.
func (s *Service) UpcomingAppointments(ctx context.Context) ([]*model.UpcomingAppointment, error) {
	now := time.Now()
	upcoming, err := s.appointments.ListUpcoming(ctx, now, now.Add(s.window))
	if err != nil {
		return nil, apperrors.Store("list upcoming appointments", err)
	}
	return upcoming, nil
}

// DispatchDue sends a reminder for every upcoming appointment whose
// patient has consented and has a phone number on file. Individual
// dispatch failures are logged and counted, not fatal: one bad phone
// number must not starve the rest of the batch.
func (s *Service) DispatchDue(ctx context.Context) (int, error) {
	started := time.Now()
	defer func() {
		s.metrics.ReminderLatency.Observe(time.Since(started).Seconds())
	}()

	upcoming, err := s.UpcomingAppointments(ctx)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, appointment := range upcoming {
		if !appointment.AllowReminders || appointment.PhoneNumber == nil {
			continue
		}

		message := &model.ReminderMessage{
			AppointmentID: appointment.AppointmentID,
			PatientID:     appointment.PatientID,
			Recipient:     *appointment.PhoneNumber,
			Body:          reminderBody(appointment),
			StartTime:     appointment.StartTime,
		}

		if err := s.broker.Publish(ctx, Channel, messaging.Message{Type: "appointment_reminder", Payload: message}); err != nil {
			s.metrics.RemindersFailed.Inc()
			s.logger.Error(err, "failed to publish reminder", map[string]interface{}{
				"appointment_id": appointment.AppointmentID,
			})
			continue
		}

		if appointment.Email != nil {
			if err := s.emailSvc.SendReminder(ctx, *appointment.Email, "Appointment reminder", message.Body); err != nil {
				s.logger.Error(err, "failed to email reminder", map[string]interface{}{
					"appointment_id": appointment.AppointmentID,
				})
			}
		}

		s.metrics.RemindersDispatched.Inc()
		dispatched++
	}

	s.logger.Info("reminder batch processed", map[string]interface{}{
		"candidates": len(upcoming),
		"dispatched": dispatched,
	})
	return dispatched, nil
}

func reminderBody(appointment *model.UpcomingAppointment) string {
	return fmt.Sprintf(
		"Hi %s, this is a reminder of your appointment at the clinic on %s. See you there!",
		appointment.FirstName,
		appointment.StartTime.Format("Mon Jan 2 at 3:04 PM"),
	)
}
