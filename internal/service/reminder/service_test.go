package reminder

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/agenda-api/internal/model"
	"github.com/clinicore/agenda-api/internal/repository"
	apperrors "github.com/clinicore/agenda-api/pkg/errors"
	"github.com/clinicore/agenda-api/pkg/logger"
	"github.com/clinicore/agenda-api/pkg/messaging"
	"github.com/clinicore/agenda-api/pkg/metrics"
)

type fakeUpcomingRepo struct {
	repository.AppointmentRepository
	upcoming []*model.UpcomingAppointment
	err      error

	gotFrom, gotTo time.Time
}

func (f *fakeUpcomingRepo) ListUpcoming(_ context.Context, from, to time.Time) ([]*model.UpcomingAppointment, error) {
	f.gotFrom, f.gotTo = from, to
	return f.upcoming, f.err
}

type captureBroker struct {
	published []messaging.Message
	err       error
}

func (b *captureBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	if channel != Channel {
		return assert.AnError
	}
	b.published = append(b.published, message.(messaging.Message))
	return nil
}

func (b *captureBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}

func (b *captureBroker) Close() error { return nil }

type captureEmail struct {
	sent []string
	err  error
}

func (e *captureEmail) SendReminder(_ context.Context, to, _, _ string) error {
	if e.err != nil {
		return e.err
	}
	e.sent = append(e.sent, to)
	return nil
}

func newTestService(repo *fakeUpcomingRepo, broker *captureBroker, mail *captureEmail, window time.Duration) *Service {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	m := metrics.NewMetricsWith(prometheus.NewRegistry(), "agenda", "test")
	return NewService(repo, broker, mail, log, m, window)
}

func strp(s string) *string { return &s }

func upcomingIn(hours int, consent bool, phone, mail *string) *model.UpcomingAppointment {
	return &model.UpcomingAppointment{
		AppointmentID:  uuid.New(),
		StartTime:      time.Now().Add(time.Duration(hours) * time.Hour),
		PatientID:      uuid.New(),
		FirstName:      "Maria",
		LastName:       "Silva",
		PhoneNumber:    phone,
		Email:          mail,
		AllowReminders: consent,
	}
}

func TestDispatchDuePublishesForConsentingPatients(t *testing.T) {
	withConsent := upcomingIn(2, true, strp("+15550100"), strp("maria@example.com"))
	repo := &fakeUpcomingRepo{upcoming: []*model.UpcomingAppointment{
		withConsent,
		upcomingIn(4, false, strp("+15550101"), nil), // no consent
		upcomingIn(6, true, nil, nil),                // no phone on file
	}}
	broker := &captureBroker{}
	mail := &captureEmail{}
	svc := newTestService(repo, broker, mail, 24*time.Hour)

	dispatched, err := svc.DispatchDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dispatched)

	require.Len(t, broker.published, 1)
	msg := broker.published[0]
	assert.Equal(t, "appointment_reminder", msg.Type)
	payload := msg.Payload.(*model.ReminderMessage)
	assert.Equal(t, withConsent.AppointmentID, payload.AppointmentID)
	assert.Equal(t, "+15550100", payload.Recipient)
	assert.Contains(t, payload.Body, "Maria")
	assert.True(t, payload.StartTime.Equal(withConsent.StartTime))

	assert.Equal(t, []string{"maria@example.com"}, mail.sent)
}

func TestDispatchDueQueriesConfiguredWindow(t *testing.T) {
	repo := &fakeUpcomingRepo{}
	svc := newTestService(repo, &captureBroker{}, &captureEmail{}, 48*time.Hour)

	_, err := svc.DispatchDue(context.Background())
	require.NoError(t, err)
	assert.WithinDuration(t, repo.gotFrom.Add(48*time.Hour), repo.gotTo, time.Second)
}

func TestDispatchDuePublishFailureSkipsMessage(t *testing.T) {
	repo := &fakeUpcomingRepo{upcoming: []*model.UpcomingAppointment{
		upcomingIn(2, true, strp("+15550100"), nil),
	}}
	broker := &captureBroker{err: assert.AnError}
	svc := newTestService(repo, broker, &captureEmail{}, 24*time.Hour)

	dispatched, err := svc.DispatchDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dispatched)
}

func TestDispatchDueEmailFailureStillCountsDispatch(t *testing.T) {
	repo := &fakeUpcomingRepo{upcoming: []*model.UpcomingAppointment{
		upcomingIn(2, true, strp("+15550100"), strp("maria@example.com")),
	}}
	svc := newTestService(repo, &captureBroker{}, &captureEmail{err: assert.AnError}, 24*time.Hour)

	dispatched, err := svc.DispatchDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dispatched)
}

func TestDispatchDueStoreFailure(t *testing.T) {
	repo := &fakeUpcomingRepo{err: assert.AnError}
	svc := newTestService(repo, &captureBroker{}, &captureEmail{}, 24*time.Hour)

	_, err := svc.DispatchDue(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrStore, apperrors.CodeOf(err))
}
