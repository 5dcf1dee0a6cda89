package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/handler"
	appointmentHandler "github.com/clinicore/agenda-api/internal/handler/appointment"
	blockedtimeHandler "github.com/clinicore/agenda-api/internal/handler/blockedtime"
	calendarHandler "github.com/clinicore/agenda-api/internal/handler/calendar"
	doctorHandler "github.com/clinicore/agenda-api/internal/handler/doctor"
	reminderHandler "github.com/clinicore/agenda-api/internal/handler/reminder"
	"github.com/clinicore/agenda-api/internal/middleware"
	"github.com/clinicore/agenda-api/internal/model"
	"github.com/clinicore/agenda-api/internal/repository"
	"github.com/clinicore/agenda-api/internal/router"
	"github.com/clinicore/agenda-api/internal/schedule"
	availabilityService "github.com/clinicore/agenda-api/internal/service/availability"
	bookingService "github.com/clinicore/agenda-api/internal/service/booking"
	calendarService "github.com/clinicore/agenda-api/internal/service/calendar"
	reminderService "github.com/clinicore/agenda-api/internal/service/reminder"
	"github.com/clinicore/agenda-api/pkg/auth"
	"github.com/clinicore/agenda-api/pkg/logger"
	"github.com/clinicore/agenda-api/pkg/messaging"
	"github.com/clinicore/agenda-api/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// memStore is the in-memory backing for the whole API under test. It
// implements the appointment, blocked time and doctor repositories with
// the same overlap predicate the SQL layer expresses.
type memStore struct {
	appointments []*model.Appointment
	blocks       []*model.BlockedTime
	doctors      map[uuid.UUID]*model.Doctor
	patients     map[uuid.UUID]*model.Patient
}

type memAppointments struct {
	repository.AppointmentRepository
	store *memStore
}

func (m *memAppointments) Create(_ context.Context, appointment *model.Appointment) error {
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	m.store.appointments = append(m.store.appointments, appointment)
	return nil
}

func (m *memAppointments) CreateBatch(ctx context.Context, appointments []*model.Appointment) error {
	for _, a := range appointments {
		if err := m.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (m *memAppointments) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	for _, a := range m.store.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errNotFound
}

func (m *memAppointments) Update(_ context.Context, appointment *model.Appointment) error {
	for i, a := range m.store.appointments {
		if a.ID == appointment.ID {
			m.store.appointments[i] = appointment
			return nil
		}
	}
	return errNotFound
}

func (m *memAppointments) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range m.store.appointments {
		if filters.DoctorID != uuid.Nil && a.DoctorID != filters.DoctorID {
			continue
		}
		if filters.PatientID != uuid.Nil && a.PatientID != filters.PatientID {
			continue
		}
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memAppointments) FindOverlapping(_ context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range m.store.appointments {
		if a.DoctorID == doctorID && a.Status != model.AppointmentStatusCancelled &&
			schedule.Overlaps(a.StartTime, a.EndTime, start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointments) ListEventsStartingBetween(_ context.Context, from, to time.Time) ([]*model.CalendarEvent, error) {
	var out []*model.CalendarEvent
	for _, a := range m.store.appointments {
		if a.StartTime.Before(from) || !a.StartTime.Before(to) {
			continue
		}
		status := string(a.Status)
		event := &model.CalendarEvent{
			ID:        a.ID,
			Kind:      model.EventKindAppointment,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			Status:    &status,
		}
		if patient, ok := m.store.patients[a.PatientID]; ok {
			event.Patient = &model.PatientRef{ID: patient.ID, FirstName: patient.FirstName, LastName: patient.LastName}
		}
		if doctor, ok := m.store.doctors[a.DoctorID]; ok {
			event.Doctor = &model.DoctorRef{ID: doctor.ID, FullName: doctor.FullName}
		}
		out = append(out, event)
	}
	return out, nil
}

func (m *memAppointments) ListUpcoming(_ context.Context, from, to time.Time) ([]*model.UpcomingAppointment, error) {
	var out []*model.UpcomingAppointment
	for _, a := range m.store.appointments {
		if a.Status == model.AppointmentStatusCancelled {
			continue
		}
		if a.StartTime.Before(from) || !a.StartTime.Before(to) {
			continue
		}
		patient, ok := m.store.patients[a.PatientID]
		if !ok {
			continue
		}
		out = append(out, &model.UpcomingAppointment{
			AppointmentID:  a.ID,
			StartTime:      a.StartTime,
			PatientID:      patient.ID,
			FirstName:      patient.FirstName,
			LastName:       patient.LastName,
			PhoneNumber:    patient.PhoneNumber,
			Email:          patient.Email,
			AllowReminders: patient.AllowReminders,
		})
	}
	return out, nil
}

type memBlocks struct {
	repository.BlockedTimeRepository
	store *memStore
}

func (m *memBlocks) Create(_ context.Context, blocked *model.BlockedTime) error {
	blocked.ID = uuid.New()
	blocked.CreatedAt = time.Now()
	m.store.blocks = append(m.store.blocks, blocked)
	return nil
}

func (m *memBlocks) FindOverlapping(_ context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.BlockedTime, error) {
	var out []*model.BlockedTime
	for _, b := range m.store.blocks {
		if b.DoctorID == doctorID && schedule.Overlaps(b.StartTime, b.EndTime, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBlocks) ListEventsStartingBetween(_ context.Context, from, to time.Time) ([]*model.CalendarEvent, error) {
	var out []*model.CalendarEvent
	for _, b := range m.store.blocks {
		if b.StartTime.Before(from) || !b.StartTime.Before(to) {
			continue
		}
		event := &model.CalendarEvent{
			ID:        b.ID,
			Kind:      model.EventKindBlocked,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Reason:    b.Reason,
		}
		if doctor, ok := m.store.doctors[b.DoctorID]; ok {
			event.Doctor = &model.DoctorRef{ID: doctor.ID, FullName: doctor.FullName}
		}
		out = append(out, event)
	}
	return out, nil
}

type memDoctors struct {
	repository.DoctorRepository
	store *memStore
}

func (m *memDoctors) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if doctor, ok := m.store.doctors[id]; ok {
		return doctor, nil
	}
	return nil, errNotFound
}

func (m *memDoctors) List(_ context.Context) ([]*model.Doctor, error) {
	out := make([]*model.Doctor, 0, len(m.store.doctors))
	for _, doctor := range m.store.doctors {
		out = append(out, doctor)
	}
	return out, nil
}

type noopBroker struct{}

func (noopBroker) Publish(context.Context, string, interface{}) error { return nil }
func (noopBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}
func (noopBroker) Close() error { return nil }

var _ messaging.Broker = noopBroker{}

type noopEmail struct{}

func (noopEmail) SendReminder(context.Context, string, string, string) error { return nil }

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "not found" }

// testServer wires the full router over the in-memory store.
type testServer struct {
	engine  http.Handler
	store   *memStore
	tokens  auth.TokenService
	doctor  *model.Doctor
	patient *model.Patient
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := &memStore{
		doctors:  map[uuid.UUID]*model.Doctor{},
		patients: map[uuid.UUID]*model.Patient{},
	}
	phone := "+15550100"
	mail := "pat@example.com"
	doctor := &model.Doctor{FullName: "Dr. Ada Wong", Email: "ada@example.com"}
	doctor.ID = uuid.New()
	patient := &model.Patient{FirstName: "Pat", LastName: "Doe", PhoneNumber: &phone, Email: &mail, AllowReminders: true}
	patient.ID = uuid.New()
	store.doctors[doctor.ID] = doctor
	store.patients[patient.ID] = patient

	appointments := &memAppointments{store: store}
	blocks := &memBlocks{store: store}
	doctors := &memDoctors{store: store}

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	m := metrics.NewMetricsWith(prometheus.NewRegistry(), "agenda", "apitest")

	availabilitySvc := availabilityService.NewService(appointments, blocks)
	bookingSvc := bookingService.NewService(appointments, blocks, availabilitySvc, log, m)
	calendarSvc := calendarService.NewService(appointments, blocks)
	reminderSvc := reminderService.NewService(appointments, noopBroker{}, noopEmail{}, log, m, 24*time.Hour)

	tokens := auth.NewTokenService("api-test-secret", 1)
	authMiddleware := middleware.NewAuthMiddleware(tokens, doctors)

	r := router.NewRouter(
		authMiddleware,
		appointmentHandler.NewHandler(bookingSvc),
		blockedtimeHandler.NewHandler(bookingSvc),
		calendarHandler.NewHandler(calendarSvc),
		doctorHandler.NewHandler(doctors),
		reminderHandler.NewHandler(reminderSvc),
		handler.NewHandler(),
		log,
		router.RouterConfig{CORSConfig: middleware.DefaultCORSConfig(), MetricsPrefix: "agenda_apitest"},
	)
	r.Setup()

	return &testServer{
		engine:  r.Engine(),
		store:   store,
		tokens:  tokens,
		doctor:  doctor,
		patient: patient,
	}
}

func (s *testServer) token(t *testing.T) string {
	t.Helper()
	token, err := s.tokens.GenerateToken(s.doctor.ID, s.doctor.Email)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (r *apiResponse) IsSuccess() bool { return r.Status == "success" }

func (s *testServer) makeRequest(t *testing.T, method, path string, body interface{}, token string) (int, *apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	resp := &apiResponse{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), resp); err != nil {
			t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, resp
}
