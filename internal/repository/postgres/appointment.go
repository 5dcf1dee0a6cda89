package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "github.com/clinicore/agenda-api/pkg/errors"

	"github.com/clinicore/agenda-api/internal/model"
)

// overlapFilter expresses schedule.Overlaps as a query filter over
// stored intervals: a stored [start_time, end_time) intersects the
// candidate [$2, $3) iff start_time < $3 AND end_time > $2. Both the
// appointments and blocked_times overlap queries use this exact shape
// so the SQL cannot drift from the in-process predicate.
const overlapFilter = "start_time < $3 AND end_time > $2"

const appointmentColumns = `
	id, patient_id, doctor_id, start_time, end_time, status,
	service_description, notes, is_recurring, recurrence_rule,
	cancel_reason, created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (err error) {
	start := time.Now()
	defer func() { r.observe("create_appointment", start, err) }()

	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, start_time, end_time, status,
			service_description, notes, is_recurring, recurrence_rule,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.ServiceDescription,
		appointment.Notes,
		appointment.IsRecurring,
		appointment.RecurrenceRule,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return translateConflict(err, "create appointment")
	}
	return nil
}

// CreateBatch inserts a recurring series in one transaction. The
// per-doctor advisory lock serializes concurrent bookings for the same
// doctor, so a validation pass made just before this call stays valid
// through commit. The exclusion constraint on (doctor_id, range)
// backstops anything that slips through.
func (r *appointmentRepository) CreateBatch(ctx context.Context, appointments []*model.Appointment) (err error) {
	if len(appointments) == 0 {
		return nil
	}

	start := time.Now()
	defer func() { r.observe("batch_insert_appointments", start, err) }()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Store("begin batch insert", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		appointments[0].DoctorID.String(),
	); err != nil {
		return apperrors.Store("acquire doctor lock", err)
	}

	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, start_time, end_time, status,
			service_description, notes, is_recurring, recurrence_rule,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	now := time.Now()
	for _, appointment := range appointments {
		appointment.ID = uuid.New()
		appointment.CreatedAt = now
		appointment.UpdatedAt = now

		if _, err := tx.ExecContext(ctx, query,
			appointment.ID,
			appointment.PatientID,
			appointment.DoctorID,
			appointment.StartTime,
			appointment.EndTime,
			appointment.Status,
			appointment.ServiceDescription,
			appointment.Notes,
			appointment.IsRecurring,
			appointment.RecurrenceRule,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		); err != nil {
			return translateConflict(err, "batch insert appointment")
		}
	}

	if err := tx.Commit(); err != nil {
		return translateConflict(err, "commit batch insert")
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Appointment, err error) {
	start := time.Now()
	defer func() { r.observe("get_appointment", start, err) }()

	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) (err error) {
	start := time.Now()
	defer func() { r.observe("update_appointment", start, err) }()

	query := `
		UPDATE appointments
		SET status = $1, notes = $2, cancel_reason = $3, updated_at = $4
		WHERE id = $5
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Status,
		appointment.Notes,
		appointment.CancelReason,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) (_ []*model.Appointment, err error) {
	start := time.Now()
	defer func() { r.observe("list_appointments", start, err) }()

	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE 1=1`, appointmentColumns)
	args := []interface{}{}
	argCount := 1

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}
	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND start_time >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}
	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND start_time < $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY start_time ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindOverlapping(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (_ []*model.Appointment, err error) {
	began := time.Now()
	defer func() { r.observe("find_overlapping_appointments", began, err) }()

	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE doctor_id = $1
		AND status != 'cancelled'
		AND %s
		ORDER BY start_time ASC
	`, appointmentColumns, overlapFilter)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, start, end); err != nil {
		return nil, fmt.Errorf("failed to find overlapping appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListEventsStartingBetween(ctx context.Context, from, to time.Time) (_ []*model.CalendarEvent, err error) {
	start := time.Now()
	defer func() { r.observe("list_appointment_events", start, err) }()

	query := `
		SELECT a.id, a.start_time, a.end_time, a.status,
			   a.service_description, a.notes,
			   p.id AS patient_id, p.first_name AS patient_first_name, p.last_name AS patient_last_name,
			   d.id AS doctor_id, d.full_name AS doctor_full_name
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.patient_id
		LEFT JOIN doctors d ON d.id = a.doctor_id
		WHERE a.start_time >= $1 AND a.start_time < $2
		ORDER BY a.start_time ASC
	`

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list appointment events: %w", err)
	}

	events := make([]*model.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toCalendarEvent(model.EventKindAppointment))
	}
	return events, nil
}

func (r *appointmentRepository) ListUpcoming(ctx context.Context, from, to time.Time) (_ []*model.UpcomingAppointment, err error) {
	start := time.Now()
	defer func() { r.observe("list_upcoming_appointments", start, err) }()

	query := `
		SELECT a.id AS appointment_id, a.start_time,
			   p.id AS patient_id, p.first_name, p.last_name,
			   p.phone_number, p.email, p.allow_whatsapp_reminders
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.start_time >= $1 AND a.start_time < $2
		AND a.status != 'cancelled'
		ORDER BY a.start_time ASC
	`

	var upcoming []*model.UpcomingAppointment
	if err := r.db.SelectContext(ctx, &upcoming, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return upcoming, nil
}

// translateConflict maps a Postgres exclusion violation on the
// (doctor_id, range) constraint to the booking conflict rejection so
// races lost at the store surface the same way as validator rejections.
func translateConflict(err error, op string) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23P01" {
		return apperrors.DoubleBooked()
	}
	return apperrors.Store(op, err)
}
