package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/model"
)

func (r *blockedTimeRepository) Create(ctx context.Context, blocked *model.BlockedTime) error {
	query := `
		INSERT INTO blocked_times (id, doctor_id, start_time, end_time, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	blocked.ID = uuid.New()
	blocked.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		blocked.ID,
		blocked.DoctorID,
		blocked.StartTime,
		blocked.EndTime,
		blocked.Reason,
		blocked.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blocked time: %w", err)
	}
	return nil
}

func (r *blockedTimeRepository) Get(ctx context.Context, id uuid.UUID) (*model.BlockedTime, error) {
	query := `
		SELECT id, doctor_id, start_time, end_time, reason, created_at
		FROM blocked_times
		WHERE id = $1
	`
	var blocked model.BlockedTime
	if err := r.db.GetContext(ctx, &blocked, query, id); err != nil {
		return nil, fmt.Errorf("failed to get blocked time: %w", err)
	}
	return &blocked, nil
}

func (r *blockedTimeRepository) FindOverlapping(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.BlockedTime, error) {
	// Same predicate shape as the appointments overlap query, without a
	// status filter: blocks have no status.
	query := fmt.Sprintf(`
		SELECT id, doctor_id, start_time, end_time, reason, created_at
		FROM blocked_times
		WHERE doctor_id = $1
		AND %s
		ORDER BY start_time ASC
	`, overlapFilter)

	var blocks []*model.BlockedTime
	if err := r.db.SelectContext(ctx, &blocks, query, doctorID, start, end); err != nil {
		return nil, fmt.Errorf("failed to find overlapping blocked times: %w", err)
	}
	return blocks, nil
}

func (r *blockedTimeRepository) ListEventsStartingBetween(ctx context.Context, from, to time.Time) ([]*model.CalendarEvent, error) {
	query := `
		SELECT b.id, b.start_time, b.end_time, b.reason,
			   d.id AS doctor_id, d.full_name AS doctor_full_name
		FROM blocked_times b
		LEFT JOIN doctors d ON d.id = b.doctor_id
		WHERE b.start_time >= $1 AND b.start_time < $2
		ORDER BY b.start_time ASC
	`

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list blocked time events: %w", err)
	}

	events := make([]*model.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toCalendarEvent(model.EventKindBlocked))
	}
	return events, nil
}
