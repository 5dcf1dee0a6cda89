package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clinicore/agenda-api/internal/repository"
	"github.com/clinicore/agenda-api/pkg/metrics"
)

type appointmentRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type blockedTimeRepository struct {
	db *sqlx.DB
}

type doctorRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{db: db, metrics: m}
}

func NewBlockedTimeRepository(db *sqlx.DB) repository.BlockedTimeRepository {
	return &blockedTimeRepository{db: db}
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

// observe records one database operation outcome with its latency.
func (r *appointmentRepository) observe(op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.metrics.DatabaseOperations.WithLabelValues(op, status).Inc()
	r.metrics.DatabaseLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
