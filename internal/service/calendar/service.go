// Package calendar assembles the week view: appointments and blocked
// times loaded for a Monday-to-Sunday range and bucketed by day and
// time slot for the agenda grid.
package calendar

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/model"
	"github.com/clinicore/agenda-api/internal/repository"
	"github.com/clinicore/agenda-api/internal/schedule"
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

// WeekCalendar is the assembled week view for one viewing doctor.
// Appointments from all doctors are visible; blocked times only count
// when they belong to the viewing doctor.
type WeekCalendar struct {
	WeekStart time.Time              `json:"week_start"`
	WeekEnd   time.Time              `json:"week_end"`
	DoctorID  uuid.UUID              `json:"doctor_id"`
	Events    []*model.CalendarEvent `json:"events"`
}

// LoadWeek fetches every appointment and blocked time whose start
// instant falls within the week containing date. The range is the
// half-open [weekStart, weekStart+7d), weekStart being Monday midnight
// in date's location.
func (s *Service) LoadWeek(ctx context.Context, date time.Time, doctorID uuid.UUID) (*WeekCalendar, error) {
	weekStart := schedule.StartOfWeek(date)
	weekEnd := weekStart.AddDate(0, 0, schedule.DaysPerWeek)

	appointments, err := s.appointments.ListEventsStartingBetween(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, apperrors.Store("load week appointments", err)
	}

	blocks, err := s.blocks.ListEventsStartingBetween(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, apperrors.Store("load week blocked times", err)
	}

	events := make([]*model.CalendarEvent, 0, len(appointments)+len(blocks))
	events = append(events, appointments...)
	events = append(events, blocks...)
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})

	return &WeekCalendar{
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		DoctorID:  doctorID,
		Events:    events,
	}, nil
}

// EventsForSlot returns the events whose start instant falls exactly on
// the given grid slot, ordered by start. dayIndex 0 is Monday and
// timeOfDay is "HH:MM" in the week's location.
func (w *WeekCalendar) EventsForSlot(dayIndex int, timeOfDay string) []*model.CalendarEvent {
	slot, err := schedule.SlotTime(w.WeekStart, dayIndex, timeOfDay)
	if err != nil {
		return nil
	}

	var matched []*model.CalendarEvent
	for _, event := range w.Events {
		if event.StartTime.Equal(slot) && w.visible(event) {
			matched = append(matched, event)
		}
	}
	return matched
}

// IsSlotOccupied reports whether the slot instant falls within any
// visible event's half-open [start, end) span.
func (w *WeekCalendar) IsSlotOccupied(dayIndex int, timeOfDay string) bool {
	slot, err := schedule.SlotTime(w.WeekStart, dayIndex, timeOfDay)
	if err != nil {
		return false
	}

	for _, event := range w.Events {
		if !w.visible(event) {
			continue
		}
		if !slot.Before(event.StartTime) && slot.Before(event.EndTime) {
			return true
		}
	}
	return false
}

func (w *WeekCalendar) visible(event *model.CalendarEvent) bool {
	if event.Kind != model.EventKindBlocked {
		return true
	}
	return event.Doctor != nil && event.Doctor.ID == w.DoctorID
}
