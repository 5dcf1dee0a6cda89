package model

import (
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs the struct-level binding rules shared by
// the request DTOs. Interval ordering is also enforced in the booking
// service for callers that bypass HTTP binding; the rule here fails
// fast at the boundary.
func RegisterValidations(v *validator.Validate) {
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(CreateAppointmentRequest)
		if !req.StartTime.IsZero() && !req.EndTime.IsZero() && !req.StartTime.Before(req.EndTime) {
			sl.ReportError(req.EndTime, "end_time", "EndTime", "gtfield", "StartTime")
		}
	}, CreateAppointmentRequest{})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(CreateBlockedTimeRequest)
		if !req.StartTime.IsZero() && !req.EndTime.IsZero() && !req.StartTime.Before(req.EndTime) {
			sl.ReportError(req.EndTime, "end_time", "EndTime", "gtfield", "StartTime")
		}
	}, CreateBlockedTimeRequest{})
}
