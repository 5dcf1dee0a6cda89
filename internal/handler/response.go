package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/clinicore/agenda-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Error writes the envelope for a service error, mapping the error code
// to an HTTP status. Booking rejections are conflicts, not failures.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.ErrMissingFields, apperrors.ErrInvalidInterval, apperrors.ErrBadRequest:
		status = http.StatusBadRequest
	case apperrors.ErrDoubleBooked, apperrors.ErrTimeBlocked:
		status = http.StatusConflict
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrForbidden:
		status = http.StatusForbidden
	}
	c.JSON(status, NewErrorResponse(err.Error()))
}

// ContextDoctorID is the gin context key the auth middleware sets after
// resolving the bearer token.
const ContextDoctorID = "doctorID"

// DoctorID returns the authenticated doctor resolved by the auth
// middleware.
func DoctorID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextDoctorID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
