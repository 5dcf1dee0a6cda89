package calendar

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/agenda-api/internal/handler"
	"github.com/clinicore/agenda-api/internal/service/calendar"
)

type Handler struct {
	service *calendar.Service
}

func NewHandler(service *calendar.Service) *Handler {
	return &Handler{service: service}
}

// GetWeek returns the assembled week view containing the given date.
// The date query accepts either RFC 3339 or plain YYYY-MM-DD; it
// defaults to today. The week always runs Monday to Sunday.
func (h *Handler) GetWeek(c *gin.Context) {
	doctorID, ok := handler.DoctorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("doctor identity missing"))
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date"))
			return
		}
		date = parsed
	}

	week, err := h.service.LoadWeek(c.Request.Context(), date, doctorID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(week))
}

func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}
