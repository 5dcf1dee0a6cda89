package reminder

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/agenda-api/internal/handler"
	"github.com/clinicore/agenda-api/internal/service/reminder"
)

type Handler struct {
	service *reminder.Service
}

func NewHandler(service *reminder.Service) *Handler {
	return &Handler{service: service}
}

// ListUpcoming exposes the reminder read surface: appointments starting
// inside the reminder window with the patient's consent flag and
// contact info. The worker consumes the same query through the service.
func (h *Handler) ListUpcoming(c *gin.Context) {
	upcoming, err := h.service.UpcomingAppointments(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(upcoming))
}
