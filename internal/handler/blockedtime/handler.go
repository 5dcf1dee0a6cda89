package blockedtime

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/agenda-api/internal/handler"
	"github.com/clinicore/agenda-api/internal/model"
	"github.com/clinicore/agenda-api/internal/service/booking"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

// CreateBlockedTime declares an unavailability window for the
// authenticated doctor. Existing appointments in the window are not
// checked and not touched.
func (h *Handler) CreateBlockedTime(c *gin.Context) {
	doctorID, ok := handler.DoctorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("doctor identity missing"))
		return
	}

	var req model.CreateBlockedTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	blocked, err := h.service.CreateBlockedTime(c.Request.Context(), doctorID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(blocked))
}
