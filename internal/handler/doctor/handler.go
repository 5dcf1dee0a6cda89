package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/agenda-api/internal/handler"
	"github.com/clinicore/agenda-api/internal/repository"
)

type Handler struct {
	doctors repository.DoctorRepository
}

func NewHandler(doctors repository.DoctorRepository) *Handler {
	return &Handler{doctors: doctors}
}

// ListDoctors returns every doctor in the clinic, ordered by name.
func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctors.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}
