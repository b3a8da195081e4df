// File: internal/appointment/handler.go
package appointment

import (
	"sinergia_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for appointment handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new appointment handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the appointment routes. mws is empty when the routes
// are public and carries the auth middleware otherwise.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, mws ...gin.HandlerFunc) {
	group := router.Group("/appointments", mws...)
	{
		group.GET("/", h.listAppointments)
		group.POST("/", h.createAppointment)
	}
}

func (h *Handler) listAppointments(c *gin.Context) {
	appts, err := h.service.List(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	resp := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		resp = append(resp, ToAppointmentResponse(&appts[i]))
	}
	common.RespondOK(c, resp)
}

func (h *Handler) createAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Create appointment: Invalid request", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	appt, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, ToAppointmentResponse(appt))
}
