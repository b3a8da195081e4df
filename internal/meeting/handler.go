package meeting

import (
	"strconv"

	"sinergia_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for meeting handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new meeting handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the meeting routes behind authMW.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := router.Group("/google-meet", authMW)
	{
		group.POST("/create", h.createMeeting)
		group.GET("/link/:appointment_id", h.getMeetingLink)
		group.DELETE("/delete/:appointment_id", h.deleteMeeting)
	}
}

func (h *Handler) createMeeting(c *gin.Context) {
	caller, ok := common.GetPrincipalFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create meeting: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	summary, err := h.service.CreateMeeting(c.Request.Context(), caller, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, summary)
}

func (h *Handler) getMeetingLink(c *gin.Context) {
	caller, ok := common.GetPrincipalFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	appointmentID, err := common.ParseIDParam(c, "appointment_id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	link, err := h.service.GetMeetingLink(c.Request.Context(), caller, appointmentID, refresh)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, link)
}

func (h *Handler) deleteMeeting(c *gin.Context) {
	caller, ok := common.GetPrincipalFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	appointmentID, err := common.ParseIDParam(c, "appointment_id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	if err := h.service.DeleteMeeting(c.Request.Context(), caller, appointmentID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Meeting deleted successfully")
}
