// File: internal/admin/handler.go
package admin

import (
	"sinergia_backend/internal/common"
	"sinergia_backend/internal/shared"
	"sinergia_backend/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateProfessionalResponse carries the only copy of the temporary password.
type CreateProfessionalResponse struct {
	Message           string `json:"message"`
	ID                uint   `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	TemporaryPassword string `json:"temporary_password"`
	Note              string `json:"note"`
}

// Handler exposes account administration to admins.
type Handler struct {
	service user.Service
	logger  *zap.Logger
}

// NewHandler creates a new admin handler.
func NewHandler(service user.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts /admin behind authMW and the admin role check.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, roleMW gin.HandlerFunc) {
	adminGroup := router.Group("/admin", authMW, roleMW)
	{
		adminGroup.POST("/profissionais", h.createProfessional)
		adminGroup.GET("/profissionais", h.listProfessionals)
		adminGroup.GET("/profissionais/:id", h.getProfessional)
		adminGroup.DELETE("/profissionais/:id", h.deleteProfessional)

		adminGroup.GET("/pacientes", h.listPatients)
		adminGroup.DELETE("/pacientes/:id", h.deletePatient)

		adminGroup.GET("/estatisticas", h.statistics)
	}
}

func (h *Handler) createProfessional(c *gin.Context) {
	var req user.CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create professional: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	created, err := h.service.CreateProfessional(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, CreateProfessionalResponse{
		Message:           "Professional created successfully",
		ID:                created.User.ID,
		Email:             created.User.Email,
		Name:              created.User.Name,
		TemporaryPassword: created.TemporaryPassword,
		Note:              user.TemporaryPasswordNote,
	})
}

func (h *Handler) listProfessionals(c *gin.Context) {
	users, err := h.service.ListProfessionals(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, shared.ToUserResponses(users))
}

func (h *Handler) getProfessional(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	usr, err := h.service.GetProfessional(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, shared.ToUserResponse(usr))
}

func (h *Handler) deleteProfessional(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.DeleteProfessional(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Professional deleted successfully")
}

func (h *Handler) listPatients(c *gin.Context) {
	users, err := h.service.ListPatients(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, shared.ToUserResponses(users))
}

func (h *Handler) deletePatient(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if err := h.service.DeletePatient(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Patient deleted successfully")
}

func (h *Handler) statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, stats)
}
