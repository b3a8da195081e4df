// File: internal/auth/handler.go
package auth

import (
	"sinergia_backend/internal/common"
	"sinergia_backend/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	userService user.Service
	logger      *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(userService user.Service, logger *zap.Logger) *Handler {
	return &Handler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
// mws run before both endpoints (the rate limiter in production).
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, mws ...gin.HandlerFunc) {
	authGroup := router.Group("/auth", mws...)
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Register: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	registered, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, toRegisterResponse(registered))
}

func (h *Handler) login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	res, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, LoginResponse{
		Token:     res.Token,
		TokenType: TokenTypeBearer,
		ExpiresAt: res.ExpiresAt,
		User:      toUserSummary(res.User),
	})
}
