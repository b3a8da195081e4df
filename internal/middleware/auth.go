// File: internal/middleware/auth.go
package middleware

import (
	"errors"

	"sinergia_backend/internal/common"
	"sinergia_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware creates a Gin middleware for JWT authentication. The token
// subject is resolved against the user store so that deleted accounts lose
// access immediately and the role always reflects the stored one.
func AuthMiddleware(tokenService shared.TokenService, users shared.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(common.AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		tokenString := common.GetTokenFromHeader(authHeader)
		if tokenString == "" {
			logger.Debug("Authorization header format invalid")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		claims, err := tokenService.DecodeToken(tokenString)
		if err != nil {
			logger.Info("Token validation failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		usr, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				logger.Info("Token subject no longer exists", zap.Uint("userID", claims.UserID))
				common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not found."))
				return
			}
			logger.Error("Failed to resolve token subject", zap.Error(err), zap.Uint("userID", claims.UserID))
			common.RespondWithError(c, err)
			return
		}

		common.SetPrincipal(c, common.Principal{UserID: usr.ID, Role: usr.Role})

		logger.Debug("User authenticated successfully",
			zap.Uint("userID", usr.ID),
			zap.String("role", usr.Role.String()),
		)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...common.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := common.GetPrincipalFromContext(c)
		if !ok {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
