package common

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID uint
	Role   Role
}

// IsAdmin reports whether the caller holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// GetTokenFromHeader extracts the bearer token from an Authorization header value.
// Returns an empty string if the header is missing or malformed.
func GetTokenFromHeader(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		return ""
	}
	return parts[1]
}

// GetPrincipalFromContext retrieves the authenticated caller from the Gin context.
func GetPrincipalFromContext(c *gin.Context) (Principal, bool) {
	val, exists := c.Get(PrincipalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := val.(Principal)
	return p, ok
}

// SetPrincipal stores the authenticated caller in the Gin context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(PrincipalKey, p)
}

// ParseIDParam reads a numeric path parameter. A missing, zero or
// non-numeric value yields ErrBadRequest.
func ParseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, ErrBadRequest.WithDetails("Invalid " + strings.ReplaceAll(name, "_", " ") + " format.")
	}
	return uint(id), nil
}
