package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// PrincipalKey is the context key for storing the authenticated caller
	PrincipalKey = "principal"
	// LoggerKey is the context key for a request-scoped *zap.Logger
	LoggerKey = "logger"
)
