package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-engine/internal/domain/actor"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-engine/pkg/utils"
)

var (
	errMissingCredentials = errors.New("authorization header is required")
	errMalformedBearer    = errors.New("authorization header is not a bearer token")
)

// AuthMiddleware authenticates the operator from the bearer token and makes
// them the actor of the request context. Permissions come from the token
// claims only; the operator row is not reloaded per request.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		switch {
		case errors.Is(err, errMissingCredentials):
			reject(c, err, "Authorization header is required")
			return
		case err != nil:
			reject(c, err, "Invalid authorization header format")
			return
		}

		claims, err := jwtManager.ValidateAccessToken(raw)
		if err != nil {
			reject(c, err, "Invalid or expired token")
			return
		}

		ctx := actor.WithActor(c.Request.Context(), actor.Actor{
			UserID:      claims.UserID,
			Username:    claims.Username,
			Permissions: claims.Permissions,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return "", errMalformedBearer
	}
	return token, nil
}

// reject answers 401 and keeps the cause on the context for the access log.
func reject(c *gin.Context, cause error, message string) {
	_ = c.Error(cause)
	response.Unauthorized(c, message)
	c.Abort()
}

// RequirePermission lets the request through only when the actor holds
// permission.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := actor.FromContext(c.Request.Context())
		switch {
		case !ok:
			response.Forbidden(c, "Access denied")
		case !a.HasPermission(permission):
			response.Forbidden(c, "You do not have permission to perform this action")
		default:
			c.Next()
			return
		}
		c.Abort()
	}
}
