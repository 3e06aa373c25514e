package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-engine/internal/application/service"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"

	idempotencyKeyContextKey = "idempotency_key"
)

// IdempotencyRequired rejects requests without a usable Idempotency-Key.
// The normalized key is handed to the handler, which runs the operation
// through the idempotency service and reports replays with
// response.Replayable.
func IdempotencyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := service.NormalizeIdempotencyKey(c.GetHeader(IdempotencyKeyHeader))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(idempotencyKeyContextKey, key)
		c.Next()
	}
}

// IdempotencyKey returns the key accepted by IdempotencyRequired
func IdempotencyKey(c *gin.Context) string {
	return c.GetString(idempotencyKeyContextKey)
}
