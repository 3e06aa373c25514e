package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-engine/internal/config"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/response"
)

// Till front ends run on localhost during development.
var defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// CORSMiddleware allows browser tills to call the API. The idempotency key
// header is always allowed because capture and refund requests carry it.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(corsConfig(cfg))
}

func corsConfig(cfg *config.CORSConfig) cors.Config {
	out := cors.Config{
		AllowOrigins:     orDefault(cfg.AllowedOrigins, defaultOrigins),
		AllowMethods:     orDefault(cfg.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		AllowHeaders:     orDefault(cfg.AllowedHeaders, []string{"Accept", "Authorization", "Content-Type", "Origin", response.RequestIDHeader}),
		ExposeHeaders:    []string{"Content-Length", "Content-Type", response.RequestIDHeader, response.ReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if !slices.Contains(out.AllowHeaders, IdempotencyKeyHeader) {
		out.AllowHeaders = append(slices.Clone(out.AllowHeaders), IdempotencyKeyHeader)
	}
	return out
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}
