package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/actor"
	"github.com/sangkips/pos-engine/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		want     int
		database string
	}{
		{"no database", nil, http.StatusOK, "ok"},
		{"database up", stubPinger{}, http.StatusOK, "ok"},
		{"database down", stubPinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthHandler("pos-engine", tt.db).Health)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.want, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "pos-engine", body["service"])
			assert.Equal(t, tt.database, body["database"])
		})
	}
}

func TestOperatorID(t *testing.T) {
	userID := uuid.New()
	explicit := uuid.New()

	tests := []struct {
		name      string
		actor     *actor.Actor
		requested *uuid.UUID
		want      uuid.UUID
		ok        bool
	}{
		{"explicit cashier", &actor.Actor{UserID: userID}, &explicit, explicit, true},
		{"falls back to actor", &actor.Actor{UserID: userID}, nil, userID, true},
		{"nil id falls back", &actor.Actor{UserID: userID}, &uuid.Nil, userID, true},
		{"anonymous", nil, nil, uuid.Nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.actor != nil {
				c.Request = c.Request.WithContext(actor.WithActor(c.Request.Context(), *tt.actor))
			}

			got, ok := operatorID(c, tt.requested)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if !ok {
				assert.Equal(t, http.StatusUnauthorized, w.Code)
			}
		})
	}
}

func TestFailMapsErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperror.NewInvalidError("bad quantity"), http.StatusUnprocessableEntity},
		{apperror.NewConflictError("cart is not active"), http.StatusConflict},
		{apperror.NewNotFoundError("sale cart"), http.StatusNotFound},
		{apperror.NewForbiddenError("outside window"), http.StatusForbidden},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			fail(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
			require.Len(t, c.Errors, 1)
		})
	}
}
