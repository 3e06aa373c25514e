package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-engine/internal/domain/actor"
	"github.com/sangkips/pos-engine/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-engine/pkg/utils"
)

// GetUserID extracts the authenticated user ID from the request context
func GetUserID(c *gin.Context) *uuid.UUID {
	return actor.UserID(c.Request.Context())
}

// parseIDParam reads a UUID path parameter, answering 400 when malformed
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// operatorID returns the cashier named in the request, falling back to the
// authenticated user
func operatorID(c *gin.Context, requested *uuid.UUID) (uuid.UUID, bool) {
	if requested != nil && *requested != uuid.Nil {
		return *requested, true
	}
	if userID := GetUserID(c); userID != nil {
		return *userID, true
	}
	response.Unauthorized(c, "User not authenticated")
	return uuid.Nil, false
}

// fail records err for the access log and answers with its mapped status
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	response.Error(c, err)
}
