// Package actor carries the authenticated operator and request correlation
// through context.Context.
package actor

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const (
	PermissionProcessSales   = "process-sales"
	PermissionManagePayments = "manage-payments"
	PermissionProcessReturns = "process-returns"
	// PermissionConfigurationManage lets a manager override store policies
	// such as the return window.
	PermissionConfigurationManage = "manage-configuration"
)

// UnknownUsername is recorded when no authenticated actor is present.
const UnknownUsername = "unknown"

type ctxKey string

const (
	actorKey         ctxKey = "actor"
	correlationIDKey ctxKey = "correlation_id"
)

// Actor is the user on whose behalf a request runs
type Actor struct {
	UserID      uuid.UUID
	Username    string
	Permissions []string
}

// HasPermission reports whether the actor was granted permission
func (a Actor) HasPermission(permission string) bool {
	for _, p := range a.Permissions {
		if strings.EqualFold(p, permission) {
			return true
		}
	}
	return false
}

// WithActor stores the actor in ctx
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// FromContext returns the actor stored in ctx
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}

// Username returns the actor's username or UnknownUsername
func Username(ctx context.Context) string {
	if a, ok := FromContext(ctx); ok && strings.TrimSpace(a.Username) != "" {
		return a.Username
	}
	return UnknownUsername
}

// UserID returns the actor's id when one is known
func UserID(ctx context.Context) *uuid.UUID {
	if a, ok := FromContext(ctx); ok && a.UserID != uuid.Nil {
		id := a.UserID
		return &id
	}
	return nil
}

// HasPermission checks the permission on the actor stored in ctx
func HasPermission(ctx context.Context, permission string) bool {
	a, ok := FromContext(ctx)
	return ok && a.HasPermission(permission)
}

// WithCorrelationID stores the request correlation id in ctx
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the correlation id from ctx, or "" when absent
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// CorrelationIDPtr is CorrelationID with "" mapped to nil, for nullable columns
func CorrelationIDPtr(ctx context.Context) *string {
	if id := CorrelationID(ctx); id != "" {
		return &id
	}
	return nil
}
