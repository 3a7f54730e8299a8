package ctxutil

import "context"

type ctxKey string

const (
	actorKey     ctxKey = "actor"
	roleKey      ctxKey = "role"
	requestIDKey ctxKey = "request_id"
)

// RoleAdmin is the role that unlocks administrative endpoints.
const RoleAdmin = "admin"

// WithActor stores the acting identity (token subject) in the context.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromCtx extracts the actor from the context.
// Returns "" and false if the value is missing or empty.
func ActorFromCtx(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey).(string)
	if !ok || actor == "" {
		return "", false
	}
	return actor, true
}

// WithRole stores the actor's role in the context.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// RoleFromCtx extracts the role from the context. Returns "" if absent.
func RoleFromCtx(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

// IsAdminCtx reports whether the context actor carries the admin role.
func IsAdminCtx(ctx context.Context) bool {
	return RoleFromCtx(ctx) == RoleAdmin
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
