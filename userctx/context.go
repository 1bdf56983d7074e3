package userctx

import "context"

// Context key type
type contextKey string

const displayNameKey contextKey = "user_display_name"
const actorIDKey contextKey = "actor_id"

// SetDisplayName adds the user's display name to request context
func SetDisplayName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, displayNameKey, name)
}

// GetDisplayName retrieves the user's display name from request context
func GetDisplayName(ctx context.Context) string {
	name, ok := ctx.Value(displayNameKey).(string)
	if !ok {
		return "anonymous"
	}
	return name
}

// SetActorID adds the acting user's id to request context
func SetActorID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, actorIDKey, id)
}

// GetActorID retrieves the acting user's id from request context
func GetActorID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(actorIDKey).(int64)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
