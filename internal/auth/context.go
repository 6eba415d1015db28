package auth

import "context"

type contextKey struct{}

// AuthContext carries the authenticated identity for a request.
type AuthContext struct {
	UserID    string
	Username  string
	SessionID string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

// UserID returns the authenticated user's short ID, or "" if the request
// is unauthenticated.
func UserID(ctx context.Context) string {
	ac, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return ac.UserID
}
