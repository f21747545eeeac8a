package user

import "context"

type contextKey string

const authContextKey contextKey = "authContext"

// AuthContext carries the authenticated caller through the request context.
// Role comes from the verified token claim, not a fresh database read.
type AuthContext struct {
	User *User
	Role Role
}

// WithAuthContext attaches the authenticated caller to the context.
func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// AuthFromContext returns the authenticated caller, or nil for anonymous
// requests.
func AuthFromContext(ctx context.Context) *AuthContext {
	ac, _ := ctx.Value(authContextKey).(*AuthContext)
	return ac
}
