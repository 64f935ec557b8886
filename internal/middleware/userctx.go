package middleware

import "context"

type userKey struct{}

// UserCtx is the authenticated caller attached to the request context.
type UserCtx struct {
	UserID int64
	Scopes []string
}

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) (UserCtx, bool) {
	u, ok := ctx.Value(userKey{}).(UserCtx)
	return u, ok
}
