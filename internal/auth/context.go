package auth

import "context"

// ctxKey is unexported so only this package can write the subject id.
type ctxKey struct{}

// WithSubjectID returns a context carrying the authenticated account id.
func WithSubjectID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// SubjectID retrieves the authenticated account id from the request
// context. The second return is false when the auth gate did not run.
func SubjectID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
