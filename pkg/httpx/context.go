package httpx

import (
	"context"
	"net/http"
)

type ctxKey string

// CtxKeySubject holds the authenticated principal (a member id or "admin")
// for rate limiting and logging.
const CtxKeySubject ctxKey = "subject"

func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, CtxKeySubject, subject)
}

func SubjectFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeySubject).(string); ok {
		return v
	}
	return ""
}

// SubjectFromRequest is SubjectFromContext for a request.
func SubjectFromRequest(r *http.Request) string {
	return SubjectFromContext(r.Context())
}
