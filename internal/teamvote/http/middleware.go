package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

type memberCtxKey struct{}

// AdminSubject is the rate-limit subject for admin requests.
const AdminSubject = "admin"

func withMember(ctx context.Context, m domain.Member) context.Context {
	return context.WithValue(ctx, memberCtxKey{}, m)
}

// memberFromContext returns the member resolved by RequireSession.
func memberFromContext(ctx context.Context) (domain.Member, bool) {
	m, ok := ctx.Value(memberCtxKey{}).(domain.Member)
	return m, ok
}

// RequireSession resolves the session credential (bearer token or cookie)
// to a member and rejects the request otherwise.
func RequireSession(sessions *service.SessionService, cookieName string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			member, err := sessions.CurrentMember(ctx, httpx.CredentialFromRequest(r, cookieName))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx = withMember(ctx, member)
			ctx = httpx.WithSubject(ctx, member.ID)
			ctx = slogx.With(ctx, "member_id", member.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks the X-API-Key header against the admin guard.
func RequireAdmin(guard *service.AdminGuard) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if err := guard.Authorize(ctx, r.Header.Get(votesdk.AdminAPIKeyHeader)); err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx = httpx.WithSubject(ctx, AdminSubject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentMember is used by handlers behind RequireSession.
func currentMember(w http.ResponseWriter, r *http.Request) (domain.Member, bool) {
	m, ok := memberFromContext(r.Context())
	if !ok {
		writeServiceError(w, r, service.ErrUnauthenticated)
	}
	return m, ok
}
