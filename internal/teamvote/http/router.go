package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/jwtx"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"

	_ "github.com/aussiebroadwan/teamvote/api/teamvote" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Cookie            SessionCookie
	AdminGuard        *service.AdminGuard
	TokenService      *service.TokenService
	SessionService    *service.SessionService
	MembershipService *service.MembershipService
	VotingService     *service.VotingService
	TeamService       *service.TeamService
	AdminService      *service.AdminService
	ProfileService    *service.ProfileService
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerTokens()
	r.registerSessions()
	r.registerProfile()
	r.registerMembership()
	r.registerVoting()
	r.registerTeams()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Teamvote API
//	@version		0.1.0
//	@description	Team membership and voting service. Members join one team and cast at most one vote for another team.
//	@description
//	@description	Session credentials are EdDSA-signed JWTs, verifiable with the JWKS endpoint.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/teamvote
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Member session credential. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
//	@description				Shared administrator API key.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) session() httpx.Middleware {
	return RequireSession(r.SessionService, r.Cookie.name())
}

func (r *Router) registerTokens() {
	h := &IssueTokensHandler{TokenService: r.TokenService}

	// Admin only. The limiter runs before the argon2id key check so wrong
	// keys are counted too.
	r.Mux.Handle("POST /v1/tokens",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
			RequireAdmin(r.AdminGuard),
		),
	)
}

func (r *Router) registerSessions() {
	register := &RegisterHandler{SessionService: r.SessionService, Cookie: r.Cookie}
	resume := &ResumeHandler{SessionService: r.SessionService, Cookie: r.Cookie}

	// Registration tokens carry 256 bits, so guessing is not the concern; a
	// room of people behind one NAT redeeming printed tokens is.
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(register,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/sessions/resume",
		httpx.Chain(resume,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerProfile() {
	h := &MeHandler{ProfileService: r.ProfileService, Cookie: r.Cookie}

	r.Mux.Handle("GET /v1/me",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.session(),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/me",
		httpx.Chain(http.HandlerFunc(h.HandlePatch),
			r.session(),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/me",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.session(),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMembership() {
	h := &MembershipHandler{MembershipService: r.MembershipService}

	r.Mux.Handle("POST /v1/me/team",
		httpx.Chain(http.HandlerFunc(h.HandleJoin),
			r.session(),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/me/team",
		httpx.Chain(http.HandlerFunc(h.HandleLeave),
			r.session(),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerVoting() {
	h := &VotingHandler{VotingService: r.VotingService}

	r.Mux.Handle("POST /v1/me/vote",
		httpx.Chain(http.HandlerFunc(h.HandleVote),
			r.session(),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/me/vote",
		httpx.Chain(http.HandlerFunc(h.HandleRollback),
			r.session(),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	// Results are polled by scoreboards
	r.Mux.Handle("GET /v1/results",
		httpx.Chain(http.HandlerFunc(h.HandleResults),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerTeams() {
	h := &TeamsHandler{TeamService: r.TeamService}

	r.Mux.Handle("GET /v1/teams",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /v1/teams/{id}/members",
		httpx.Chain(http.HandlerFunc(h.HandleMembers),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	teams := &TeamsHandler{TeamService: r.TeamService}
	members := &AdminMembersHandler{AdminService: r.AdminService}

	admin := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h,
			httpx.RateLimitByIP(httpx.ModerateLimit),
			RequireAdmin(r.AdminGuard),
		)
	}

	r.Mux.Handle("POST /v1/admin/teams", admin(teams.HandleCreate))
	r.Mux.Handle("PATCH /v1/admin/teams/{id}", admin(teams.HandleUpdate))
	r.Mux.Handle("DELETE /v1/admin/teams/{id}", admin(teams.HandleDelete))

	r.Mux.Handle("GET /v1/admin/members", admin(members.HandleList))
	r.Mux.Handle("POST /v1/admin/members", admin(members.HandleCreate))
	r.Mux.Handle("GET /v1/admin/members/{id}", admin(members.HandleGet))
	r.Mux.Handle("PATCH /v1/admin/members/{id}", admin(members.HandleUpdate))
	r.Mux.Handle("DELETE /v1/admin/members/{id}", admin(members.HandleDelete))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
