package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	teamhttp "github.com/aussiebroadwan/teamvote/internal/teamvote/http"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store/drivers/sqlite"
	"github.com/aussiebroadwan/teamvote/pkg/cryptox"
	"github.com/aussiebroadwan/teamvote/pkg/httpx"
	"github.com/aussiebroadwan/teamvote/pkg/jwtx"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer = "teamvote-test"
	testAPIKey = "admin-secret"
)

type testServer struct {
	server *httptest.Server
	client *votesdk.SDKClient
	admin  *votesdk.AdminClient
}

// overrideRateLimits swaps the strict and moderate profiles for the test,
// plus lenient and public when all is set.
func overrideRateLimits(t *testing.T, strict, moderate httpx.RateLimitConfig, all bool) {
	t.Helper()
	saved := []httpx.RateLimitConfig{httpx.StrictLimit, httpx.ModerateLimit, httpx.LenientLimit, httpx.PublicLimit}
	t.Cleanup(func() {
		httpx.StrictLimit, httpx.ModerateLimit, httpx.LenientLimit, httpx.PublicLimit =
			saved[0], saved[1], saved[2], saved[3]
	})

	httpx.StrictLimit, httpx.ModerateLimit = strict, moderate
	if all {
		httpx.LenientLimit, httpx.PublicLimit = moderate, moderate
	}
}

// relaxRateLimits lifts every profile so one test client can make many calls
// from the same address.
func relaxRateLimits(t *testing.T) {
	t.Helper()
	open := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	overrideRateLimits(t, open, open, true)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	relaxRateLimits(t)
	return buildTestServer(t)
}

// buildTestServer wires a server with whatever rate limits are in effect.
func buildTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.FileDSN(filepath.Join(t.TempDir(), "teamvote.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	adminHash, err := cryptox.HashSecret(testAPIKey)
	require.NoError(t, err)

	router := teamhttp.NewRouter(keys, "test", st, slogx.Discard())
	router.AdminGuard = service.NewAdminGuard(adminHash)
	router.TokenService = &service.TokenService{Store: st}
	router.SessionService = &service.SessionService{
		Store:    st,
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA(keys, testIssuer),
		Issuer:   testIssuer,
		TTL:      time.Hour,
	}
	router.MembershipService = &service.MembershipService{Store: st}
	router.VotingService = &service.VotingService{Store: st}
	router.TeamService = &service.TeamService{Store: st}
	router.AdminService = &service.AdminService{Store: st}
	router.ProfileService = &service.ProfileService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	client := votesdk.NewSDKClient(srv.URL)
	return &testServer{server: srv, client: client, admin: client.Admin(testAPIKey)}
}

func (s *testServer) register(t *testing.T, username string) *votesdk.MemberSession {
	t.Helper()
	ctx := context.Background()

	issued, err := s.admin.IssueTokens(ctx, 1)
	require.NoError(t, err)
	require.Len(t, issued.Tokens, 1)

	sess, _, err := s.client.Register(ctx, votesdk.RegisterRequest{
		Token:    issued.Tokens[0].Token,
		Name:     username,
		Username: username,
	})
	require.NoError(t, err)
	return sess
}

func (s *testServer) team(t *testing.T, name string) *votesdk.TeamResponse {
	t.Helper()
	team, err := s.admin.CreateTeam(context.Background(), votesdk.CreateTeamRequest{Name: name})
	require.NoError(t, err)
	return team
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *votesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}

func TestVotingFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	red := s.team(t, "Red")
	blue := s.team(t, "Blue")

	alice := s.register(t, "alice")

	me, err := alice.JoinTeam(ctx, red.ID)
	require.NoError(t, err)
	require.True(t, me.HasJoinedTeam)
	require.Equal(t, red.ID, *me.TeamID)

	_, err = alice.Vote(ctx, red.ID)
	requireAPIError(t, err, http.StatusConflict, votesdk.ErrorCodeSelfVote)

	me, err = alice.Vote(ctx, blue.ID)
	require.NoError(t, err)
	require.True(t, me.HasVoted)
	require.Equal(t, blue.ID, *me.VoteID)

	_, err = alice.Vote(ctx, blue.ID)
	requireAPIError(t, err, http.StatusConflict, votesdk.ErrorCodeAlreadyVoted)

	results, err := s.client.GetResults(ctx)
	require.NoError(t, err)
	require.Len(t, results.Results, 2)
	require.EqualValues(t, 1, results.TotalVotes)
	for _, r := range results.Results {
		if r.TeamID == blue.ID {
			require.EqualValues(t, 1, r.Votes)
		} else {
			require.EqualValues(t, 0, r.Votes)
		}
	}

	me, err = alice.RollbackVote(ctx)
	require.NoError(t, err)
	require.False(t, me.HasVoted)

	_, err = alice.RollbackVote(ctx)
	requireAPIError(t, err, http.StatusConflict, votesdk.ErrorCodeNotVoted)

	me, err = alice.LeaveTeam(ctx)
	require.NoError(t, err)
	require.False(t, me.HasJoinedTeam)

	_, err = alice.LeaveTeam(ctx)
	requireAPIError(t, err, http.StatusConflict, votesdk.ErrorCodeNotInTeam)
}

func TestRegisterErrors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.client.Register(ctx, votesdk.RegisterRequest{Token: "nope", Name: "a", Username: "a"})
	requireAPIError(t, err, http.StatusBadRequest, votesdk.ErrorCodeInvalidToken)

	s.register(t, "alice")

	issued, err := s.admin.IssueTokens(ctx, 2)
	require.NoError(t, err)

	_, _, err = s.client.Register(ctx, votesdk.RegisterRequest{
		Token: issued.Tokens[0].Token, Name: "Alice Two", Username: "alice",
	})
	requireAPIError(t, err, http.StatusConflict, votesdk.ErrorCodeUsernameTaken)

	_, _, err = s.client.Register(ctx, votesdk.RegisterRequest{
		Token: issued.Tokens[1].Token, Name: strings.Repeat("x", service.MaxNameLength+1), Username: "bob",
	})
	requireAPIError(t, err, http.StatusUnprocessableEntity, votesdk.ErrorCodeValidationFailed)
}

func TestSessionRequired(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.client.NewMemberSession("").Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, votesdk.ErrorCodeUnauthenticated)

	_, err = s.client.NewMemberSession("not-a-jwt").Vote(ctx, "team")
	requireAPIError(t, err, http.StatusUnauthorized, votesdk.ErrorCodeUnauthenticated)
}

func TestRegisterSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	issued, err := s.admin.IssueTokens(ctx, 1)
	require.NoError(t, err)

	body := `{"token":"` + issued.Tokens[0].Token + `","name":"Carol","username":"carol"}`
	resp, err := http.Post(s.server.URL+"/v1/register", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == teamhttp.DefaultSessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	require.True(t, session.HttpOnly)
	require.NotEmpty(t, session.Value)

	// The cookie alone authenticates.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.server.URL+"/v1/me", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	me, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer me.Body.Close()
	require.Equal(t, http.StatusOK, me.StatusCode)

	// Deleting the profile clears it.
	req, err = http.NewRequestWithContext(ctx, http.MethodDelete, s.server.URL+"/v1/me", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer del.Body.Close()
	require.Equal(t, http.StatusNoContent, del.StatusCode)

	cleared := false
	for _, c := range del.Cookies() {
		if c.Name == teamhttp.DefaultSessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared)
}

func TestResumeSession(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	issued, err := s.admin.IssueTokens(ctx, 1)
	require.NoError(t, err)
	token := issued.Tokens[0].Token

	_, member, err := s.client.Register(ctx, votesdk.RegisterRequest{Token: token, Name: "Dan", Username: "dan"})
	require.NoError(t, err)

	resumed, err := s.client.Resume(ctx, token)
	require.NoError(t, err)

	me, err := resumed.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, member.ID, me.ID)

	_, err = s.client.Resume(ctx, "unknown")
	requireAPIError(t, err, http.StatusBadRequest, votesdk.ErrorCodeInvalidToken)
}

func TestAdminAuthentication(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.client.Admin("wrong").IssueTokens(ctx, 1)
	requireAPIError(t, err, http.StatusUnauthorized, votesdk.ErrorCodeUnauthorized)

	_, err = s.client.Admin("").CreateTeam(ctx, votesdk.CreateTeamRequest{Name: "Red"})
	requireAPIError(t, err, http.StatusUnauthorized, votesdk.ErrorCodeUnauthorized)
}

func TestIssueTokensBody(t *testing.T) {
	s := newTestServer(t)

	post := func(body string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, s.server.URL+"/v1/tokens", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set(votesdk.AdminAPIKeyHeader, testAPIKey)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	require.Equal(t, http.StatusCreated, post("").StatusCode)

	// An empty chunked body has no Content-Length.
	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/v1/tokens", io.NopCloser(strings.NewReader("")))
	require.NoError(t, err)
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	req.Header.Set(votesdk.AdminAPIKeyHeader, testAPIKey)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, http.StatusCreated, post(`{"count":3}`).StatusCode)
	require.Equal(t, http.StatusBadRequest, post(`{"count":`).StatusCode)
	require.Equal(t, http.StatusUnprocessableEntity, post(`{"count":101}`).StatusCode)

	issued, err := s.admin.IssueTokens(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, issued.Tokens, 4)
}

func TestTeamsEndpoints(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	red := s.team(t, "Red")
	blue := s.team(t, "Blue")

	_, err := s.admin.CreateTeam(ctx, votesdk.CreateTeamRequest{Name: "Red"})
	requireAPIError(t, err, http.StatusUnprocessableEntity, votesdk.ErrorCodeValidationFailed)

	avatar := "https://example.com/blue.png"
	updated, err := s.admin.UpdateTeam(ctx, blue.ID, votesdk.UpdateTeamRequest{Avatar: &avatar})
	require.NoError(t, err)
	require.Equal(t, avatar, *updated.Avatar)

	teams, err := s.client.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams.Teams, 2)
	require.Equal(t, "Blue", teams.Teams[0].Name)

	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	_, err = alice.JoinTeam(ctx, red.ID)
	require.NoError(t, err)
	_, err = bob.JoinTeam(ctx, red.ID)
	require.NoError(t, err)
	_, err = alice.Vote(ctx, blue.ID)
	require.NoError(t, err)

	roster, err := s.client.GetTeamMembers(ctx, red.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob"}, roster.Members)

	_, err = s.client.GetTeamMembers(ctx, "missing")
	requireAPIError(t, err, http.StatusNotFound, votesdk.ErrorCodeNotFound)

	deleted, err := s.admin.DeleteTeam(ctx, blue.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted.DroppedVotes)
	require.EqualValues(t, 0, deleted.DetachedMembers)

	me, err := alice.Me(ctx)
	require.NoError(t, err)
	require.False(t, me.HasVoted)

	_, err = alice.Vote(ctx, blue.ID)
	requireAPIError(t, err, http.StatusNotFound, votesdk.ErrorCodeNotFound)
}

func TestAdminMembers(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	red := s.team(t, "Red")

	created, err := s.admin.CreateMember(ctx, votesdk.CreateMemberRequest{
		Name:     "Eve",
		Username: "eve",
		Token:    "eve-reset-token-0123456789",
		TeamID:   &red.ID,
	})
	require.NoError(t, err)
	require.True(t, created.HasJoinedTeam)

	got, err := s.admin.GetMember(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "eve", got.Username)

	eve, err := s.client.Resume(ctx, "eve-reset-token-0123456789")
	require.NoError(t, err)

	rotated := "eve-rotated-token-0123456789"
	_, err = s.admin.UpdateMember(ctx, created.ID, votesdk.UpdateMemberRequest{Token: &rotated})
	require.NoError(t, err)

	// A new token ends existing sessions.
	_, err = eve.Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, votesdk.ErrorCodeUnauthenticated)

	list, err := s.admin.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, list.Members, 1)

	require.NoError(t, s.admin.DeleteMember(ctx, created.ID))
	_, err = s.admin.GetMember(ctx, created.ID)
	requireAPIError(t, err, http.StatusNotFound, votesdk.ErrorCodeNotFound)
}

func TestProfileUpdate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	alice := s.register(t, "alice")

	me, err := alice.UpdateName(ctx, "Alice Liddell")
	require.NoError(t, err)
	require.Equal(t, "Alice Liddell", me.Name)
	require.Equal(t, "alice", me.Username)

	_, err = alice.UpdateName(ctx, "   ")
	requireAPIError(t, err, http.StatusUnprocessableEntity, votesdk.ErrorCodeValidationFailed)

	require.NoError(t, alice.DeleteProfile(ctx))
	_, err = alice.Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, votesdk.ErrorCodeUnauthenticated)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	live, err := s.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)

	jwks, err := s.client.GetJWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "test-key", jwks.Keys[0].Kid)
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/livez", nil)
	require.NoError(t, err)
	req.Header.Set(slogx.RequestIDHeader, "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "req-123", resp.Header.Get(slogx.RequestIDHeader))
}

func TestWrongAdminKeysAreRateLimited(t *testing.T) {
	tight := httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}
	overrideRateLimits(t, tight, tight, false)
	s := buildTestServer(t)

	statuses := func(method, path string) map[int]int {
		seen := map[int]int{}
		for range 6 {
			req, err := http.NewRequest(method, s.server.URL+path, nil)
			require.NoError(t, err)
			req.Header.Set(votesdk.AdminAPIKeyHeader, "guess")
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()
			seen[resp.StatusCode]++
		}
		return seen
	}

	require.Equal(t, map[int]int{http.StatusUnauthorized: 3, http.StatusTooManyRequests: 3},
		statuses(http.MethodPost, "/v1/tokens"))
	require.Equal(t, map[int]int{http.StatusUnauthorized: 3, http.StatusTooManyRequests: 3},
		statuses(http.MethodGet, "/v1/admin/members"))
}

func TestRegisterToleratesSharedAddress(t *testing.T) {
	strict := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	moderate := httpx.RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
	overrideRateLimits(t, strict, moderate, true)
	s := buildTestServer(t)
	ctx := context.Background()

	// One admin call fits the strict budget.
	issued, err := s.admin.IssueTokens(ctx, 5)
	require.NoError(t, err)

	for i, tok := range issued.Tokens {
		_, _, err := s.client.Register(ctx, votesdk.RegisterRequest{
			Token:    tok.Token,
			Name:     "guest",
			Username: "guest" + string(rune('a'+i)),
		})
		require.NoError(t, err)
	}
}
