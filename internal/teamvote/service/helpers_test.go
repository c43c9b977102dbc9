package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store/drivers/sqlite"
	"github.com/aussiebroadwan/teamvote/pkg/cryptox"
	"github.com/aussiebroadwan/teamvote/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "teamvote-test"

type harness struct {
	store      *sqlite.Store
	tokens     *service.TokenService
	sessions   *service.SessionService
	membership *service.MembershipService
	voting     *service.VotingService
	teams      *service.TeamService
	admin      *service.AdminService
	profile    *service.ProfileService
}

func newHarness(t *testing.T) *harness {
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

	return &harness{
		store:  st,
		tokens: &service.TokenService{Store: st},
		sessions: &service.SessionService{
			Store:    st,
			Signer:   signer,
			Verifier: jwtx.NewVerifierEdDSA(keys, testIssuer),
			Issuer:   testIssuer,
		},
		membership: &service.MembershipService{Store: st},
		voting:     &service.VotingService{Store: st},
		teams:      &service.TeamService{Store: st},
		admin:      &service.AdminService{Store: st},
		profile:    &service.ProfileService{Store: st},
	}
}

func (h *harness) issue(t *testing.T) string {
	t.Helper()
	tok, err := h.tokens.Issue(context.Background(), "admin")
	require.NoError(t, err)
	return tok.Token
}

// register redeems a fresh token and returns the member with its session.
func (h *harness) register(t *testing.T, username string) (domain.Member, domain.Session) {
	t.Helper()
	m, sess, err := h.sessions.Redeem(context.Background(), h.issue(t), username, username)
	require.NoError(t, err)
	return m, sess
}

func (h *harness) team(t *testing.T, name string) domain.Team {
	t.Helper()
	team, err := h.teams.Create(context.Background(), name, nil)
	require.NoError(t, err)
	return team
}

func (h *harness) votesFor(t *testing.T, teamID string) int64 {
	t.Helper()
	results, err := h.voting.Results(context.Background())
	require.NoError(t, err)
	for _, r := range results {
		if r.TeamID == teamID {
			return r.Votes
		}
	}
	t.Fatalf("team %s missing from results", teamID)
	return 0
}

// requireConsistent asserts that no member votes for their own team and that
// every tally matches the members voting for it.
func (h *harness) requireConsistent(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	members, err := h.admin.ListMembers(ctx)
	require.NoError(t, err)

	voted := map[string]int64{}
	for _, m := range members {
		if m.TeamID != nil && m.VoteID != nil {
			require.NotEqual(t, *m.TeamID, *m.VoteID, "member %s votes for own team", m.Username)
		}
		if m.VoteID != nil {
			voted[*m.VoteID]++
		}
	}

	results, err := h.voting.Results(ctx)
	require.NoError(t, err)
	var voters int64
	for _, n := range voted {
		voters += n
	}
	require.Equal(t, voters, service.TotalVotes(results))
	for _, r := range results {
		require.Equal(t, voted[r.TeamID], r.Votes, "tally for %s", r.Name)
	}
}

func ptr[T any](v T) *T { return &v }
