package teamvote_test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
	"github.com/stretchr/testify/require"
)

// TestVotingLifecycle walks one member through joining, voting, rolling
// back and leaving.
func TestVotingLifecycle(t *testing.T) {
	baseURL, cleanup := setupTeamvoteContainer(t)
	defer cleanup()

	client := votesdk.NewSDKClient(baseURL)
	ctx := t.Context()

	red := createTeam(t, client, "Red")
	blue := createTeam(t, client, "Blue")
	alice, _, _ := registerMember(t, client, "alice")

	me, err := alice.JoinTeam(ctx, red.ID)
	require.NoError(t, err)
	require.True(t, me.HasJoinedTeam)

	_, err = alice.JoinTeam(ctx, blue.ID)
	assertAPIError(t, err, http.StatusConflict, votesdk.ErrorCodeAlreadyInTeam)

	_, err = alice.Vote(ctx, red.ID)
	assertAPIError(t, err, http.StatusConflict, votesdk.ErrorCodeSelfVote)

	me, err = alice.Vote(ctx, blue.ID)
	require.NoError(t, err)
	require.True(t, me.HasVoted)
	require.EqualValues(t, 1, votesFor(t, client, blue.ID))
	require.EqualValues(t, 0, votesFor(t, client, red.ID))

	_, err = alice.Vote(ctx, blue.ID)
	assertAPIError(t, err, http.StatusConflict, votesdk.ErrorCodeAlreadyVoted)

	// Leaving keeps the vote, so joining the voted team is refused.
	_, err = alice.LeaveTeam(ctx)
	require.NoError(t, err)
	_, err = alice.JoinTeam(ctx, blue.ID)
	assertAPIError(t, err, http.StatusConflict, votesdk.ErrorCodeSelfVote)

	me, err = alice.RollbackVote(ctx)
	require.NoError(t, err)
	require.False(t, me.HasVoted)
	require.EqualValues(t, 0, votesFor(t, client, blue.ID))

	_, err = alice.RollbackVote(ctx)
	assertAPIError(t, err, http.StatusConflict, votesdk.ErrorCodeNotVoted)

	_, err = alice.JoinTeam(ctx, blue.ID)
	require.NoError(t, err)

	roster, err := client.GetTeamMembers(ctx, blue.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, roster.Members)
}

// TestConcurrentVotesKeepTalliesExact votes from many members at once and
// checks the tally matches the number of voters.
func TestConcurrentVotesKeepTalliesExact(t *testing.T) {
	baseURL, cleanup := setupTeamvoteContainer(t)
	defer cleanup()

	client := votesdk.NewSDKClient(baseURL)
	ctx := t.Context()

	red := createTeam(t, client, "Red")
	blue := createTeam(t, client, "Blue")

	const voters = 16
	sessions := make([]*votesdk.MemberSession, voters)
	for i := range voters {
		sessions[i], _, _ = registerMember(t, client, "voter"+string(rune('a'+i)))
		_, err := sessions[i].JoinTeam(ctx, red.ID)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for _, s := range sessions {
		wg.Add(1)
		go func(s *votesdk.MemberSession) {
			defer wg.Done()
			if _, err := s.Vote(ctx, blue.ID); err != nil {
				errs <- err
			}
		}(s)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	results, err := client.GetResults(ctx)
	require.NoError(t, err)
	require.EqualValues(t, voters, results.TotalVotes)
	require.EqualValues(t, voters, votesFor(t, client, blue.ID))
}

// TestResultsIncludeEveryTeam checks teams without votes are listed.
func TestResultsIncludeEveryTeam(t *testing.T) {
	baseURL, cleanup := setupTeamvoteContainer(t)
	defer cleanup()

	client := votesdk.NewSDKClient(baseURL)

	for _, name := range []string{"Red", "Green", "Blue"} {
		createTeam(t, client, name)
	}

	results, err := client.GetResults(t.Context())
	require.NoError(t, err)
	require.Len(t, results.Results, 3)
	require.Zero(t, results.TotalVotes)
	for i := 1; i < len(results.Results); i++ {
		require.Less(t, results.Results[i-1].TeamID, results.Results[i].TeamID, "results ordered by team id")
	}
}
