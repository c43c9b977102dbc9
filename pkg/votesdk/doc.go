/*
Package votesdk provides a client SDK for the teamvote service.

# Overview

SDKClient calls the public endpoints (teams, results, health) and creates
the two authenticated clients:

  - MemberSession: endpoints scoped to one registered member (profile, team
    membership, voting). Authenticated with a session credential.
  - AdminClient: administrator overrides and registration token issuance.
    Authenticated with the shared admin API key.

	client := votesdk.NewSDKClient("http://localhost:8080")
	admin := client.Admin(os.Getenv("TEAMVOTE_ADMIN_API_KEY"))

	issued, err := admin.IssueTokens(ctx, 1)
	session, member, err := client.Register(ctx, votesdk.RegisterRequest{
		Token:    issued.Tokens[0].Token,
		Name:     "Alice",
		Username: "alice",
	})

	_, err = session.JoinTeam(ctx, teamA)
	_, err = session.Vote(ctx, teamB)

The registration token doubles as the member's reset token: Resume exchanges
it for a new session.

# Errors

Every non-2xx response becomes an *APIError carrying the HTTP status and the
error code from the body. Use IsCode to branch on a code:

	if votesdk.IsCode(err, votesdk.ErrorCodeSelfVote) {
		// members cannot vote for their own team
	}
*/
package votesdk
