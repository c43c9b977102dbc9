package teamvote_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitResumeEndpoint verifies /v1/sessions/resume uses the strict
// limit (5 req/min) to stop reset token guessing.
func TestRateLimitResumeEndpoint(t *testing.T) {
	baseURL, cleanup := setupTeamvoteContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := votesdk.NewSDKClient(baseURL)
	ctx := t.Context()

	for i := range 5 {
		_, err := client.Resume(ctx, "guess")
		assertAPIError(t, err, http.StatusBadRequest, votesdk.ErrorCodeInvalidToken)
		t.Logf("request %d rejected as invalid token", i+1)
	}

	_, err := client.Resume(ctx, "guess")
	assertAPIError(t, err, http.StatusTooManyRequests, votesdk.ErrorCodeRateLimited)
}

// TestRateLimitRegisterEndpoint verifies /v1/register allows a room of
// guests behind one address (moderate, 30 req/min) before limiting.
func TestRateLimitRegisterEndpoint(t *testing.T) {
	baseURL, cleanup := setupTeamvoteContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := votesdk.NewSDKClient(baseURL)
	ctx := t.Context()

	req := votesdk.RegisterRequest{Token: "guess", Name: "Mallory", Username: "mallory"}
	for range 30 {
		_, _, err := client.Register(ctx, req)
		assertAPIError(t, err, http.StatusBadRequest, votesdk.ErrorCodeInvalidToken)
	}

	_, _, err := client.Register(ctx, req)
	assertAPIError(t, err, http.StatusTooManyRequests, votesdk.ErrorCodeRateLimited)
}

// TestRateLimitCountsWrongAdminKeys verifies failed admin key checks use up
// the strict budget on /v1/tokens.
func TestRateLimitCountsWrongAdminKeys(t *testing.T) {
	baseURL, cleanup := setupTeamvoteContainerWithDefaultRateLimits(t)
	defer cleanup()

	admin := votesdk.NewSDKClient(baseURL).Admin("guess")
	ctx := t.Context()

	for range 5 {
		_, err := admin.IssueTokens(ctx, 1)
		assertAPIError(t, err, http.StatusUnauthorized, votesdk.ErrorCodeUnauthorized)
	}

	_, err := admin.IssueTokens(ctx, 1)
	assertAPIError(t, err, http.StatusTooManyRequests, votesdk.ErrorCodeRateLimited)
}

// TestRateLimitResultsEndpoint verifies results stay available under polling.
func TestRateLimitResultsEndpoint(t *testing.T) {
	baseURL, cleanup := setupTeamvoteContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := votesdk.NewSDKClient(baseURL)

	for range 50 {
		_, err := client.GetResults(t.Context())
		require.NoError(t, err)
	}
}
