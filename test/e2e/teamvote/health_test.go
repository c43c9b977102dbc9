package teamvote_test

import (
	"testing"

	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupTeamvoteContainer(t)
	defer cleanup()

	client := votesdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
	require.NotEmpty(t, health.Version)
}

func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupTeamvoteContainer(t)
	defer cleanup()

	client := votesdk.NewSDKClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
}

func TestJWKSEndpoint(t *testing.T) {
	baseURL, cleanup := setupTeamvoteContainer(t)
	defer cleanup()

	client := votesdk.NewSDKClient(baseURL)

	jwks, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1, "One session key should be published")

	key := jwks.Keys[0]
	require.Equal(t, "OKP", key.Kty)
	require.Equal(t, "EdDSA", key.Alg)
	t.Logf("Session key id: %s", key.Kid)
}
