package teamvote_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for teamvote end-to-end tests.
 * This includes container setup, registration and assertions.
 */

const (
	testImageName = "teamvote-test:latest"

	adminAPIKey = "test-admin-key-12345"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Teamvote Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Teamvote Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/teamvote/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

func baseEnv() map[string]string {
	return map[string]string{
		"TEAMVOTE_ADMIN_API_KEY":    adminAPIKey,
		"TEAMVOTE_DATABASE_FILE":    "/data/teamvote.db",
		"TEAMVOTE_PEPPER_FILE":      "/data/pepper",
		"TEAMVOTE_SESSION_KEY_FILE": "/data/session.pem",
		"TEAMVOTE_ISSUER":           "teamvote-e2e",
		"ENV":                       "test",
		"LOG_LEVEL":                 "info",
		"LOG_FORMAT":                "json",
	}
}

// setupTeamvoteContainer starts the service with relaxed rate limits and
// returns the base URL.
func setupTeamvoteContainer(t *testing.T) (string, func()) {
	t.Helper()

	env := baseEnv()
	// Tests make many rapid requests from one address
	env["RATELIMIT_STRICT_REQUESTS"] = "1000"
	env["RATELIMIT_STRICT_WINDOW_SEC"] = "60"
	env["RATELIMIT_STRICT_BURST"] = "1000"
	env["RATELIMIT_MODERATE_REQUESTS"] = "1000"
	env["RATELIMIT_MODERATE_BURST"] = "1000"

	return startContainer(t, env)
}

// setupTeamvoteContainerWithDefaultRateLimits starts the service with the
// production rate limits, for tests that exercise them.
func setupTeamvoteContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	return startContainer(t, baseEnv())
}

func startContainer(t *testing.T, env map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// registerMember issues a registration token and redeems it. Returns the
// session, the member and the reset token.
func registerMember(t *testing.T, client *votesdk.SDKClient, username string) (*votesdk.MemberSession, *votesdk.MemberResponse, string) {
	t.Helper()
	ctx := context.Background()

	issued, err := client.Admin(adminAPIKey).IssueTokens(ctx, 1)
	require.NoError(t, err, "Issuing a registration token should succeed")
	require.Len(t, issued.Tokens, 1)

	token := issued.Tokens[0].Token
	session, member, err := client.Register(ctx, votesdk.RegisterRequest{
		Token:    token,
		Name:     username,
		Username: username,
	})
	require.NoError(t, err, "Registration should succeed")
	require.Equal(t, username, member.Username)

	return session, member, token
}

func createTeam(t *testing.T, client *votesdk.SDKClient, name string) *votesdk.TeamResponse {
	t.Helper()
	team, err := client.Admin(adminAPIKey).CreateTeam(context.Background(), votesdk.CreateTeamRequest{Name: name})
	require.NoError(t, err, "Creating team %s should succeed", name)
	return team
}

// votesFor returns the tally for teamID from the public results.
func votesFor(t *testing.T, client *votesdk.SDKClient, teamID string) int64 {
	t.Helper()
	results, err := client.GetResults(context.Background())
	require.NoError(t, err)
	for _, r := range results.Results {
		if r.TeamID == teamID {
			return r.Votes
		}
	}
	t.Fatalf("team %s missing from results", teamID)
	return 0
}

// assertAPIError checks err is an APIError with the given status and code.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *votesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, "unexpected status: %v", err)
	require.Equal(t, code, apiErr.Code)
}

func assertHealthy(t *testing.T, health *votesdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
