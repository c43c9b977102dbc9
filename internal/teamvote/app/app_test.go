package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/teamvote/pkg/cryptox"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "teamvote.db", cfg.DatabaseFile)
	require.Equal(t, "teamvote", cfg.Issuer)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Zero(t, cfg.RegistrationTokenTTL)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.False(t, cfg.CookieSecure)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TEAMVOTE_DATABASE_FILE", "/data/votes.db")
	t.Setenv("TEAMVOTE_SESSION_TTL", "2h")
	t.Setenv("TEAMVOTE_REGISTRATION_TOKEN_TTL", "30m")
	t.Setenv("TEAMVOTE_COOKIE_SECURE", "true")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "/data/votes.db", cfg.DatabaseFile)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, 30*time.Minute, cfg.RegistrationTokenTTL)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, 9090, cfg.Port)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("TEAMVOTE_SESSION_TTL", "soon")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("zero session ttl", func(t *testing.T) {
		t.Setenv("TEAMVOTE_SESSION_TTL", "0s")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "TEAMVOTE_SESSION_TTL")
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "PORT")
	})
}

func TestInitSessionKeysPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.pem")
	cfg := Config{SessionKeyFile: path}

	first, err := InitSessionKeys(cfg, slogx.Discard())
	require.NoError(t, err)
	second, err := InitSessionKeys(cfg, slogx.Discard())
	require.NoError(t, err)

	require.Equal(t, first.Signer.KID(), second.Signer.KID())
	require.True(t, second.KeySet.IsReady())

	ephemeral, err := InitSessionKeys(Config{}, slogx.Discard())
	require.NoError(t, err)
	require.NotEqual(t, first.Signer.KID(), ephemeral.Signer.KID())
}

func TestAdminCredentialHash(t *testing.T) {
	log := slogx.Discard()

	hash, err := AdminCredentialHash(Config{}, log)
	require.NoError(t, err)
	require.Empty(t, hash)

	hash, err = AdminCredentialHash(Config{AdminAPIKey: "letmein"}, log)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifySecret("letmein", hash))

	precomputed, err := cryptox.HashSecret("other")
	require.NoError(t, err)
	hash, err = AdminCredentialHash(Config{AdminAPIKey: "letmein", AdminAPIKeyHash: precomputed}, log)
	require.NoError(t, err)
	require.Equal(t, precomputed, hash)

	_, err = AdminCredentialHash(Config{AdminAPIKeyHash: "plaintext"}, log)
	require.Error(t, err)
}

func TestApplicationServesRoutes(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		AdminAPIKey:          "admin-key",
		DatabaseFile:         filepath.Join(dir, "teamvote.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		Issuer:               "teamvote-test",
		SessionTTL:           time.Hour,
		LogLevel:             "error",
		LogFormat:            "text",
		Port:                 8080,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}

	application, err := New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	defer srv.Close()

	ctx := context.Background()
	client := votesdk.NewSDKClient(srv.URL)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, BuildVersion, ready.Version)

	team, err := client.Admin("admin-key").CreateTeam(ctx, votesdk.CreateTeamRequest{Name: "Red"})
	require.NoError(t, err)

	results, err := client.GetResults(ctx)
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	require.Equal(t, team.ID, results.Results[0].TeamID)

	require.NoError(t, application.Shutdown())
}
