package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingDeletesExpiredTokens(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.tokens.TTL = time.Nanosecond
	_, err := h.tokens.IssueBatch(ctx, "admin", 3)
	require.NoError(t, err)

	h.tokens.TTL = 0
	keep := h.issue(t)
	time.Sleep(time.Millisecond)

	hk := service.NewHousekeepingService(h.store, slogx.Discard(), time.Hour)
	report := hk.RunOnce(ctx)
	require.Equal(t, int64(3), report.ExpiredTokens)
	require.Zero(t, report.RepairedTallies)

	_, _, err = h.sessions.Redeem(ctx, keep, "kept", "kept")
	require.NoError(t, err)
}

func TestHousekeepingRepairsTallyDrift(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	team := h.team(t, "Drifty")
	m, _ := h.register(t, "voter")
	_, err := h.voting.Vote(ctx, m.ID, team.ID)
	require.NoError(t, err)

	require.NoError(t, h.store.Teams().SetVoteCount(ctx, team.ID, 7))

	hk := service.NewHousekeepingService(h.store, slogx.Discard(), time.Hour)
	report := hk.RunOnce(ctx)
	require.Equal(t, 1, report.RepairedTallies)
	require.Equal(t, int64(1), h.votesFor(t, team.ID))
	h.requireConsistent(t)
}

func TestHousekeepingStartStop(t *testing.T) {
	h := newHarness(t)

	hk := service.NewHousekeepingService(h.store, slogx.Discard(), 0)
	require.Equal(t, time.Hour, hk.Interval)
	hk.Start()
	hk.Stop()
}
