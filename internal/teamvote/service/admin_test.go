package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/service"
	"github.com/aussiebroadwan/teamvote/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestAdminGuard(t *testing.T) {
	ctx := context.Background()

	hash, err := cryptox.HashSecret("s3cret-admin-key")
	require.NoError(t, err)
	guard := service.NewAdminGuard(hash)
	require.True(t, guard.Enabled())

	require.NoError(t, guard.Authorize(ctx, "s3cret-admin-key"))
	require.NoError(t, guard.Authorize(ctx, "s3cret-admin-key"))
	require.ErrorIs(t, guard.Authorize(ctx, "wrong"), service.ErrUnauthorized)
	require.ErrorIs(t, guard.Authorize(ctx, ""), service.ErrUnauthorized)

	disabled := service.NewAdminGuard("")
	require.False(t, disabled.Enabled())
	require.ErrorIs(t, disabled.Authorize(ctx, "anything"), service.ErrUnauthorized)
}

func TestAdminCreateMember(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	team := h.team(t, "Admins")

	alice, err := h.admin.CreateMember(ctx, service.NewMember{
		Name:     "Alice",
		Username: "alice",
		Token:    "alice-reset-token",
		TeamID:   &team.ID,
	})
	require.NoError(t, err)
	require.True(t, alice.InTeam(team.ID))

	_, err = h.admin.CreateMember(ctx, service.NewMember{Name: "Bob", Username: "alice", Token: "bob-token"})
	require.ErrorIs(t, err, service.ErrUsernameTaken)

	_, err = h.admin.CreateMember(ctx, service.NewMember{Name: "Bob", Username: "bob", Token: "bob-token", TeamID: ptr("missing")})
	require.ErrorIs(t, err, service.ErrTeamNotFound)

	_, err = h.admin.CreateMember(ctx, service.NewMember{Name: "Bob", Username: "bob", Token: "alice-reset-token"})
	require.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = h.admin.CreateMember(ctx, service.NewMember{Name: "Bob", Username: "bob"})
	require.ErrorIs(t, err, service.ErrValidationFailed)

	// The admin-set token works as a reset token.
	sess, err := h.sessions.Resume(ctx, "alice-reset-token")
	require.NoError(t, err)
	require.Equal(t, alice.ID, sess.MemberID)
}

func TestAdminUpdateMember(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	alice, _ := h.register(t, "alice")
	bob, _ := h.register(t, "bob")

	_, err := h.admin.UpdateMember(ctx, bob.ID, service.MemberPatch{Username: ptr("alice")})
	require.ErrorIs(t, err, service.ErrUsernameTaken)

	updated, err := h.admin.UpdateMember(ctx, bob.ID, service.MemberPatch{Name: ptr("Robert"), Username: ptr("robert")})
	require.NoError(t, err)
	require.Equal(t, "Robert", updated.Name)
	require.Equal(t, "robert", updated.Username)

	// Keeping one's own username is fine.
	_, err = h.admin.UpdateMember(ctx, alice.ID, service.MemberPatch{Username: ptr("alice")})
	require.NoError(t, err)

	_, err = h.admin.UpdateMember(ctx, "missing", service.MemberPatch{Name: ptr("x")})
	require.ErrorIs(t, err, service.ErrMemberNotFound)

	got, err := h.admin.GetMember(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, "robert", got.Username)

	_, err = h.admin.GetMember(ctx, "missing")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteVotedMemberReleasesVote(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	team := h.team(t, "Voted")
	a, _ := h.register(t, "a")
	b, _ := h.register(t, "b")
	for _, id := range []string{a.ID, b.ID} {
		_, err := h.voting.Vote(ctx, id, team.ID)
		require.NoError(t, err)
	}
	require.Equal(t, int64(2), h.votesFor(t, team.ID))

	require.NoError(t, h.admin.DeleteMember(ctx, a.ID))
	require.Equal(t, int64(1), h.votesFor(t, team.ID))

	require.NoError(t, h.profile.Delete(ctx, b.ID))
	require.Equal(t, int64(0), h.votesFor(t, team.ID))

	require.ErrorIs(t, h.admin.DeleteMember(ctx, a.ID), service.ErrMemberNotFound)
	h.requireConsistent(t)
}
