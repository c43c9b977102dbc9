package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
)

func loadMember(ctx context.Context, members store.Members, id string) (domain.Member, error) {
	m, err := members.GetMemberByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Member{}, ErrMemberNotFound
	}
	return m, err
}

func loadTeam(ctx context.Context, teams store.Teams, id string) (domain.Team, error) {
	t, err := teams.GetTeamByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Team{}, ErrTeamNotFound
	}
	return t, err
}

// ensureUsernameFree fails with ErrUsernameTaken when another member (not
// exceptID) holds username. The UNIQUE index still backs this check.
func ensureUsernameFree(ctx context.Context, members store.Members, username, exceptID string) error {
	existing, err := members.GetMemberByUsername(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == exceptID:
		return nil
	default:
		return ErrUsernameTaken
	}
}

func memberWriteError(err error) error {
	switch {
	case errors.Is(err, store.ErrUsernameExists):
		return ErrUsernameTaken
	case errors.Is(err, store.ErrTokenHashExists):
		return invalid("token already in use")
	case errors.Is(err, store.ErrNotFound):
		return ErrMemberNotFound
	default:
		return err
	}
}

// removeMember deletes a member inside tx, releasing its vote first so the
// voted team's tally stays exact.
func removeMember(ctx context.Context, tx store.Tx, id string) (domain.Member, error) {
	m, err := loadMember(ctx, tx.Members(), id)
	if err != nil {
		return domain.Member{}, err
	}
	if m.VoteID != nil {
		if err := tx.Teams().AdjustVoteCount(ctx, *m.VoteID, -1); err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.Member{}, err
		}
	}
	if err := tx.Members().DeleteMember(ctx, id); err != nil {
		return domain.Member{}, memberWriteError(err)
	}
	return m, nil
}
