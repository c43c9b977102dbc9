package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
)

// VotingService records at most one vote per member. A member's vote_id and
// the voted team's vote_count always change in the same transaction.
type VotingService struct {
	Store store.Store
}

// Vote casts the member's vote for teamID. Checks run in the order
// not found, already voted, self vote.
func (s *VotingService) Vote(ctx context.Context, memberID, teamID string) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	var out domain.Member
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, err := loadMember(ctx, tx.Members(), memberID)
		if err != nil {
			return err
		}
		if _, err := loadTeam(ctx, tx.Teams(), teamID); err != nil {
			return err
		}
		if m.HasVoted() {
			return ErrAlreadyVoted
		}
		if m.InTeam(teamID) {
			return ErrSelfVote
		}

		if err := tx.Members().SetMemberVote(ctx, m.ID, &teamID); err != nil {
			return err
		}
		if err := tx.Teams().AdjustVoteCount(ctx, teamID, 1); err != nil {
			return err
		}

		out, err = tx.Members().GetMemberByID(ctx, m.ID)
		return err
	})
	if err != nil {
		if !errors.Is(classify(err), ErrUnavailable) {
			log.Warn("vote rejected",
				slog.String("member_id", memberID),
				slog.String("team_id", teamID),
				slog.Any("reason", err),
			)
		}
		return domain.Member{}, failed(log, "failed to cast vote", err)
	}

	log.Info("vote cast",
		slog.String("member_id", memberID),
		slog.String("team_id", teamID),
	)
	return out, nil
}

// Rollback withdraws the member's vote.
func (s *VotingService) Rollback(ctx context.Context, memberID string) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	var (
		out    domain.Member
		teamID string
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, err := loadMember(ctx, tx.Members(), memberID)
		if err != nil {
			return err
		}
		if !m.HasVoted() {
			return ErrNotVoted
		}
		teamID = *m.VoteID

		if err := tx.Teams().AdjustVoteCount(ctx, teamID, -1); err != nil {
			return err
		}
		if err := tx.Members().SetMemberVote(ctx, m.ID, nil); err != nil {
			return err
		}

		out, err = tx.Members().GetMemberByID(ctx, m.ID)
		return err
	})
	if err != nil {
		return domain.Member{}, failed(log, "failed to roll back vote", err)
	}

	log.Info("vote rolled back",
		slog.String("member_id", memberID),
		slog.String("team_id", teamID),
	)
	return out, nil
}

// Results returns every team with its tally, ordered by team id. Teams
// without votes are included with zero.
func (s *VotingService) Results(ctx context.Context) ([]domain.TeamTally, error) {
	tallies, err := s.Store.Teams().ListTallies(ctx)
	if err != nil {
		return nil, failed(slogx.FromContext(ctx), "failed to read results", err)
	}
	return tallies, nil
}

// TotalVotes sums the tallies.
func TotalVotes(tallies []domain.TeamTally) int64 {
	var total int64
	for _, t := range tallies {
		total += t.Votes
	}
	return total
}
