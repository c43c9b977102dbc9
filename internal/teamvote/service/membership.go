package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
)

// MembershipService keeps each member in at most one team.
type MembershipService struct {
	Store store.Store
}

// Join puts the member in teamID. A member must leave before joining another
// team, and cannot join the team they currently vote for.
func (s *MembershipService) Join(ctx context.Context, memberID, teamID string) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	var out domain.Member
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, err := loadMember(ctx, tx.Members(), memberID)
		if err != nil {
			return err
		}

		// 1. Team must exist.
		if _, err := loadTeam(ctx, tx.Teams(), teamID); err != nil {
			return err
		}

		// 2. No implicit team switch.
		if m.HasJoinedTeam() {
			return ErrAlreadyInTeam
		}

		// 3. Joining the voted-for team would make the vote a self-vote.
		if m.VotedFor(teamID) {
			return ErrSelfVote
		}

		if err := tx.Members().SetMemberTeam(ctx, m.ID, &teamID); err != nil {
			return err
		}

		out, err = tx.Members().GetMemberByID(ctx, m.ID)
		return err
	})
	if err != nil {
		if !errors.Is(classify(err), ErrUnavailable) {
			log.Warn("join rejected",
				slog.String("member_id", memberID),
				slog.String("team_id", teamID),
				slog.Any("reason", err),
			)
		}
		return domain.Member{}, failed(log, "failed to join team", err)
	}

	log.Info("member joined team",
		slog.String("member_id", memberID),
		slog.String("team_id", teamID),
	)
	return out, nil
}

// Leave removes the member from their team. An existing vote is kept.
func (s *MembershipService) Leave(ctx context.Context, memberID string) (domain.Member, error) {
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
		if !m.HasJoinedTeam() {
			return ErrNotInTeam
		}
		teamID = *m.TeamID

		if err := tx.Members().SetMemberTeam(ctx, m.ID, nil); err != nil {
			return err
		}

		out, err = tx.Members().GetMemberByID(ctx, m.ID)
		return err
	})
	if err != nil {
		return domain.Member{}, failed(log, "failed to leave team", err)
	}

	log.Info("member left team",
		slog.String("member_id", memberID),
		slog.String("team_id", teamID),
	)
	return out, nil
}
