package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
)

// ProfileService covers the changes a member may make to their own record.
type ProfileService struct {
	Store store.Store
}

func (s *ProfileService) UpdateName(ctx context.Context, memberID, name string) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	name, err := validateName(name)
	if err != nil {
		return domain.Member{}, err
	}

	var out domain.Member
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Members().UpdateMemberName(ctx, memberID, name); err != nil {
			return memberWriteError(err)
		}
		out, err = tx.Members().GetMemberByID(ctx, memberID)
		return err
	})
	if err != nil {
		return domain.Member{}, failed(log, "failed to update profile", err)
	}

	log.Info("profile updated", slog.String("member_id", memberID))
	return out, nil
}

// Delete removes the member. A cast vote is withdrawn with it.
func (s *ProfileService) Delete(ctx context.Context, memberID string) error {
	log := slogx.FromContext(ctx)

	var removed domain.Member
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		removed, err = removeMember(ctx, tx, memberID)
		return err
	})
	if err != nil {
		return failed(log, "failed to delete profile", err)
	}

	log.Info("profile deleted",
		slog.String("member_id", memberID),
		slog.Bool("had_voted", removed.HasVoted()),
	)
	return nil
}
