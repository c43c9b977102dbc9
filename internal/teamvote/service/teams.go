package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
	"github.com/aussiebroadwan/teamvote/pkg/idx"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
)

type TeamService struct {
	Store store.Store
}

// TeamPatch holds optional team changes. An empty Avatar clears it.
type TeamPatch struct {
	Name   *string
	Avatar *string
}

// TeamDeletion reports what a team delete cascaded to.
type TeamDeletion struct {
	DetachedMembers int64
	DroppedVotes    int64
}

func (s *TeamService) Create(ctx context.Context, name string, avatar *string) (domain.Team, error) {
	log := slogx.FromContext(ctx)

	name, err := validateTeamName(name)
	if err != nil {
		return domain.Team{}, err
	}
	avatar, err = validateAvatar(avatar)
	if err != nil {
		return domain.Team{}, err
	}

	var out domain.Team
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := ensureTeamNameFree(ctx, tx.Teams(), name, ""); err != nil {
			return err
		}

		team := domain.Team{ID: idx.New().String(), Name: name, Avatar: avatar}
		if err := tx.Teams().CreateTeam(ctx, team); err != nil {
			return teamWriteError(err)
		}

		out, err = tx.Teams().GetTeamByID(ctx, team.ID)
		return err
	})
	if err != nil {
		return domain.Team{}, failed(log, "failed to create team", err)
	}

	log.Info("team created", slog.String("team_id", out.ID), slog.String("name", out.Name))
	return out, nil
}

func (s *TeamService) Update(ctx context.Context, id string, patch TeamPatch) (domain.Team, error) {
	log := slogx.FromContext(ctx)

	var out domain.Team
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		team, err := loadTeam(ctx, tx.Teams(), id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			name, err := validateTeamName(*patch.Name)
			if err != nil {
				return err
			}
			if err := ensureTeamNameFree(ctx, tx.Teams(), name, team.ID); err != nil {
				return err
			}
			team.Name = name
		}
		if patch.Avatar != nil {
			avatar, err := validateAvatar(patch.Avatar)
			if err != nil {
				return err
			}
			team.Avatar = avatar
		}

		if err := tx.Teams().UpdateTeam(ctx, team); err != nil {
			return teamWriteError(err)
		}

		out, err = tx.Teams().GetTeamByID(ctx, team.ID)
		return err
	})
	if err != nil {
		return domain.Team{}, failed(log, "failed to update team", err)
	}

	log.Info("team updated", slog.String("team_id", out.ID))
	return out, nil
}

// Delete removes a team. Members that joined or voted for it are detached in
// the same transaction, so no member ever references a missing team.
func (s *TeamService) Delete(ctx context.Context, id string) (TeamDeletion, error) {
	log := slogx.FromContext(ctx)

	var res TeamDeletion
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := loadTeam(ctx, tx.Teams(), id); err != nil {
			return err
		}

		var err error
		if res.DetachedMembers, err = tx.Members().DetachTeam(ctx, id); err != nil {
			return err
		}
		if res.DroppedVotes, err = tx.Members().DropVotesFor(ctx, id); err != nil {
			return err
		}

		if err := tx.Teams().DeleteTeam(ctx, id); err != nil {
			return teamWriteError(err)
		}
		return nil
	})
	if err != nil {
		return TeamDeletion{}, failed(log, "failed to delete team", err)
	}

	log.Info("team deleted",
		slog.String("team_id", id),
		slog.Int64("detached_members", res.DetachedMembers),
		slog.Int64("dropped_votes", res.DroppedVotes),
	)
	return res, nil
}

// List returns all teams ordered by name.
func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.Store.Teams().ListTeams(ctx)
	if err != nil {
		return nil, failed(slogx.FromContext(ctx), "failed to list teams", err)
	}
	return teams, nil
}

// Members returns the team and the names of the members in it. It is a
// plain read and never takes the write lock.
func (s *TeamService) Members(ctx context.Context, id string) (domain.TeamRoster, error) {
	log := slogx.FromContext(ctx)

	team, err := loadTeam(ctx, s.Store.Teams(), id)
	if err != nil {
		return domain.TeamRoster{}, failed(log, "failed to load team", err)
	}

	members, err := s.Store.Members().ListMembersByTeam(ctx, id)
	if err != nil {
		return domain.TeamRoster{}, failed(log, "failed to list team members", err)
	}

	roster := domain.TeamRoster{Team: team, Members: make([]string, 0, len(members))}
	for _, m := range members {
		roster.Members = append(roster.Members, m.Name)
	}
	return roster, nil
}

func ensureTeamNameFree(ctx context.Context, teams store.Teams, name, exceptID string) error {
	existing, err := teams.GetTeamByName(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == exceptID:
		return nil
	default:
		return invalid("team name %q already in use", name)
	}
}

func teamWriteError(err error) error {
	switch {
	case errors.Is(err, store.ErrTeamNameExists):
		return invalid("team name already in use")
	case errors.Is(err, store.ErrNotFound):
		return ErrTeamNotFound
	default:
		return err
	}
}
