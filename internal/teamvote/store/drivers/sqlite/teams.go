package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
)

const teamColumns = `id, name, avatar, vote_count, created_at, updated_at`

type teamsRepo struct {
	db dbtx
}

func scanTeam(row rowScanner) (domain.Team, error) {
	var (
		t      domain.Team
		avatar sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Name, &avatar, &t.VoteCount, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Team{}, err
	}
	t.Avatar = mapNullStringPtr(avatar)
	return t, nil
}

func (r *teamsRepo) GetTeamByID(ctx context.Context, id string) (domain.Team, error) {
	t, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id))
	if err != nil {
		return domain.Team{}, mapNotFound(err)
	}
	return t, nil
}

func (r *teamsRepo) GetTeamByName(ctx context.Context, name string) (domain.Team, error) {
	t, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE name = ?`, name))
	if err != nil {
		return domain.Team{}, mapNotFound(err)
	}
	return t, nil
}

func (r *teamsRepo) ListTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *teamsRepo) ListTallies(ctx context.Context) ([]domain.TeamTally, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, vote_count FROM teams ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.TeamTally{}
	for rows.Next() {
		var t domain.TeamTally
		if err := rows.Scan(&t.TeamID, &t.Name, &t.Votes); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *teamsRepo) CreateTeam(ctx context.Context, t domain.Team) error {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (`+teamColumns+`) VALUES (?, ?, ?, 0, ?, ?)`,
		t.ID, t.Name, mapOptionalString(t.Avatar), ts, ts,
	)
	return mapConstraint(err)
}

func (r *teamsRepo) UpdateTeam(ctx context.Context, t domain.Team) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE teams SET name = ?, avatar = ?, updated_at = ? WHERE id = ?`,
		t.Name, mapOptionalString(t.Avatar), now(), t.ID,
	)
	return requireAffected(res, mapConstraint(err))
}

func (r *teamsRepo) DeleteTeam(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id))
}

func (r *teamsRepo) AdjustVoteCount(ctx context.Context, id string, delta int64) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE teams SET vote_count = vote_count + ? WHERE id = ?`,
		delta, id,
	))
}

func (r *teamsRepo) SetVoteCount(ctx context.Context, id string, count int64) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE teams SET vote_count = ? WHERE id = ?`,
		count, id,
	))
}
