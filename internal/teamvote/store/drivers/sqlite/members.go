package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
)

const memberColumns = `id, name, username, token_hash, credential_id, team_id, vote_id, created_at, updated_at`

type membersRepo struct {
	db dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (domain.Member, error) {
	var (
		m      domain.Member
		teamID sql.NullString
		voteID sql.NullString
	)
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Username,
		&m.TokenHash,
		&m.CredentialID,
		&teamID,
		&voteID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return domain.Member{}, err
	}
	m.TeamID = mapNullStringPtr(teamID)
	m.VoteID = mapNullStringPtr(voteID)
	return m, nil
}

func (r *membersRepo) getOne(ctx context.Context, where string, arg any) (domain.Member, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE `+where, arg)
	m, err := scanMember(row)
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membersRepo) list(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membersRepo) GetMemberByID(ctx context.Context, id string) (domain.Member, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *membersRepo) GetMemberByUsername(ctx context.Context, username string) (domain.Member, error) {
	return r.getOne(ctx, `username = ?`, username)
}

func (r *membersRepo) GetMemberByTokenHash(ctx context.Context, hash string) (domain.Member, error) {
	return r.getOne(ctx, `token_hash = ?`, hash)
}

func (r *membersRepo) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return r.list(ctx, `SELECT `+memberColumns+` FROM members ORDER BY id`)
}

func (r *membersRepo) ListMembersByTeam(ctx context.Context, teamID string) ([]domain.Member, error) {
	return r.list(ctx,
		`SELECT `+memberColumns+` FROM members WHERE team_id = ? ORDER BY name, id`,
		teamID,
	)
}

func (r *membersRepo) CreateMember(ctx context.Context, m domain.Member) error {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.Name,
		m.Username,
		m.TokenHash,
		m.CredentialID,
		mapOptionalString(m.TeamID),
		mapOptionalString(m.VoteID),
		ts,
		ts,
	)
	return mapConstraint(err)
}

func (r *membersRepo) UpdateMemberName(ctx context.Context, id, name string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE members SET name = ?, updated_at = ? WHERE id = ?`,
		name, now(), id,
	))
}

func (r *membersRepo) UpdateMemberUsername(ctx context.Context, id, username string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET username = ?, updated_at = ? WHERE id = ?`,
		username, now(), id,
	)
	return requireAffected(res, mapConstraint(err))
}

func (r *membersRepo) UpdateMemberCredential(ctx context.Context, id, tokenHash, credentialID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET token_hash = ?, credential_id = ?, updated_at = ? WHERE id = ?`,
		tokenHash, credentialID, now(), id,
	)
	return requireAffected(res, mapConstraint(err))
}

func (r *membersRepo) SetMemberTeam(ctx context.Context, id string, teamID *string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE members SET team_id = ?, updated_at = ? WHERE id = ?`,
		mapOptionalString(teamID), now(), id,
	))
}

func (r *membersRepo) SetMemberVote(ctx context.Context, id string, teamID *string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE members SET vote_id = ?, updated_at = ? WHERE id = ?`,
		mapOptionalString(teamID), now(), id,
	))
}

func (r *membersRepo) DetachTeam(ctx context.Context, teamID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET team_id = NULL, updated_at = ? WHERE team_id = ?`,
		now(), teamID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *membersRepo) DropVotesFor(ctx context.Context, teamID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET vote_id = NULL, updated_at = ? WHERE vote_id = ?`,
		now(), teamID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *membersRepo) DeleteMember(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id))
}

func (r *membersRepo) CountVotesByTeam(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT vote_id, COUNT(*) FROM members WHERE vote_id IS NOT NULL GROUP BY vote_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			teamID string
			n      int64
		)
		if err := rows.Scan(&teamID, &n); err != nil {
			return nil, err
		}
		counts[teamID] = n
	}
	return counts, rows.Err()
}
