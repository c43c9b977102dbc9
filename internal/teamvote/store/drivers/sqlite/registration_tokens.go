package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
)

type registrationTokensRepo struct {
	db dbtx
}

func (r *registrationTokensRepo) CreateRegistrationToken(ctx context.Context, t domain.RegistrationToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO registration_tokens (id, token_hash, created_by, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.TokenHash, t.CreatedBy, mapOptionalTime(t.ExpiresAt), now(),
	)
	return mapConstraint(err)
}

func (r *registrationTokensRepo) GetRegistrationTokenByHash(
	ctx context.Context,
	hash string,
) (domain.RegistrationToken, error) {
	var (
		t          domain.RegistrationToken
		expiresAt  sql.NullTime
		redeemedAt sql.NullTime
		redeemedBy sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token_hash, created_by, expires_at, redeemed_at, redeemed_by, created_at
		 FROM registration_tokens WHERE token_hash = ?`,
		hash,
	).Scan(&t.ID, &t.TokenHash, &t.CreatedBy, &expiresAt, &redeemedAt, &redeemedBy, &t.CreatedAt)
	if err != nil {
		return domain.RegistrationToken{}, mapNotFound(err)
	}

	t.ExpiresAt = mapNullTimePtr(expiresAt)
	t.RedeemedAt = mapNullTimePtr(redeemedAt)
	t.RedeemedBy = mapNullString(redeemedBy)
	return t, nil
}

func (r *registrationTokensRepo) MarkRegistrationTokenRedeemed(
	ctx context.Context,
	id, memberID string,
	at time.Time,
) error {
	err := requireAffected(r.db.ExecContext(ctx,
		`UPDATE registration_tokens SET redeemed_at = ?, redeemed_by = ?
		 WHERE id = ? AND redeemed_at IS NULL`,
		at.UTC(), memberID, id,
	))
	if err == store.ErrNotFound {
		return store.ErrConflict
	}
	return err
}

func (r *registrationTokensRepo) DeleteExpiredRegistrationTokens(ctx context.Context, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM registration_tokens
		 WHERE redeemed_at IS NULL AND expires_at IS NOT NULL AND expires_at <= ?`,
		at.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
