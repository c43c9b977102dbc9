package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
	"github.com/aussiebroadwan/teamvote/pkg/cryptox"
	"github.com/aussiebroadwan/teamvote/pkg/idx"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
)

// MaxTokenBatch bounds how many registration tokens one call may mint.
const MaxTokenBatch = 100

type TokenService struct {
	Store store.Store

	// TTL is the lifetime of a new registration token. Zero means tokens stay
	// valid until redeemed.
	TTL time.Duration
}

// Issue mints a single registration token.
func (s *TokenService) Issue(ctx context.Context, createdBy string) (domain.IssuedToken, error) {
	tokens, err := s.IssueBatch(ctx, createdBy, 1)
	if err != nil {
		return domain.IssuedToken{}, err
	}
	return tokens[0], nil
}

// IssueBatch mints n registration tokens in one transaction. The raw tokens
// are returned here and never again.
func (s *TokenService) IssueBatch(ctx context.Context, createdBy string, n int) ([]domain.IssuedToken, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate the batch size.
	if n < 1 || n > MaxTokenBatch {
		log.Warn("rejected token batch size", slog.Int("count", n))
		return nil, invalid("count must be 1-%d", MaxTokenBatch)
	}

	var expiresAt *time.Time
	if s.TTL > 0 {
		at := time.Now().UTC().Add(s.TTL)
		expiresAt = &at
	}

	// 2. Generate tokens up front so the transaction only writes.
	issued := make([]domain.IssuedToken, 0, n)
	records := make([]domain.RegistrationToken, 0, n)
	for range n {
		raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			log.Error("failed to generate registration token", slog.Any("error", err))
			return nil, err
		}
		id := idx.New().String()
		records = append(records, domain.RegistrationToken{
			ID:        id,
			TokenHash: cryptox.FingerprintToken(raw),
			CreatedBy: createdBy,
			ExpiresAt: expiresAt,
		})
		issued = append(issued, domain.IssuedToken{ID: id, Token: raw, ExpiresAt: expiresAt})
	}

	// 3. Persist fingerprints only.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, rec := range records {
			if err := tx.RegistrationTokens().CreateRegistrationToken(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, failed(log, "failed to store registration tokens", err)
	}

	log.Info("registration tokens issued",
		slog.Int("count", n),
		slog.String("created_by", createdBy),
	)
	return issued, nil
}
