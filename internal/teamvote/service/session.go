package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
	"github.com/aussiebroadwan/teamvote/pkg/cryptox"
	"github.com/aussiebroadwan/teamvote/pkg/idx"
	"github.com/aussiebroadwan/teamvote/pkg/jwtx"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
)

// SessionService turns registration and reset tokens into signed session
// credentials and resolves credentials back to members.
type SessionService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration
}

// Redeem registers a new member with a registration token. The token becomes
// the member's reset token.
func (s *SessionService) Redeem(
	ctx context.Context,
	token string,
	name string,
	username string,
) (domain.Member, domain.Session, error) {
	log := slogx.FromContext(ctx)

	// 1. Reject malformed tokens before touching the store.
	token, ok := validateSecretToken(token)
	if !ok {
		log.Warn("redeem with malformed token")
		return domain.Member{}, domain.Session{}, ErrInvalidToken
	}

	fingerprint := cryptox.FingerprintToken(token)
	now := time.Now().UTC()

	// 2. Create the member and consume the token atomically. The token is
	// checked before the fields, so an unusable token always reads as
	// ErrInvalidToken.
	var member domain.Member
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RegistrationTokens().GetRegistrationTokenByHash(ctx, fingerprint)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		if rt.Redeemed() || rt.Expired(now) {
			return ErrInvalidToken
		}

		if name, err = validateName(name); err != nil {
			return err
		}
		if username, err = validateUsername(username); err != nil {
			return err
		}

		if err := ensureUsernameFree(ctx, tx.Members(), username, ""); err != nil {
			return err
		}

		member = domain.Member{
			ID:           idx.New().String(),
			Name:         name,
			Username:     username,
			TokenHash:    fingerprint,
			CredentialID: idx.New().String(),
		}
		if err := tx.Members().CreateMember(ctx, member); err != nil {
			if errors.Is(err, store.ErrTokenHashExists) {
				return ErrInvalidToken
			}
			return memberWriteError(err)
		}

		err = tx.RegistrationTokens().MarkRegistrationTokenRedeemed(ctx, rt.ID, member.ID, now)
		if errors.Is(err, store.ErrConflict) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}

		member, err = tx.Members().GetMemberByID(ctx, member.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrUsernameTaken) {
			log.Warn("registration rejected",
				slog.String("username", username),
				slog.Any("reason", err),
			)
		}
		return domain.Member{}, domain.Session{}, failed(log, "failed to register member", err)
	}

	// 3. Sign the session outside the transaction.
	session, err := s.issue(member)
	if err != nil {
		log.Error("failed to sign session", slog.String("member_id", member.ID), slog.Any("error", err))
		return domain.Member{}, domain.Session{}, err
	}

	log.Info("member registered",
		slog.String("member_id", member.ID),
		slog.String("username", member.Username),
	)
	return member, session, nil
}

// Resume issues a fresh session for the member holding resetToken.
func (s *SessionService) Resume(ctx context.Context, resetToken string) (domain.Session, error) {
	log := slogx.FromContext(ctx)

	resetToken, ok := validateSecretToken(resetToken)
	if !ok {
		return domain.Session{}, ErrInvalidToken
	}

	member, err := s.Store.Members().GetMemberByTokenHash(ctx, cryptox.FingerprintToken(resetToken))
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("resume with unknown token")
		return domain.Session{}, ErrInvalidToken
	}
	if err != nil {
		return domain.Session{}, failed(log, "failed to look up member by token", err)
	}

	session, err := s.issue(member)
	if err != nil {
		log.Error("failed to sign session", slog.String("member_id", member.ID), slog.Any("error", err))
		return domain.Session{}, err
	}

	log.Info("session resumed", slog.String("member_id", member.ID))
	return session, nil
}

// CurrentMember resolves a session credential. Any failure, including a
// credential issued before the member's token was rotated, is
// ErrUnauthenticated.
func (s *SessionService) CurrentMember(ctx context.Context, credential string) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	if credential == "" {
		return domain.Member{}, ErrUnauthenticated
	}

	claims, err := s.Verifier.Verify(credential)
	if err != nil {
		log.Debug("session rejected", slog.Any("reason", err))
		return domain.Member{}, ErrUnauthenticated
	}

	member, err := s.Store.Members().GetMemberByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Member{}, ErrUnauthenticated
	}
	if err != nil {
		return domain.Member{}, failed(log, "failed to load session member", err)
	}

	if !cryptox.EqualFingerprints(claims.SID, member.CredentialID) {
		log.Debug("session credential rotated", slog.String("member_id", member.ID))
		return domain.Member{}, ErrUnauthenticated
	}

	return member, nil
}

func (s *SessionService) issue(m domain.Member) (domain.Session, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	claims := jwtx.NewSessionClaims(m.ID, m.CredentialID, m.Username, s.Issuer, ttl, time.Now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.Session{}, fmt.Errorf("sign session: %w", err)
	}

	return domain.Session{
		Token:     token,
		MemberID:  m.ID,
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}
