package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
	"github.com/aussiebroadwan/teamvote/pkg/cryptox"
	"github.com/aussiebroadwan/teamvote/pkg/idx"
	"github.com/aussiebroadwan/teamvote/pkg/slogx"
)

// AdminGuard checks the shared administrator credential against an argon2id
// hash. An empty hash disables every admin operation.
type AdminGuard struct {
	hash string

	mu       sync.RWMutex
	verified map[string]struct{} // fingerprints of credentials that matched
}

func NewAdminGuard(hash string) *AdminGuard {
	return &AdminGuard{
		hash:     hash,
		verified: make(map[string]struct{}),
	}
}

// Enabled reports whether an admin credential is configured.
func (g *AdminGuard) Enabled() bool { return g.hash != "" }

func (g *AdminGuard) Authorize(ctx context.Context, credential string) error {
	if g.hash == "" || credential == "" {
		return ErrUnauthorized
	}

	fp := cryptox.FingerprintToken(credential)
	g.mu.RLock()
	_, ok := g.verified[fp]
	g.mu.RUnlock()
	if ok {
		return nil
	}

	if err := cryptox.VerifySecret(credential, g.hash); err != nil {
		slogx.FromContext(ctx).Warn("admin credential rejected", slog.Any("reason", err))
		return ErrUnauthorized
	}

	g.mu.Lock()
	g.verified[fp] = struct{}{}
	g.mu.Unlock()
	return nil
}

// AdminService applies administrator overrides to members. Every change still
// goes through the same invariants as the member-facing paths.
type AdminService struct {
	Store store.Store
}

type NewMember struct {
	Name     string
	Username string
	Token    string // becomes the member's reset token
	TeamID   *string
}

// MemberPatch holds optional member changes. A new Token rotates the
// member's credential and ends existing sessions.
type MemberPatch struct {
	Name     *string
	Username *string
	Token    *string
}

func (s *AdminService) CreateMember(ctx context.Context, in NewMember) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate fields.
	name, err := validateName(in.Name)
	if err != nil {
		return domain.Member{}, err
	}
	username, err := validateUsername(in.Username)
	if err != nil {
		return domain.Member{}, err
	}
	token, ok := validateSecretToken(in.Token)
	if !ok {
		return domain.Member{}, invalid("token must be 1-%d bytes", maxTokenLength)
	}

	// 2. Insert, enforcing username uniqueness and the team reference.
	var out domain.Member
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := ensureUsernameFree(ctx, tx.Members(), username, ""); err != nil {
			return err
		}
		if in.TeamID != nil {
			if _, err := loadTeam(ctx, tx.Teams(), *in.TeamID); err != nil {
				return err
			}
		}

		m := domain.Member{
			ID:           idx.New().String(),
			Name:         name,
			Username:     username,
			TokenHash:    cryptox.FingerprintToken(token),
			CredentialID: idx.New().String(),
			TeamID:       in.TeamID,
		}
		if err := tx.Members().CreateMember(ctx, m); err != nil {
			return memberWriteError(err)
		}

		out, err = tx.Members().GetMemberByID(ctx, m.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			log.Warn("admin create rejected: username taken", slog.String("username", username))
		}
		return domain.Member{}, failed(log, "failed to create member", err)
	}

	log.Info("member created by admin",
		slog.String("member_id", out.ID),
		slog.String("username", out.Username),
	)
	return out, nil
}

func (s *AdminService) UpdateMember(ctx context.Context, id string, patch MemberPatch) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	var out domain.Member
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, err := loadMember(ctx, tx.Members(), id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			name, err := validateName(*patch.Name)
			if err != nil {
				return err
			}
			if err := tx.Members().UpdateMemberName(ctx, m.ID, name); err != nil {
				return memberWriteError(err)
			}
		}

		if patch.Username != nil {
			username, err := validateUsername(*patch.Username)
			if err != nil {
				return err
			}
			if err := ensureUsernameFree(ctx, tx.Members(), username, m.ID); err != nil {
				return err
			}
			if err := tx.Members().UpdateMemberUsername(ctx, m.ID, username); err != nil {
				return memberWriteError(err)
			}
		}

		if patch.Token != nil {
			token, ok := validateSecretToken(*patch.Token)
			if !ok {
				return invalid("token must be 1-%d bytes", maxTokenLength)
			}
			err := tx.Members().UpdateMemberCredential(ctx, m.ID, cryptox.FingerprintToken(token), idx.New().String())
			if err != nil {
				return memberWriteError(err)
			}
		}

		out, err = tx.Members().GetMemberByID(ctx, m.ID)
		return err
	})
	if err != nil {
		return domain.Member{}, failed(log, "failed to update member", err)
	}

	log.Info("member updated by admin",
		slog.String("member_id", id),
		slog.Bool("token_rotated", patch.Token != nil),
	)
	return out, nil
}

func (s *AdminService) DeleteMember(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := removeMember(ctx, tx, id)
		return err
	})
	if err != nil {
		return failed(log, "failed to delete member", err)
	}

	log.Info("member deleted by admin", slog.String("member_id", id))
	return nil
}

func (s *AdminService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	members, err := s.Store.Members().ListMembers(ctx)
	if err != nil {
		return nil, failed(slogx.FromContext(ctx), "failed to list members", err)
	}
	return members, nil
}

func (s *AdminService) GetMember(ctx context.Context, id string) (domain.Member, error) {
	m, err := loadMember(ctx, s.Store.Members(), id)
	if err != nil {
		return domain.Member{}, failed(slogx.FromContext(ctx), "failed to load member", err)
	}
	return m, nil
}
