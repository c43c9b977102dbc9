package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/teamvote/pkg/cryptox"
	"github.com/aussiebroadwan/teamvote/pkg/jwtx"
)

// SessionKeys is the signing key for session credentials together with the
// key set that publishes and verifies it.
type SessionKeys struct {
	Signer *jwtx.EdDSASigner
	KeySet *jwtx.KeySet
}

// InitSessionKeys loads the Ed25519 session key.
//
// With TEAMVOTE_SESSION_KEY_FILE set the key is read from that file, or
// generated and written there on first start, so sessions survive restarts.
// Without it a key is generated in memory and every session ends when the
// process stops.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*SessionKeys, error) {
	var (
		pemKey []byte
		err    error
	)
	if cfg.SessionKeyFile != "" {
		pemKey, err = cryptox.LoadOrCreateEd25519Key(cfg.SessionKeyFile)
	} else {
		pemKey, err = cryptox.GenerateEd25519Key()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session key: %w", err)
	}

	kid, err := cryptox.Ed25519KeyID(pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive session key id: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create session signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("failed to publish session key: %w", err)
	}

	if cfg.SessionKeyFile != "" {
		logger.Info("session signing key loaded", "kid", kid, "path", cfg.SessionKeyFile)
	} else {
		logger.Warn("session signing key is ephemeral, sessions end on restart", "kid", kid)
	}

	return &SessionKeys{Signer: signer, KeySet: keys}, nil
}

// AdminCredentialHash resolves the argon2id hash the admin guard checks
// against. The pepper must already be loaded. An empty result disables the
// admin endpoints.
func AdminCredentialHash(cfg Config, logger *slog.Logger) (string, error) {
	switch {
	case cfg.AdminAPIKeyHash != "":
		if !cryptox.IsArgon2idHash(cfg.AdminAPIKeyHash) {
			return "", fmt.Errorf("TEAMVOTE_ADMIN_API_KEY_HASH is not an argon2id hash")
		}
		if cfg.AdminAPIKey != "" {
			logger.Warn("both admin key and admin key hash set, using the hash")
		}
		return cfg.AdminAPIKeyHash, nil

	case cfg.AdminAPIKey != "":
		hash, err := cryptox.HashSecret(cfg.AdminAPIKey)
		if err != nil {
			return "", fmt.Errorf("failed to hash admin key: %w", err)
		}
		return hash, nil

	default:
		logger.Warn("no admin key configured, admin endpoints are disabled")
		return "", nil
	}
}
