package domain

import "time"

// RegistrationToken is a single-use credential minted by an administrator.
// Only the fingerprint of the opaque token is stored.
type RegistrationToken struct {
	ID         string
	TokenHash  string
	CreatedBy  string
	ExpiresAt  *time.Time // nil means valid until redeemed
	RedeemedAt *time.Time
	RedeemedBy string
	CreatedAt  time.Time
}

func (t RegistrationToken) Redeemed() bool { return t.RedeemedAt != nil }

func (t RegistrationToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// IssuedToken is returned to the issuing administrator exactly once.
type IssuedToken struct {
	ID        string
	Token     string
	ExpiresAt *time.Time
}
