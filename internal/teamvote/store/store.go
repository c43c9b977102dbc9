package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a conditional write that matched no rows because a
	// concurrent writer changed the row first.
	ErrConflict = errors.New("store: conflicting update")
)

// Unique violations, distinguishable by column.
var (
	ErrUsernameExists  = fmt.Errorf("%w: username", ErrAlreadyExists)
	ErrTokenHashExists = fmt.Errorf("%w: token", ErrAlreadyExists)
	ErrTeamNameExists  = fmt.Errorf("%w: team name", ErrAlreadyExists)
)

// Store is the root data access interface. Sub-repositories are exposed as
// methods so a transaction-scoped Store can hand out the same repos bound to
// the transaction.
type Store interface {
	Members() Members
	Teams() Teams
	RegistrationTokens() RegistrationTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction. A non-nil error from fn rolls the
	// transaction back; otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Members interface {
	GetMemberByID(ctx context.Context, id string) (domain.Member, error)
	GetMemberByUsername(ctx context.Context, username string) (domain.Member, error)

	// GetMemberByTokenHash resolves a reset token fingerprint to its member.
	GetMemberByTokenHash(ctx context.Context, hash string) (domain.Member, error)

	// ListMembers returns all members ordered by creation.
	ListMembers(ctx context.Context) ([]domain.Member, error)

	// ListMembersByTeam returns the members whose team_id is teamID, ordered by name.
	ListMembersByTeam(ctx context.Context, teamID string) ([]domain.Member, error)

	// CreateMember inserts a member. Returns ErrUsernameExists or
	// ErrTokenHashExists on unique violations.
	CreateMember(ctx context.Context, m domain.Member) error

	UpdateMemberName(ctx context.Context, id, name string) error
	UpdateMemberUsername(ctx context.Context, id, username string) error

	// UpdateMemberCredential replaces the reset token fingerprint and the
	// credential id embedded in sessions.
	UpdateMemberCredential(ctx context.Context, id, tokenHash, credentialID string) error

	// SetMemberTeam sets or clears (nil) team_id.
	SetMemberTeam(ctx context.Context, id string, teamID *string) error

	// SetMemberVote sets or clears (nil) vote_id. Callers keep teams.vote_count
	// in step within the same transaction.
	SetMemberVote(ctx context.Context, id string, teamID *string) error

	// DetachTeam clears team_id on every member of teamID.
	DetachTeam(ctx context.Context, teamID string) (int64, error)

	// DropVotesFor clears vote_id on every member voting for teamID.
	DropVotesFor(ctx context.Context, teamID string) (int64, error)

	DeleteMember(ctx context.Context, id string) error

	// CountVotesByTeam recomputes tallies from members.vote_id.
	CountVotesByTeam(ctx context.Context) (map[string]int64, error)
}

type Teams interface {
	GetTeamByID(ctx context.Context, id string) (domain.Team, error)
	GetTeamByName(ctx context.Context, name string) (domain.Team, error)

	// ListTeams returns all teams ordered by name.
	ListTeams(ctx context.Context) ([]domain.Team, error)

	// ListTallies returns every team with its maintained vote_count, ordered
	// by team id.
	ListTallies(ctx context.Context) ([]domain.TeamTally, error)

	// CreateTeam inserts a team. Returns ErrTeamNameExists on a name clash.
	CreateTeam(ctx context.Context, t domain.Team) error

	// UpdateTeam writes name and avatar. Returns ErrTeamNameExists on a name clash.
	UpdateTeam(ctx context.Context, t domain.Team) error

	DeleteTeam(ctx context.Context, id string) error

	// AdjustVoteCount adds delta to vote_count.
	AdjustVoteCount(ctx context.Context, id string, delta int64) error

	// SetVoteCount overwrites vote_count; used when repairing drift.
	SetVoteCount(ctx context.Context, id string, count int64) error
}

type RegistrationTokens interface {
	// CreateRegistrationToken stores a token fingerprint.
	CreateRegistrationToken(ctx context.Context, t domain.RegistrationToken) error

	GetRegistrationTokenByHash(ctx context.Context, hash string) (domain.RegistrationToken, error)

	// MarkRegistrationTokenRedeemed flips an unredeemed token to redeemed.
	// Returns ErrConflict if the token was already redeemed.
	MarkRegistrationTokenRedeemed(ctx context.Context, id, memberID string, at time.Time) error

	// DeleteExpiredRegistrationTokens removes unredeemed tokens past their expiry.
	DeleteExpiredRegistrationTokens(ctx context.Context, now time.Time) (int64, error)
}
