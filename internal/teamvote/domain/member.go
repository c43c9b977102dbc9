package domain

import "time"

// Member is a registered participant. TeamID and VoteID are nil when the
// member has not joined a team or has not voted.
type Member struct {
	ID           string
	Name         string
	Username     string
	TokenHash    string // fingerprint of the member's reset token
	CredentialID string // rotated whenever the reset token changes
	TeamID       *string
	VoteID       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (m Member) HasJoinedTeam() bool { return m.TeamID != nil }
func (m Member) HasVoted() bool      { return m.VoteID != nil }

// InTeam reports whether the member belongs to teamID.
func (m Member) InTeam(teamID string) bool {
	return m.TeamID != nil && *m.TeamID == teamID
}

// VotedFor reports whether the member's vote is for teamID.
func (m Member) VotedFor(teamID string) bool {
	return m.VoteID != nil && *m.VoteID == teamID
}
