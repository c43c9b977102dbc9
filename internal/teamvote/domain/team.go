package domain

import "time"

type Team struct {
	ID        string
	Name      string
	Avatar    *string
	VoteCount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamTally is one row of the voting results.
type TeamTally struct {
	TeamID string
	Name   string
	Votes  int64
}

// TeamRoster is a team together with the names of its members.
type TeamRoster struct {
	Team    Team
	Members []string
}
