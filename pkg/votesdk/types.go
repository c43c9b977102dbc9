package votesdk

import (
	"time"

	"github.com/aussiebroadwan/teamvote/pkg/jwtx"
)

// ============================================================================
// Errors
// ============================================================================

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Members & Sessions
// ============================================================================

// MemberResponse is the public view of a member.
type MemberResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	TeamID        *string   `json:"team_id"`
	VoteID        *string   `json:"vote_id"`
	HasJoinedTeam bool      `json:"has_joined_team"`
	HasVoted      bool      `json:"has_voted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SessionResponse carries a session credential. Present it as
// "Authorization: Bearer {token}" or via the session cookie.
type SessionResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	MemberID  string    `json:"member_id"`
}

type RegisterRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type RegisterResponse struct {
	Member  MemberResponse  `json:"member"`
	Session SessionResponse `json:"session"`
}

type ResumeRequest struct {
	Token string `json:"token"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// TeamRef selects a team for join and vote.
type TeamRef struct {
	TeamID string `json:"team_id"`
}

// ============================================================================
// Teams & Results
// ============================================================================

type TeamResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListTeamsResponse struct {
	Teams []TeamResponse `json:"teams"`
}

type TeamMembersResponse struct {
	Team    TeamResponse `json:"team"`
	Members []string     `json:"members"`
}

type TeamResult struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
	Votes  int64  `json:"votes"`
}

// ResultsResponse lists every team ordered by id. Clients sort for display.
type ResultsResponse struct {
	Results    []TeamResult `json:"results"`
	TotalVotes int64        `json:"total_votes"`
}

// ============================================================================
// Admin
// ============================================================================

type IssueTokensRequest struct {
	Count int `json:"count"`
}

type IssuedToken struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type IssueTokensResponse struct {
	Tokens []IssuedToken `json:"tokens"`
}

type CreateTeamRequest struct {
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

// UpdateTeamRequest changes only the fields that are set. An empty avatar
// clears it.
type UpdateTeamRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

type DeleteTeamResponse struct {
	DetachedMembers int64 `json:"detached_members"`
	DroppedVotes    int64 `json:"dropped_votes"`
}

type CreateMemberRequest struct {
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Token    string  `json:"token"`
	TeamID   *string `json:"team_id,omitempty"`
}

// UpdateMemberRequest changes only the fields that are set. A new token
// ends the member's existing sessions.
type UpdateMemberRequest struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Token    *string `json:"token,omitempty"`
}

type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// ============================================================================
// Health & Keys
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse publishes the session signing key.
type JWKSResponse jwtx.JWKS
