package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/domain"
	"github.com/aussiebroadwan/teamvote/pkg/votesdk"
)

func toMemberResponse(m domain.Member) votesdk.MemberResponse {
	return votesdk.MemberResponse{
		ID:            m.ID,
		Name:          m.Name,
		Username:      m.Username,
		TeamID:        m.TeamID,
		VoteID:        m.VoteID,
		HasJoinedTeam: m.HasJoinedTeam(),
		HasVoted:      m.HasVoted(),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toTeamResponse(t domain.Team) votesdk.TeamResponse {
	return votesdk.TeamResponse{
		ID:        t.ID,
		Name:      t.Name,
		Avatar:    t.Avatar,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toSessionResponse(s domain.Session) votesdk.SessionResponse {
	return votesdk.SessionResponse{
		Token:     s.Token,
		TokenType: "Bearer",
		ExpiresAt: s.ExpiresAt,
		MemberID:  s.MemberID,
	}
}

// SessionCookie describes the cookie that carries the session credential
// for browser clients.
type SessionCookie struct {
	Name   string
	Secure bool
}

const DefaultSessionCookieName = "session"

func (c SessionCookie) name() string {
	if c.Name == "" {
		return DefaultSessionCookieName
	}
	return c.Name
}

func (c SessionCookie) set(w http.ResponseWriter, s domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
