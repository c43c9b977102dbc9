package domain

import "time"

// Session is a signed credential proving a member's identity.
type Session struct {
	Token     string
	MemberID  string
	ExpiresAt time.Time
}
