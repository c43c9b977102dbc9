package service

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxNameLength     = 20
	MaxUsernameLength = 30
	MaxTeamNameLength = 32
	MaxAvatarLength   = 2048

	maxTokenLength = 256
)

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		return "", invalid("name must be 1-%d characters", MaxNameLength)
	}
	return name, nil
}

func validateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n == 0 || n > MaxUsernameLength {
		return "", invalid("username must be 1-%d characters", MaxUsernameLength)
	}
	if strings.ContainsFunc(username, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) {
		return "", invalid("username must not contain whitespace")
	}
	return username, nil
}

func validateTeamName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxTeamNameLength {
		return "", invalid("team name must be 1-%d characters", MaxTeamNameLength)
	}
	return name, nil
}

// validateAvatar returns nil for an empty avatar.
func validateAvatar(avatar *string) (*string, error) {
	if avatar == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*avatar)
	if v == "" {
		return nil, nil
	}
	if len(v) > MaxAvatarLength {
		return nil, invalid("avatar must be at most %d bytes", MaxAvatarLength)
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, invalid("avatar must be an http(s) URL")
	}
	return &v, nil
}

// validateSecretToken checks a registration or reset token supplied by a
// caller. The token itself is never stored.
func validateSecretToken(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" || len(token) > maxTokenLength {
		return "", false
	}
	return token, true
}
