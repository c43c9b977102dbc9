package httpx

import (
	"net/http"
	"strings"
)

// BearerToken returns the token from "Authorization: Bearer <token>", or "".
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(authz[len(prefix):])
}

// CredentialFromRequest prefers a bearer token and falls back to the named cookie.
func CredentialFromRequest(r *http.Request, cookieName string) string {
	if tok := BearerToken(r); tok != "" {
		return tok
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
