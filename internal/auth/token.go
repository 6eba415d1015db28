package auth

import "strings"

const (
	// CookieName is the session cookie presented by clients.
	CookieName = "asid"

	// CookieMaxAge is the login cookie lifetime in seconds (7 days).
	CookieMaxAge = 7 * 24 * 60 * 60

	tokenSeparator = "|"
)

// ComposeToken builds the client-held token from a session ID and the
// owning user's ID.
func ComposeToken(sessionID, userID string) string {
	return sessionID + tokenSeparator + userID
}

// TokenSessionID returns the session part of a possibly malformed token.
// Revocation is lenient: anything before the first separator is treated as
// the session ID so logout can still clear a mangled cookie.
func TokenSessionID(token string) string {
	return strings.SplitN(token, tokenSeparator, 2)[0]
}

// ParseToken splits a token into its session and user components. It
// reports ok only when the token has exactly two non-empty parts; the
// parts are still untrusted until cross-checked against the session store.
func ParseToken(token string) (sessionID, userID string, ok bool) {
	parts := strings.Split(token, tokenSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
