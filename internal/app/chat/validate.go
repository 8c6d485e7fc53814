package chat

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// identityPattern matches the shape of identity-provider UIDs. The token is
// opaque; nothing beyond shape and length is ever interpreted.
var identityPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	minIdentityLen = 20
	maxIdentityLen = 128
	maxMessageLen  = 5000
)

// ValidIdentity reports whether token looks like a well-formed user ID:
// 20-128 chars of [A-Za-z0-9_-].
func ValidIdentity(token string) bool {
	if len(token) < minIdentityLen || len(token) > maxIdentityLen {
		return false
	}
	return identityPattern.MatchString(token)
}

// ValidMessage reports whether text is non-empty after trimming and at most
// 5000 characters raw.
func ValidMessage(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return utf8.RuneCountInString(text) <= maxMessageLen
}
