// pkg/crypto/redact.go

package crypto

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Redact masks a secret for display: one asterisk per rune, capped at 16 so the
// mask does not leak much about long inputs.
func Redact(s string) string {
	if s == "" {
		return "(empty)"
	}
	n := utf8.RuneCountInString(s)
	if n > 16 {
		return strings.Repeat("*", 16) + "..."
	}
	return strings.Repeat("*", n)
}

// SecretField is a zap field that logs only the masked form and rune length of s.
// Passwords must go through this, never zap.String.
func SecretField(key, s string) zap.Field {
	return zap.Dict(key,
		zap.String("masked", Redact(s)),
		zap.Int("runes", utf8.RuneCountInString(s)),
	)
}
