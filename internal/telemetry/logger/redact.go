package logger

import (
	"log/slog"
	"strings"
)

// Key fragments whose non-empty values are always fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"bearer",
	"encryption_key",
}

const redactedValue = "***REDACTED***"

// redactSensitive is installed as the slog ReplaceAttr hook.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	val := a.Value.String()
	if val == "" {
		return a
	}
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, redactedValue)
	}
	if IsSensitiveValue(val) {
		return slog.String(a.Key, RedactString(val))
	}
	return a
}

// RedactString masks bearer headers and JWT-shaped values, keeping the
// first and last three characters of the credential as a hint.
func RedactString(value string) string {
	prefix := ""
	body := value
	if strings.HasPrefix(value, "Bearer ") {
		prefix = "Bearer "
		body = value[len(prefix):]
	} else if !looksLikeJWT(value) {
		return value
	}

	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue checks if a value appears to carry a credential.
func IsSensitiveValue(value string) bool {
	return strings.HasPrefix(value, "Bearer ") || looksLikeJWT(value)
}

// looksLikeJWT matches the base64url header of a JSON web token.
func looksLikeJWT(s string) bool {
	return strings.HasPrefix(s, "eyJ") && strings.Count(s, ".") == 2
}
