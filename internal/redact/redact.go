// Package redact decides which names and values are sensitive and masks
// them before they reach a log line or a report.
package redact

import (
	"fmt"
	"log/slog"
	"strings"
)

// Mask replaces a value that is too short to partially reveal.
const Mask = "********"

// SecretKeyPatterns contains substrings that mark a key or variable name as
// sensitive. Matching is case-insensitive.
var SecretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"PRIVATE",
	"SESSION",
}

// TokenPrefixes contains credential prefixes that mark a value as sensitive
// regardless of its key.
var TokenPrefixes = []string{
	"AKIA",  // AWS long-term access key
	"ASIA",  // AWS temporary access key
	"ghp_",  // GitHub personal access token
	"gho_",  // GitHub OAuth token
	"ghs_",  // GitHub server-to-server token
	"sk-",   // API secret keys
	"xoxb-", // Slack bot token
	"xoxp-", // Slack user token
}

// ShouldMask reports whether the name suggests the value is sensitive.
func ShouldMask(name string) bool {
	upper := strings.ToUpper(name)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix reports whether the value starts with a known
// credential prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// MaskValue masks a sensitive value. Values of eight characters or fewer
// are replaced entirely; longer ones keep their last four characters.
func MaskValue(value string) string {
	if len(value) <= 8 {
		return Mask
	}
	return "****" + value[len(value)-4:]
}

// Value returns v, masked if the key or the value itself looks sensitive.
func Value(key string, v any) any {
	if ShouldMask(key) {
		return MaskValue(fmt.Sprint(v))
	}
	if s, ok := v.(string); ok && ContainsTokenPrefix(s) {
		return MaskValue(s)
	}
	return v
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook that masks
// sensitive attributes. Group attributes are left to slog's recursion.
func ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		return a
	}
	masked := Value(a.Key, a.Value.Any())
	if s, ok := masked.(string); ok && s != a.Value.String() {
		return slog.String(a.Key, s)
	}
	return a
}
