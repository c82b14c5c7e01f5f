// Package sanitize provides text sanitization utilities for provider and
// user supplied strings.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// keyParamRegex matches a key query parameter in a URL or error string
	keyParamRegex = regexp.MustCompile(`([?&]key=)[^&\s"]*`)
)

const redacted = "REDACTED"

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text sanitizes a provider string for terminal display.
func Text(s string) string {
	return StripHTML(s)
}

// Redact removes every occurrence of secret from s, along with any
// key=... query parameter. Use it on anything that may echo an upstream URL
// before it is logged or returned to a client.
func Redact(s, secret string) string {
	if secret != "" {
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return keyParamRegex.ReplaceAllString(s, "${1}"+redacted)
}
