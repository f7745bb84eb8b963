package utils

import (
	"html"
	"regexp"
	"strings"
)

// Input sanitization utilities shared by handlers.

var tagRe = regexp.MustCompile(`<[^>]*>`)

// SanitizeHTML escapes HTML entities to prevent XSS
// Use this for any user-generated content that will be displayed
func SanitizeHTML(input string) string {
	return html.EscapeString(input)
}

// StripHTML removes all HTML tags from a string
// More aggressive than SanitizeHTML - removes tags entirely
func StripHTML(input string) string {
	return tagRe.ReplaceAllString(input, "")
}

// TruncateString safely truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a url-safe slug, truncated to 80 chars.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return TruncateString(s, 80)
}

// ValidateName checks a display name: 2-60 characters, no angle brackets.
func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 60 {
		return false
	}
	return !strings.ContainsAny(name, "<>")
}
