// Package invite implements the invitation-construction workflow: parsing
// candidate addresses from free text and CSV uploads, merging them into a
// validated batch, and deriving public invite link state.
package invite

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	delimiters   = regexp.MustCompile(`[,;\n]+`)
)

// IsValidEmail reports whether addr looks like local@domain.tld.
func IsValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// ParseEmails splits free-text input on commas, semicolons and newlines.
// Runs of mixed delimiters count as one. Empty tokens are dropped; no
// validity check is applied here.
func ParseEmails(text string) []string {
	var emails []string
	for _, token := range delimiters.Split(text, -1) {
		token = strings.TrimSpace(token)
		if token != "" {
			emails = append(emails, token)
		}
	}
	return emails
}

// ParseCSV extracts addresses from the first column of a CSV payload.
// Surrounding quote characters are stripped. Rows whose first column is not
// a valid address are dropped without error.
func ParseCSV(data string) []string {
	var emails []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		field := strings.TrimSpace(strings.SplitN(line, ",", 2)[0])
		field = trimQuotes(field)
		if IsValidEmail(field) {
			emails = append(emails, field)
		}
	}
	return emails
}

// Merge unions both address sources with case-insensitive deduplication.
// The casing that appears first is the one retained.
func Merge(textEmails, csvEmails []string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, addr := range append(append([]string{}, textEmails...), csvEmails...) {
		key := strings.ToLower(addr)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, addr)
	}
	return merged
}

func trimQuotes(s string) string {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}
