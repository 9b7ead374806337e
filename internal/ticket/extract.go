package ticket

import (
	"regexp"
	"strings"
)

// keyPattern matches Jira issue keys such as ABC-123: a project code
// starting with a letter, a hyphen, and an issue number. The match is
// case-insensitive so keys typed into branch names in lowercase still
// resolve.
var keyPattern = regexp.MustCompile(`(?i)([A-Z][A-Z0-9]*)-([0-9]+)`)

// Extract returns the first Jira issue key found in a branch name, with
// the project code normalized to uppercase. The second return value is
// false when the branch contains no key; that is an expected outcome for
// branches like "main", not an error.
func Extract(branch string) (string, bool) {
	m := keyPattern.FindStringSubmatch(branch)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]) + "-" + m[2], true
}

// Normalize validates that its input is exactly one issue key (no
// surrounding text) and returns it with the project code uppercased.
func Normalize(key string) (string, bool) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil || m[0] != key {
		return "", false
	}
	return strings.ToUpper(m[1]) + "-" + m[2], true
}
