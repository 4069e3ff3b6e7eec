// Package skills turns free-text skill input into a normalized skill profile.
//
// Tokens are matched case-insensitively: every token is lowercased, so
// "Python" and "python" are the same skill and only the first occurrence is
// kept.
package skills

import (
	"regexp"
	"strings"
)

// separators matches any run of commas and/or whitespace.
var separators = regexp.MustCompile(`[,\s]+`)

// Profile is an ordered, deduplicated list of lowercase skill tokens.
// Treat it as read-only once created.
type Profile []string

// Tokenize splits raw input on runs of commas and whitespace, lowercases each
// piece, drops empty pieces and later duplicates, and keeps first-seen order.
// It never fails; input with no skills yields an empty profile.
func Tokenize(raw string) Profile {
	pieces := separators.Split(raw, -1)

	profile := make(Profile, 0, len(pieces))
	seen := make(map[string]struct{}, len(pieces))
	for _, piece := range pieces {
		token := strings.ToLower(strings.TrimSpace(piece))
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		profile = append(profile, token)
	}
	return profile
}

// Empty reports whether the profile has no tokens.
func (p Profile) Empty() bool {
	return len(p) == 0
}

// Label joins the tokens with ", " for display and history records.
func (p Profile) Label() string {
	return strings.Join(p, ", ")
}

// Tokens returns a copy of the tokens, safe for callers to modify.
func (p Profile) Tokens() []string {
	out := make([]string, len(p))
	copy(out, p)
	return out
}

// Validate returns an *InputError when the profile cannot be submitted.
func (p Profile) Validate() error {
	if p.Empty() {
		return &InputError{Message: "enter at least one skill"}
	}
	return nil
}
