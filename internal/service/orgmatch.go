package service

import (
	"regexp"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	tokenSplitRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// minTokenLength guards against matching on stop words and acronym
// fragments ("of", "co") during token overlap checks.
const minTokenLength = 3

// normalizeOrganization canonicalizes a free-text organization name:
// trimmed, case-folded, inner whitespace collapsed.
func normalizeOrganization(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return whitespaceRegex.ReplaceAllString(name, " ")
}

// organizationMatches reports whether a member's free-text organization
// field refers to the target organization. The target may be a partial
// or legacy identifier, so matching is deliberately loose: after
// normalization, a substring hit in either direction counts, as does
// any shared token of at least minTokenLength characters.
func organizationMatches(candidate, target string) bool {
	candidate = normalizeOrganization(candidate)
	target = normalizeOrganization(target)
	if candidate == "" || target == "" {
		return false
	}

	if strings.Contains(candidate, target) || strings.Contains(target, candidate) {
		return true
	}

	targetTokens := make(map[string]struct{})
	for _, tok := range tokenSplitRegex.Split(target, -1) {
		if len(tok) >= minTokenLength {
			targetTokens[tok] = struct{}{}
		}
	}
	for _, tok := range tokenSplitRegex.Split(candidate, -1) {
		if len(tok) < minTokenLength {
			continue
		}
		if _, ok := targetTokens[tok]; ok {
			return true
		}
	}
	return false
}
