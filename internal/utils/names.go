package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MatchTier ranks how well a query matches a room name
type MatchTier int

const (
	TierNone MatchTier = iota
	TierPartial
	TierExact
)

// minPartialQueryLen keeps short fragments like "a" or "101" from matching every name
const minPartialQueryLen = 3

var punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// NormalizeName lowercases s and strips punctuation so "Dean's Office!" and
// "deans office" compare equal.
func NormalizeName(s string) string {
	return strings.TrimSpace(punctuationRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), ""))
}

// MatchName compares two already normalised strings.
func MatchName(query, name string) MatchTier {
	if query == "" || name == "" {
		return TierNone
	}
	if query == name {
		return TierExact
	}
	if utf8.RuneCountInString(query) > minPartialQueryLen &&
		(strings.Contains(name, query) || strings.Contains(query, name)) {
		return TierPartial
	}
	return TierNone
}
