package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	navigationKeywords = []string{"room", "building", "where", "find", "kabinet", "corpus", "build", "кабінет", "корпус", "аудиторія"}

	smallTalkPhrases = []string{
		"hi", "hello", "hey", "how are you", "what's up", "how do you do",
		"what your name", "your name", "who are you", "thanks", "thank you",
		"good morning", "good afternoon", "good evening", "cool", "nice",
	}

	noisePhrases = []string{"test", "abc", "123", "???", "..."}

	identityPhrases = []string{"your name", "who are you"}
)

// IntentClassifier separates small talk and noise from navigation requests
type IntentClassifier struct {
	keywords  []string
	smallTalk []string
	noise     []string
	identity  []string
}

// NewIntentClassifier creates a classifier with the built-in phrase lists
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{
		keywords:  navigationKeywords,
		smallTalk: smallTalkPhrases,
		noise:     noisePhrases,
		identity:  identityPhrases,
	}
}

// IsSmallTalk reports whether input should get a persona reply instead of a room lookup.
// A navigation keyword or any digit always wins, so "room 101, how are you" is navigation.
func (c *IntentClassifier) IsSmallTalk(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))

	if containsAny(lower, c.keywords) || strings.IndexFunc(lower, unicode.IsDigit) >= 0 {
		return false
	}

	if containsAny(lower, c.smallTalk) {
		return true
	}

	return utf8.RuneCountInString(strings.TrimSpace(input)) < 3 ||
		containsAny(lower, c.noise) ||
		distinctRunes(lower) < 3
}

// IsIdentityQuery reports whether input asks who the assistant is
func (c *IntentClassifier) IsIdentityQuery(input string) bool {
	return containsAny(strings.ToLower(input), c.identity)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func distinctRunes(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}
