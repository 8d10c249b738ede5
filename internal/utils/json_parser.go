package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	flatObjectRe    = regexp.MustCompile(`\{[^{}]*\}`)
	fencedJSONRe    = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlCharsRe  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseModelJSON decodes the first JSON object found in raw model output into target.
// Small local models rarely return clean JSON, so the candidates are tried in order:
//   - the first flat {...} substring (no nested braces)
//   - an object inside a markdown code fence
//   - the first brace-balanced object
//
// Each candidate is retried once after repairing trailing commas, bare keys and
// single quotes.
func ParseModelJSON(input string, target interface{}) error {
	input = strings.TrimPrefix(strings.TrimSpace(input), "\ufeff")
	if input == "" {
		return fmt.Errorf("empty input")
	}

	for _, candidate := range jsonCandidates(input) {
		if err := json.Unmarshal([]byte(candidate), target); err == nil {
			return nil
		}
		if err := json.Unmarshal([]byte(repairJSON(candidate)), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no JSON object in model output: %s", truncateString(input, 100))
}

// jsonCandidates lists object-shaped substrings of input in priority order
func jsonCandidates(input string) []string {
	var candidates []string
	if m := flatObjectRe.FindString(input); m != "" {
		candidates = append(candidates, m)
	}
	if m := fencedJSONRe.FindStringSubmatch(input); len(m) > 1 {
		candidates = append(candidates, m[1])
	}
	if start := strings.Index(input, "{"); start >= 0 {
		if m := extractBalancedObject(input[start:]); m != "" {
			candidates = append(candidates, m)
		}
	}
	return candidates
}

// extractBalancedObject returns the leading brace-balanced object of input, ignoring
// braces inside string literals.
func extractBalancedObject(input string) string {
	depth := 0
	inString := false
	escape := false

	for i, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}

	return ""
}

// repairJSON fixes the mistakes models make most often
func repairJSON(input string) string {
	s := trailingCommaRe.ReplaceAllString(input, "$1")
	s = bareKeyRe.ReplaceAllString(s, `$1"$2"$3`)
	s = fixSingleQuotes(s)
	return controlCharsRe.ReplaceAllString(s, "")
}

// fixSingleQuotes turns single-quoted JSON strings into double-quoted ones,
// leaving apostrophes inside double-quoted strings alone.
func fixSingleQuotes(input string) string {
	var b strings.Builder
	inDouble := false
	inSingle := false
	escape := false

	for _, ch := range input {
		if escape {
			b.WriteRune(ch)
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
			b.WriteRune(ch)
		case ch == '"' && !inSingle:
			inDouble = !inDouble
			b.WriteRune(ch)
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteRune('"')
		default:
			b.WriteRune(ch)
		}
	}

	return b.String()
}

// truncateString truncates a string to maxLen bytes
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
