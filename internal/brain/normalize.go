package brain

import (
	"regexp"
	"strings"
)

const (
	// minTextLen and maxTextLen bound normalized text. Anything shorter
	// after cleaning carries no signal; anything longer is not worth
	// storing or matching.
	minTextLen = 2
	maxTextLen = 125
)

var (
	extraSpacesRe = regexp.MustCompile(`\s+`)
	punctSpaceRe  = regexp.MustCompile(`\s+([,.?!:;…])`)
	// Latin and Cyrillic letters, digits, a small punctuation set and space.
	// Everything else is stripped before lower-casing.
	disallowedRe = regexp.MustCompile(`[^a-zA-Zа-яА-ЯёЁ0-9@,.!?:;()"*\-+= ]+`)
)

func stripExtraSpaces(s string) string {
	return strings.TrimSpace(extraSpacesRe.ReplaceAllString(s, " "))
}

func normalizePunctuation(s string) string {
	return punctSpaceRe.ReplaceAllString(s, "$1")
}

// Normalize reduces raw text to its canonical stored/compared form:
// collapsed whitespace, no space before punctuation, restricted character
// set, lower case. Returns ok=false when the result falls outside the
// 2..125 length bounds; a rejected input is never partially normalized.
// Normalize is pure and idempotent on success.
func Normalize(text string) (string, bool) {
	normalized := normalizePunctuation(stripExtraSpaces(text))

	// Length check before character filtering: an overlong message is
	// rejected outright rather than trimmed into a storable one.
	if len([]rune(normalized)) > maxTextLen {
		return "", false
	}

	cleaned := strings.ToLower(disallowedRe.ReplaceAllString(normalized, ""))
	// Filtering can leave new double spaces or a space glued to punctuation.
	cleaned = normalizePunctuation(stripExtraSpaces(cleaned))

	if len([]rune(cleaned)) < minTextLen {
		return "", false
	}
	return cleaned, true
}
