package notify

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	minLen = 50
	maxLen = 220

	// pad is appended to short messages; it doubles as the fallback
	// call to action.
	pad = " Узнать подробнее?"
)

// ctaVerbs is the closed set of allowed call-to-action verbs
var ctaVerbs = []string{
	"открыть", "настроить", "посмотреть", "оформить", "узнать",
	"попробовать", "проверить", "подключить", "начать",
}

var (
	spaceRuns  = regexp.MustCompile(`\x20{2,}`)
	tengeAfter = regexp.MustCompile(`([0-9])[\x20\x{00A0}]*₸`)
	tengeDup   = regexp.MustCompile(`₸(?:[\x20\x{00A0}]*₸)+`)
)

// Validate applies the tone-of-voice rules in their fixed order:
// length window, exclamation cap, de-shout, space collapsing, tenge
// glyph normalization, call-to-action presence. The function is
// idempotent: validating its own output changes nothing.
func Validate(message string) string {
	message = fitLength(message)
	message = capExclamations(message)
	message = deShout(message)
	message = spaceRuns.ReplaceAllString(message, " ")
	message = normalizeTenge(message)

	if !hasCTA(message) {
		message = fitLength(message + pad)
	}
	return message
}

// fitLength pads short messages and truncates long ones. Padding loops
// because one pad may not reach the floor on its own.
func fitLength(message string) string {
	for runeLen(message) < minLen {
		message += pad
	}
	if runeLen(message) > maxLen {
		runes := []rune(message)
		message = string(runes[:217]) + "…"
	}
	return message
}

// capExclamations keeps the leftmost '!' and removes the rest
func capExclamations(message string) string {
	first := strings.IndexRune(message, '!')
	if first < 0 {
		return message
	}
	head := message[:first+1]
	tail := strings.ReplaceAll(message[first+1:], "!", "")
	return head + tail
}

// deShout lower-cases an all-caps message, keeping the first letter
func deShout(message string) string {
	hasLetter := false
	for _, r := range message {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return message
			}
		}
	}
	if !hasLetter {
		return message
	}

	runes := []rune(message)
	lowered := false
	for i, r := range runes {
		if !unicode.IsLetter(r) {
			continue
		}
		if !lowered {
			lowered = true
			continue
		}
		runes[i] = unicode.ToLower(r)
	}
	return string(runes)
}

// normalizeTenge enforces one NBSP between digits and the glyph and
// collapses duplicated glyphs.
func normalizeTenge(message string) string {
	message = tengeAfter.ReplaceAllString(message, "${1}"+NBSP+"₸")
	return tengeDup.ReplaceAllString(message, "₸")
}

func hasCTA(message string) bool {
	lower := strings.ToLower(message)
	for _, verb := range ctaVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
