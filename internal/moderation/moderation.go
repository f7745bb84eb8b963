// Package moderation is the single content filter for every inbound text
// surface (private chat, community chat, questions). Rules: a versioned word
// list with leetspeak folding, a repeated-character heuristic and an
// excessive-capitalization heuristic.
package moderation

import (
	"strings"
	"unicode"
)

// Reasons returned by Check.
const (
	ReasonProfanity      = "profanity"
	ReasonRepeatedChars  = "repeated_characters"
	ReasonExcessiveCaps  = "excessive_capitalization"
)

// MaskGlyph replaces each rune of an offending span.
const MaskGlyph = '█'

const (
	maxRepeatRun = 4   // 5+ identical consecutive characters is flagged
	capsRatioMax = 0.7 // uppercase ratio above this is flagged
	capsMinLen   = 10  // caps heuristic only applies beyond this length
)

// Result is the outcome of checking one text.
type Result struct {
	OK      bool
	Reason  string
	Matches []string // normalized words that matched the list
}

// Check runs all rules against text. It never mutates the input.
func Check(text string) Result {
	if words := listMatches(text); len(words) > 0 {
		return Result{Reason: ReasonProfanity, Matches: words}
	}
	if hasLongRepeat(text) {
		return Result{Reason: ReasonRepeatedChars}
	}
	if isExcessivelyCapitalized(text) {
		return Result{Reason: ReasonExcessiveCaps}
	}
	return Result{OK: true}
}

// IsAppropriateContent is the boolean form of Check.
func IsAppropriateContent(text string) bool {
	return Check(text).OK
}

// Mask replaces every listed word in text with block glyphs of equal rune
// length, leaving all surrounding text untouched.
func Mask(text string) string {
	runes := []rune(text)
	out := make([]rune, len(runes))
	copy(out, runes)

	for _, span := range tokenSpans(runes) {
		if _, hit := blockedWords[normalizeToken(runes[span.start:span.end])]; hit {
			for i := span.start; i < span.end; i++ {
				out[i] = MaskGlyph
			}
		}
	}
	return string(out)
}

type span struct{ start, end int }

// tokenSpans finds maximal runs of letters/digits/leet symbols.
func tokenSpans(runes []rune) []span {
	var spans []span
	start := -1
	for i, r := range runes {
		if isTokenRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(runes)})
	}
	return spans
}

func isTokenRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	_, ok := leetMap[r]
	return ok
}

// normalizeToken lowercases, folds leetspeak and collapses consecutive
// duplicates so "FUUUck" and "f4ck" both become "fuck".
func normalizeToken(runes []rune) string {
	var b strings.Builder
	var prev rune = -1
	for _, r := range runes {
		r = unicode.ToLower(r)
		if mapped, ok := leetMap[r]; ok {
			r = mapped
		}
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func listMatches(text string) []string {
	runes := []rune(text)
	var matches []string
	for _, s := range tokenSpans(runes) {
		word := normalizeToken(runes[s.start:s.end])
		if _, hit := blockedWords[word]; hit {
			matches = append(matches, word)
		}
	}
	return matches
}

func hasLongRepeat(text string) bool {
	var prev rune = -1
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run > maxRepeatRun {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func isExcessivelyCapitalized(text string) bool {
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if len([]rune(text)) <= capsMinLen || letters == 0 {
		return false
	}
	return float64(upper)/float64(letters) > capsRatioMax
}
