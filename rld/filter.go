package rld

import (
	"regexp"
	"strings"
)

// runeRange is an inclusive code point interval.
type runeRange struct {
	lo, hi rune
}

// TextFilter decides whether extracted text is worth emitting as a
// translation entry. It is an explicit configuration value, not a
// hard-coded rule, so a future engine variant with different Japanese
// ranges or reject prefixes can be accommodated without a code change.
type TextFilter struct {
	JapaneseRanges []runeRange
	RejectPrefixes []string
}

var numericPunctOnly = regexp.MustCompile(`^[\d,\-.*;:&|=<>\[\]() RQLSrqls]+$`)

// DefaultTextFilter returns the Japanese/fullwidth ranges and ignored
// numeric-field prefixes observed in the source engine's scripts.
func DefaultTextFilter() TextFilter {
	return TextFilter{
		JapaneseRanges: []runeRange{
			{0x3040, 0x309F}, // hiragana
			{0x30A0, 0x30FF}, // katakana
			{0x4E00, 0x9FFF}, // CJK unified ideographs
			{0xFF00, 0xFFEF}, // fullwidth forms
		},
		RejectPrefixes: []string{
			"-1,", "0,", "1,", "10,", "100,", "101,", "102,", "2000,",
		},
	}
}

// HasJapanese reports whether text contains any code point within f's
// configured ranges.
func (f TextFilter) HasJapanese(text string) bool {
	for _, r := range text {
		for _, rr := range f.JapaneseRanges {
			if r >= rr.lo && r <= rr.hi {
				return true
			}
		}
	}
	return false
}

// hasASCIILetterRun reports whether text contains 3 or more
// consecutive ASCII letters.
func hasASCIILetterRun(text string) bool {
	run := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// IsTranslatable applies the translatable-text heuristic: Japanese
// content or a run of Latin letters qualifies, short strings and
// numeric/punctuation-only strings are rejected, and a handful of
// known non-Japanese numeric-field prefixes are rejected outright.
func (f TextFilter) IsTranslatable(text string) bool {
	if len([]rune(text)) < 2 {
		return false
	}
	if numericPunctOnly.MatchString(text) {
		return false
	}
	hasJP := f.HasJapanese(text)
	for _, prefix := range f.RejectPrefixes {
		if strings.HasPrefix(text, prefix) && !hasJP {
			return false
		}
	}
	return hasJP || hasASCIILetterRun(text)
}
