// Package textutil holds the keyword and character statistics shared by the
// emotion, memory and relationship heuristics.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s and composes it to NFC so that Hangul typed as
// decomposed jamo (common on macOS input) matches the composed keyword tables.
func Normalize(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// CountKeywords returns the total number of occurrences of every keyword in
// text. text is expected to be normalized already; keywords are normalized here.
func CountKeywords(text string, keywords []string) int {
	if text == "" {
		return 0
	}
	total := 0
	for _, kw := range keywords {
		k := Normalize(kw)
		if k == "" {
			continue
		}
		total += strings.Count(text, k)
	}
	return total
}

// ContainsAny reports whether any keyword occurs in text.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		k := Normalize(kw)
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// CountRunes counts how many runes of s are one of chars.
func CountRunes(s string, chars ...rune) int {
	n := 0
	for _, r := range s {
		for _, c := range chars {
			if r == c {
				n++
				break
			}
		}
	}
	return n
}

// CountEmoji counts runes in the common emoji blocks.
func CountEmoji(s string) int {
	n := 0
	for _, r := range s {
		if isEmoji(r) {
			n++
		}
	}
	return n
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r == 0x2764:
		return true
	}
	return false
}

// EmphasisRatio is the share of letters that carry emphasis: upper-case Latin
// letters (shouting) and stand-alone Hangul jamo such as ㅋ, ㅎ, ㅠ, ㅜ.
// Returns 0 when s has fewer than three letters.
func EmphasisRatio(s string) float64 {
	letters, emphatic := 0, 0
	for _, r := range s {
		switch {
		case r >= 0x3131 && r <= 0x318E:
			letters++
			emphatic++
		case unicode.IsLetter(r):
			letters++
			if r <= unicode.MaxASCII && unicode.IsUpper(r) {
				emphatic++
			}
		}
	}
	if letters < 3 {
		return 0
	}
	return float64(emphatic) / float64(letters)
}

// Excerpt returns at most n runes of s, with an ellipsis when truncated.
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
