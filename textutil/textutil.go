// Package textutil holds the whitespace and rune helpers shared by the locator,
// the parser and the cache key.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CollapseWhitespace replaces every run of Unicode whitespace (newlines,
// tabs, non-breaking and ideographic spaces included) with a single ASCII space.
// Leading and trailing runs are collapsed, not removed.
func CollapseWhitespace(s string) string {
	out, _ := CollapseWhitespaceMap(s)
	return out
}

// CollapseWhitespaceMap collapses s like CollapseWhitespace and also returns,
// for every code point of the result, the code point offset in s it was
// written from. A collapsed run maps to the first character of the run. The
// extra final entry is the length of s in code points.
func CollapseWhitespaceMap(s string) (string, []int) {
	var b strings.Builder
	b.Grow(len(s))
	origin := make([]int, 0, len(s)+1)
	inSpace := false
	n := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				origin = append(origin, n)
				inSpace = true
			}
			n++
			continue
		}
		inSpace = false
		b.WriteRune(r)
		origin = append(origin, n)
		n++
	}
	return b.String(), append(origin, n)
}

var quoteFolder = strings.NewReplacer(
	"\u2018", "'",
	"\u2019", "'",
	"\u201C", `"`,
	"\u201D", `"`,
)

// FoldQuotes replaces typographic single and double quotes with their ASCII
// forms. The replacement is one code point for one code point.
func FoldQuotes(s string) string {
	return quoteFolder.Replace(s)
}

// Normalize collapses whitespace and trims the result
func Normalize(s string) string {
	return strings.TrimSpace(CollapseWhitespace(s))
}

// RuneLen is the length of s in code points
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// RuneOffset converts a byte offset into s to a code point offset.
// Offsets beyond len(s) are clamped.
func RuneOffset(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(s) {
		byteOffset = len(s)
	}
	return utf8.RuneCountInString(s[:byteOffset])
}
