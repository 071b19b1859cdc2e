package parser

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z]*[ \\t]*\\r?\\n?")
	trailingFence = regexp.MustCompile("\\r?\\n?[ \\t]*```$")
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)

	smartQuotes = strings.NewReplacer(
		"“", `"`, "”", `"`, "„", `"`, "‟", `"`, "″", `"`,
		"‘", "'", "’", "'", "‚", "'", "‛", "'", "′", "'",
	)
)

// Repair applies the cleanup steps to raw model output, in order:
// trim, strip markdown fences, cut surrounding prose down to the outermost
// braces, straighten typographic quotes, drop trailing commas.
func Repair(raw string) string {
	return dropTrailingCommas(straightenQuotes(stripWrapping(raw)))
}

// stripWrapping trims, removes code fences and any prose around the object
func stripWrapping(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "{") {
		open := strings.Index(s, "{")
		close := strings.LastIndex(s, "}")
		if open >= 0 && close > open {
			s = s[open : close+1]
		}
	}
	return s
}

func straightenQuotes(s string) string {
	return smartQuotes.Replace(s)
}

func dropTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}

// candidates returns the texts worth deserializing, best first. Straightening
// quotes breaks output that only uses typographic quotes inside string values
// (common in Chinese prose), so a second candidate skips that step.
func candidates(raw string) []string {
	repaired := Repair(raw)
	unquoted := dropTrailingCommas(stripWrapping(raw))
	if unquoted == repaired {
		return []string{repaired}
	}
	return []string{repaired, unquoted}
}
