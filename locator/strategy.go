package locator

import (
	"fmt"
	"strings"

	"redline-backend/textutil"
)

// Tier identifies which strategy placed a comment. Lower tiers are more precise.
type Tier int

const (
	TierExactContext Tier = iota + 1
	TierNormalizedContext
	TierBeforeContext
	TierAfterContext
	TierTargetOnly
	TierHalfMatch
	TierFirstWord
	TierFallback
)

var tierNames = map[Tier]string{
	TierExactContext:      "exact_context",
	TierNormalizedContext: "normalized_context",
	TierBeforeContext:     "before_context",
	TierAfterContext:      "after_context",
	TierTargetOnly:        "target_only",
	TierHalfMatch:         "half_match",
	TierFirstWord:         "first_word",
	TierFallback:          "fallback",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Tier) UnmarshalText(b []byte) error {
	for tier, name := range tierNames {
		if name == string(b) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown locator tier %q", string(b))
}

type strategy struct {
	tier Tier
	find func(d *document, q Query) (start int, approx bool, ok bool)
}

// ladder is tried in order; the first strategy that finds anything wins
var ladder = []strategy{
	{TierExactContext, findExactContext},
	{TierNormalizedContext, findNormalizedContext},
	{TierBeforeContext, findBeforeContext},
	{TierAfterContext, findAfterContext},
	{TierTargetOnly, findTargetOnly},
	{TierHalfMatch, findHalfMatch},
	{TierFirstWord, findFirstWord},
}

func hasContext(q Query) bool {
	return q.ContextBefore != "" || q.ContextAfter != ""
}

func findExactContext(d *document, q Query) (int, bool, bool) {
	if !hasContext(q) || q.Text == "" {
		return 0, false, false
	}
	i, ok := d.exact(q.ContextBefore + q.Text + q.ContextAfter)
	if !ok {
		return 0, false, false
	}
	return textutil.RuneOffset(d.raw, i+len(q.ContextBefore)), false, true
}

// findNormalizedContext matches the full triple in the search form, then
// finds the target after the before-context inside that match.
func findNormalizedContext(d *document, q Query) (int, bool, bool) {
	if !hasContext(q) || strings.TrimSpace(q.Text) == "" {
		return 0, false, false
	}
	ni, ok := d.collapsed(q.ContextBefore + q.Text + q.ContextAfter)
	if !ok {
		return 0, false, false
	}
	return d.rawOffset(targetWithin(d, ni+len(searchForm(q.ContextBefore)), q.Text)), true, true
}

func findBeforeContext(d *document, q Query) (int, bool, bool) {
	if q.ContextBefore == "" || strings.TrimSpace(q.Text) == "" {
		return 0, false, false
	}
	if i, ok := d.exact(q.ContextBefore + q.Text); ok {
		return textutil.RuneOffset(d.raw, i+len(q.ContextBefore)), false, true
	}
	ni, ok := d.collapsed(q.ContextBefore + q.Text)
	if !ok {
		return 0, false, false
	}
	return d.rawOffset(targetWithin(d, ni+len(searchForm(q.ContextBefore)), q.Text)), true, true
}

func findAfterContext(d *document, q Query) (int, bool, bool) {
	if q.ContextAfter == "" || strings.TrimSpace(q.Text) == "" {
		return 0, false, false
	}
	if i, ok := d.exact(q.Text + q.ContextAfter); ok {
		return textutil.RuneOffset(d.raw, i), false, true
	}
	ni, ok := d.collapsed(q.Text + q.ContextAfter)
	if !ok {
		return 0, false, false
	}
	return d.rawOffset(ni), true, true
}

func findTargetOnly(d *document, q Query) (int, bool, bool) {
	if strings.TrimSpace(q.Text) == "" {
		return 0, false, false
	}
	return d.search(q.Text)
}

// findHalfMatch searches for the first half of the target's words, then the
// second half, and anchors on whichever half is found.
func findHalfMatch(d *document, q Query) (int, bool, bool) {
	words := strings.Fields(q.Text)
	if len(words) < 2 {
		return 0, false, false
	}
	mid := (len(words) + 1) / 2
	first := strings.Join(words[:mid], " ")
	second := strings.Join(words[mid:], " ")

	if start, _, ok := d.search(first); ok {
		return start, true, true
	}
	if start, _, ok := d.search(second); ok {
		return start, true, true
	}
	return 0, false, false
}

func findFirstWord(d *document, q Query) (int, bool, bool) {
	words := strings.Fields(q.Text)
	if len(words) == 0 || textutil.RuneLen(words[0]) <= 3 {
		return 0, false, false
	}
	start, _, ok := d.search(words[0])
	return start, true, ok
}

// targetWithin finds the normalized target in the search form at or after
// byte offset from and returns its byte index there. When the target is not
// found, from is returned.
func targetWithin(d *document, from int, target string) int {
	if from > len(d.normalized) {
		from = len(d.normalized)
	}
	if j := strings.Index(d.normalized[from:], searchForm(target)); j >= 0 {
		return from + j
	}
	return from
}
