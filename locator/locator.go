// Package locator re-anchors model comments onto the current document text.
//
// The model is not a reliable indexer: it reflows whitespace, truncates
// context and sometimes quotes text that does not exist. Locate walks a fixed
// ladder of strategies from most to least precise and always returns an
// in-bounds range. Offsets are counted in Unicode code points.
package locator

import (
	"hash/fnv"
	"strings"

	"redline-backend/models"
	"redline-backend/textutil"
)

// Query is the context triple a comment claims for its target snippet
type Query struct {
	ID            string
	ContextBefore string
	Text          string
	ContextAfter  string
}

// QueryFromComment builds a Query from a parsed comment
func QueryFromComment(c models.Comment) Query {
	return Query{
		ID:            c.ID,
		ContextBefore: c.ContextBefore,
		Text:          c.TargetText,
		ContextAfter:  c.ContextAfter,
	}
}

// Range is a resolved location. End is Start plus the code point length of
// the claimed target, clamped to the document. Start is exact for every tier
// that matched; when the target itself was reflowed, End can be off by the
// number of whitespace characters collapsed inside it.
type Range struct {
	Start       int
	End         int
	Tier        Tier
	Approximate bool
}

// Locate resolves q against text. It never fails and is a pure function of
// its inputs: the fallback position is derived from a hash of q.ID.
func Locate(q Query, text string) Range {
	doc := newDocument(text)
	targetLen := textutil.RuneLen(q.Text)

	for _, s := range ladder {
		start, approx, ok := s.find(doc, q)
		if !ok {
			continue
		}
		return doc.clamp(start, targetLen, s.tier, approx)
	}

	return doc.clamp(fallbackOffset(q.ID, doc.runeLen), targetLen, TierFallback, true)
}

// LocateComments places every comment of a result against text, preserving order
func LocateComments(comments []models.Comment, text string) []models.LocatedComment {
	located := make([]models.LocatedComment, 0, len(comments))
	for _, c := range comments {
		r := Locate(QueryFromComment(c), text)
		located = append(located, models.LocatedComment{
			Comment:     c,
			Start:       r.Start,
			End:         r.End,
			Tier:        r.Tier.String(),
			Approximate: r.Approximate,
			Severity:    c.DisplaySeverity(),
		})
	}
	return located
}

// fallbackOffset spreads unplaceable comments over the first quarter of the
// document instead of stacking them all at offset zero.
func fallbackOffset(id string, docLen int) int {
	span := docLen / 4
	if span == 0 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32() % uint32(span))
}

// document caches the raw text and its search form: whitespace collapsed and
// typographic quotes folded. origin maps each code point of the search form
// back to its code point offset in raw.
type document struct {
	raw        string
	normalized string
	origin     []int
	runeLen    int
}

func newDocument(text string) *document {
	collapsed, origin := textutil.CollapseWhitespaceMap(text)
	return &document{
		raw:        text,
		normalized: textutil.FoldQuotes(collapsed),
		origin:     origin,
		runeLen:    textutil.RuneLen(text),
	}
}

// rawOffset maps a byte index into the search form to a code point offset
// into the raw text
func (d *document) rawOffset(i int) int {
	return d.origin[textutil.RuneOffset(d.normalized, i)]
}

func (d *document) clamp(start, length int, tier Tier, approx bool) Range {
	if start < 0 {
		start = 0
	}
	if start > d.runeLen {
		start = d.runeLen
	}
	end := start + length
	if end > d.runeLen {
		end = d.runeLen
	}
	return Range{Start: start, End: end, Tier: tier, Approximate: approx}
}

// exact returns the byte index of the first literal occurrence of pattern
func (d *document) exact(pattern string) (int, bool) {
	if pattern == "" {
		return -1, false
	}
	i := strings.Index(d.raw, pattern)
	return i, i >= 0
}

// searchForm normalizes a pattern the way the document's search form is built
func searchForm(pattern string) string {
	return textutil.FoldQuotes(textutil.Normalize(pattern))
}

// collapsed returns the byte index into the search form of the first
// occurrence of the normalized pattern
func (d *document) collapsed(pattern string) (int, bool) {
	p := searchForm(pattern)
	if p == "" {
		return -1, false
	}
	i := strings.Index(d.normalized, p)
	return i, i >= 0
}

// search tries a literal match, then a normalized one, and returns a code
// point offset into the raw text
func (d *document) search(pattern string) (start int, approx bool, ok bool) {
	if i, found := d.exact(pattern); found {
		return textutil.RuneOffset(d.raw, i), false, true
	}
	if i, found := d.collapsed(pattern); found {
		return d.rawOffset(i), true, true
	}
	return 0, false, false
}
