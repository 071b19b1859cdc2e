package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no whitespace", "abc", "abc"},
		{"mixed runs", "a \t\n b\r\nc", "a b c"},
		{"leading and trailing kept as single space", "\n\n a \n", " a "},
		{"nbsp and ideographic space", "a  b　c", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollapseWhitespace(tt.in))
		})
	}
}

func TestNormalizeTrims(t *testing.T) {
	assert.Equal(t, "a b", Normalize("  a\n\nb \t"))
}

func TestRuneOffset(t *testing.T) {
	s := "合同第4条"
	assert.Equal(t, 0, RuneOffset(s, 0))
	assert.Equal(t, 2, RuneOffset(s, 6))
	assert.Equal(t, 5, RuneOffset(s, 100))
	assert.Equal(t, 5, RuneLen(s))
}

func TestCollapseWhitespaceMap(t *testing.T) {
	out, origin := CollapseWhitespaceMap("a\n\n  b合\tc")
	assert.Equal(t, "a b合 c", out)
	assert.Equal(t, []int{0, 1, 5, 6, 7, 8, 9}, origin)

	out, origin = CollapseWhitespaceMap("")
	assert.Equal(t, "", out)
	assert.Equal(t, []int{0}, origin)
}

func TestFoldQuotes(t *testing.T) {
	in := "the Company’s “shares” and ‘units’"
	out := FoldQuotes(in)
	assert.Equal(t, `the Company's "shares" and 'units'`, out)
	assert.Equal(t, RuneLen(in), RuneLen(out))
}
