// Package extract turns uploaded files into the plain text that is analysed
// and highlighted. Markdown is rendered to text so offsets match what the
// reader sees; binary office formats are not decoded here.
package extract

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrInvalidEncoding   = errors.New("document is not valid UTF-8 text")
)

// Format of an uploaded document
type Format string

const (
	FormatPlain       Format = "plain"
	FormatMarkdown    Format = "markdown"
	FormatUnsupported Format = "unsupported"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// DetectFormat picks a format from the file extension, then the MIME type
func DetectFormat(filename, mimeType string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt", ".text":
		return FormatPlain
	case ".pdf", ".doc", ".docx":
		return FormatUnsupported
	}

	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch {
	case mimeType == "text/markdown" || mimeType == "text/x-markdown":
		return FormatMarkdown
	case strings.HasPrefix(mimeType, "text/"):
		return FormatPlain
	}
	return FormatUnsupported
}

// Text extracts plain text from an uploaded file
func Text(filename, mimeType string, data []byte) (string, error) {
	format := DetectFormat(filename, mimeType)
	if format == FormatUnsupported {
		return "", ErrUnsupportedFormat
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	s := strings.ReplaceAll(string(data), "\r\n", "\n")

	if format == FormatMarkdown {
		return Markdown([]byte(s)), nil
	}
	return s, nil
}

// Markdown renders markdown source to plain text: block elements are
// separated by blank lines, inline markup is dropped, code is kept verbatim.
func Markdown(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch {
			case n.Kind() == ast.KindTextBlock:
				sb.WriteByte('\n')
			case n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument && n.Kind() != ast.KindListItem:
				sb.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.Label(source))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	out := blankRuns.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(out)
}
