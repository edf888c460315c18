// Package text turns markdown into plain text fit for speaking.
package text

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// StripMarkdown returns the speakable text of a markdown document. Code
// blocks and raw HTML are dropped, link targets are omitted and block
// elements end in a sentence break so the engine pauses between them.
func StripMarkdown(src []byte) string {
	reader := gmtext.NewReader(src)
	doc := markdown.Parser().Parse(reader)

	var buf strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte(' ')
				}
			}

		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}

		case *ast.CodeSpan:
			if entering {
				for c := node.FirstChild(); c != nil; c = c.NextSibling() {
					if t, ok := c.(*ast.Text); ok {
						buf.Write(t.Segment.Value(src))
					}
				}
			}
			return ast.WalkSkipChildren, nil

		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if !entering {
				endSentence(&buf)
			}

		case *ast.ThematicBreak:
			if entering {
				endSentence(&buf)
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(buf.String()), " ")
}

// endSentence terminates the text written so far with a full stop unless
// it already ends in punctuation.
func endSentence(buf *strings.Builder) {
	content := strings.TrimRight(buf.String(), " \t\n")
	if content == "" {
		return
	}
	switch content[len(content)-1] {
	case '.', '!', '?', ':', ';':
		buf.WriteByte(' ')
	default:
		buf.WriteString(". ")
	}
}
