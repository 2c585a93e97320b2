// apps/go-server/internal/markup/markup.go
//
// Lightweight emphasis markup used in card text.
// Supported markers:
//   - **bold**
//   - __underline__
//
// Markers may nest (e.g. **__both__**). Matching is non-greedy and does not
// cross line breaks, so an unterminated marker is left as literal text.
//
// Strip is what the grading and tile paths compare against; Parse/RenderHTML
// are for display only.

package markup

import (
	"html"
	"regexp"
	"strings"
)

var (
	boldRe      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	underlineRe = regexp.MustCompile(`__(.+?)__`)
	emphasisRe  = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
)

// Kind identifies the type of a parsed markup node.
type Kind string

const (
	KindText      Kind = "text"
	KindBold      Kind = "bold"
	KindUnderline Kind = "underline"
)

// Node is one segment of parsed card text. Text nodes carry Text;
// emphasis nodes carry Children.
type Node struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Strip removes emphasis markers and keeps the enclosed text.
// Bold is stripped before underline.
func Strip(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	return underlineRe.ReplaceAllString(text, "$1")
}

// Parse splits text into text/bold/underline nodes, recursing into the
// body of every emphasis span. Empty input yields nil.
func Parse(text string) []Node {
	if text == "" {
		return nil
	}
	var out []Node
	last := 0
	for _, m := range emphasisRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			out = append(out, Node{Kind: KindText, Text: text[last:m[0]]})
		}
		switch {
		case m[2] >= 0:
			out = append(out, Node{Kind: KindBold, Children: Parse(text[m[2]:m[3]])})
		case m[4] >= 0:
			out = append(out, Node{Kind: KindUnderline, Children: Parse(text[m[4]:m[5]])})
		}
		last = m[1]
	}
	if last < len(text) {
		out = append(out, Node{Kind: KindText, Text: text[last:]})
	}
	return out
}

// RenderHTML renders text as escaped HTML with <strong> and <u> spans.
func RenderHTML(text string) string {
	var b strings.Builder
	writeNodes(&b, Parse(text))
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n.Kind {
		case KindBold:
			b.WriteString("<strong>")
			writeNodes(b, n.Children)
			b.WriteString("</strong>")
		case KindUnderline:
			b.WriteString("<u>")
			writeNodes(b, n.Children)
			b.WriteString("</u>")
		default:
			b.WriteString(html.EscapeString(n.Text))
		}
	}
}
