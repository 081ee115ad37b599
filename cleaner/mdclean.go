package cleaner

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown parses Markdown into an AST, removes artifacts the
// HTML-to-Markdown conversion tends to leave behind (dead links, broken
// images, stub headings, empty list items, noise text), and renders the
// pruned tree back to Markdown. If the result would be empty while the
// input was not, the input passes through unchanged.
func CleanMarkdown(markdown string) string {
	src := []byte(markdown)

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	pruneArtifacts(doc, src)

	r := &markdownRenderer{source: src}
	if err := ast.Walk(doc, r.walk); err != nil {
		return markdown
	}

	out := tidyRendered(r.out.String())
	if out == "" && strings.TrimSpace(markdown) != "" {
		return markdown
	}
	return out
}

// pruneArtifacts works in two phases: a walk that marks nodes for removal
// or unwrapping, then the mutations. Mutating sibling pointers during the
// walk would skip nodes.
func pruneArtifacts(doc ast.Node, src []byte) {
	var remove []ast.Node
	var unwrap []ast.Node

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			dest := strings.TrimSpace(string(node.Destination))
			if !validLinkHref(dest) || len(dest) > maxLinkHrefChars {
				unwrap = append(unwrap, node)
			}
		case *ast.Image:
			dest := strings.TrimSpace(string(node.Destination))
			alt := strings.TrimSpace(string(nodeText(node, src)))
			if dest == "" || strings.HasPrefix(dest, "data:") || alt == "" {
				remove = append(remove, node)
			}
		case *ast.Heading:
			if len(strings.TrimSpace(string(nodeText(node, src)))) < 3 {
				remove = append(remove, node)
			}
		case *ast.ListItem:
			text := strings.TrimSpace(string(nodeText(node, src)))
			if len(text) <= 3 && !hasBlockStructure(node) {
				remove = append(remove, node)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, n := range unwrap {
		unwrapNode(n)
	}
	for _, n := range remove {
		if p := n.Parent(); p != nil {
			p.RemoveChild(p, n)
		}
	}

	// Lists can end up childless after item removal.
	var emptyLists []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if _, ok := n.(*ast.List); ok && n.ChildCount() == 0 {
				emptyLists = append(emptyLists, n)
			}
		}
		return ast.WalkContinue, nil
	})
	for _, n := range emptyLists {
		if p := n.Parent(); p != nil {
			p.RemoveChild(p, n)
		}
	}
}

// unwrapNode replaces a node with its children, preserving order.
func unwrapNode(n ast.Node) {
	parent := n.Parent()
	if parent == nil {
		return
	}
	var children []ast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		children = append(children, c)
	}
	for _, c := range children {
		parent.InsertBefore(parent, n, c)
	}
	parent.RemoveChild(parent, n)
}

// hasBlockStructure reports whether the item wraps a nested list or
// blockquote, which keeps it alive even when its own text is trivial.
func hasBlockStructure(n ast.Node) bool {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.List, *ast.Blockquote:
			return true
		}
		if hasBlockStructure(c) {
			return true
		}
	}
	return false
}

func nodeText(n ast.Node, src []byte) []byte {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	return []byte(b.String())
}

// markdownRenderer writes a pruned AST back out as Markdown. The walk
// mirrors the node kinds the commonmark converter emits; unknown inline
// kinds fall back to their text content.
type markdownRenderer struct {
	source    []byte
	out       strings.Builder
	listDepth int
	ordinal   []int
}

func (r *markdownRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document:
		return ast.WalkContinue, nil
	case *ast.Heading:
		return r.renderHeading(node, entering)
	case *ast.Paragraph, *ast.TextBlock:
		if !entering && !insideListItem(n) {
			r.out.WriteString("\n\n")
		}
		return ast.WalkContinue, nil
	case *ast.Text:
		if entering {
			r.writeText(string(node.Segment.Value(r.source)))
			if node.HardLineBreak() {
				r.out.WriteString("\n")
			} else if node.SoftLineBreak() {
				r.out.WriteString(" ")
			}
		}
		return ast.WalkContinue, nil
	case *ast.String:
		if entering {
			r.writeText(string(node.Value))
		}
		return ast.WalkContinue, nil
	case *ast.Emphasis:
		marker := "*"
		if node.Level == 2 {
			marker = "**"
		}
		r.out.WriteString(marker)
		return ast.WalkContinue, nil
	case *ast.Link:
		if entering {
			r.out.WriteString("[")
		} else {
			r.out.WriteString("](" + string(node.Destination) + ")")
		}
		return ast.WalkContinue, nil
	case *ast.AutoLink:
		if entering {
			r.out.Write(node.URL(r.source))
		}
		return ast.WalkSkipChildren, nil
	case *ast.Image:
		if entering {
			r.out.WriteString("![" + string(nodeText(node, r.source)) + "](" + string(node.Destination) + ")")
		}
		return ast.WalkSkipChildren, nil
	case *ast.CodeSpan:
		if entering {
			r.out.WriteString("`")
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					r.out.Write(t.Segment.Value(r.source))
				}
			}
			r.out.WriteString("`")
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock:
		if entering {
			lang := string(node.Language(r.source))
			r.out.WriteString("```" + lang + "\n")
			r.writeLines(node.Lines())
			r.out.WriteString("```\n\n")
		}
		return ast.WalkSkipChildren, nil
	case *ast.CodeBlock:
		if entering {
			r.out.WriteString("```\n")
			r.writeLines(node.Lines())
			r.out.WriteString("```\n\n")
		}
		return ast.WalkSkipChildren, nil
	case *ast.Blockquote:
		return r.renderBlockquote(node, entering)
	case *ast.List:
		if entering {
			r.listDepth++
			start := 0
			if node.IsOrdered() {
				start = node.Start
				if start == 0 {
					start = 1
				}
			}
			r.ordinal = append(r.ordinal, start)
		} else {
			r.listDepth--
			r.ordinal = r.ordinal[:len(r.ordinal)-1]
			if r.listDepth == 0 {
				r.out.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	case *ast.ListItem:
		if entering {
			r.out.WriteString(strings.Repeat("  ", r.listDepth-1))
			if ord := r.ordinal[len(r.ordinal)-1]; ord > 0 {
				r.out.WriteString(strconv.Itoa(ord) + ". ")
				r.ordinal[len(r.ordinal)-1]++
			} else {
				r.out.WriteString("* ")
			}
		} else {
			r.out.WriteString("\n")
		}
		return ast.WalkContinue, nil
	case *ast.ThematicBreak:
		if entering {
			r.out.WriteString("---\n\n")
		}
		return ast.WalkContinue, nil
	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (r *markdownRenderer) renderHeading(n *ast.Heading, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.out.WriteString(strings.Repeat("#", n.Level) + " ")
	} else {
		r.out.WriteString("\n\n")
	}
	return ast.WalkContinue, nil
}

func (r *markdownRenderer) renderBlockquote(n *ast.Blockquote, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	// Render the quote body separately so every line gets its prefix.
	inner := &markdownRenderer{source: r.source}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		_ = ast.Walk(c, inner.walk)
	}
	for _, line := range strings.Split(strings.TrimSpace(inner.out.String()), "\n") {
		r.out.WriteString("> " + line + "\n")
	}
	r.out.WriteString("\n")
	return ast.WalkSkipChildren, nil
}

func (r *markdownRenderer) writeLines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		r.out.Write(seg.Value(r.source))
	}
}

// writeText emits a text node after decoding residual HTML entities,
// collapsing internal space runs, and dropping punctuation-only fragments.
func (r *markdownRenderer) writeText(s string) {
	s = html.UnescapeString(s)
	s = multiSpaceRe.ReplaceAllString(s, " ")
	if isPunctOnly(s) {
		return
	}
	r.out.WriteString(s)
}

func isPunctOnly(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return false
		}
	}
	// Lone punctuation that carries meaning inline (commas, periods after
	// links) must survive; only longer junk runs are dropped.
	return len(trimmed) > 2
}

func insideListItem(n ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*ast.ListItem); ok {
			return true
		}
	}
	return false
}

var renderedBlankRe = regexp.MustCompile(`\n{3,}`)

func tidyRendered(out string) string {
	out = renderedBlankRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
