// Package chunker splits cleaned Markdown into word-budget-bounded chunks
// along semantic boundaries: section separators first, then headings, then
// paragraphs, then sentences. Content is never dropped to fit the budget;
// an irreducible unit larger than the budget is emitted whole.
package chunker

import (
	"regexp"
	"strings"
)

// Budget-scaling bands applied to the base word budget according to the
// document's overall quality score. Higher-quality prose tolerates larger
// context windows without losing coherence.
const (
	scaleHighQuality = 1.4 // doc score >= 70
	scaleGoodQuality = 1.2 // doc score >= 50
	scaleLowQuality  = 0.8 // doc score < 30
)

var (
	headingRe  = regexp.MustCompile(`(?m)^#{1,6} `)
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+(?:\s|$)|[^.!?]+$`)
)

// AdaptiveBudget scales the base chunk budget by the document quality score.
func AdaptiveBudget(base, docScore int) int {
	switch {
	case docScore >= 70:
		return int(float64(base) * scaleHighQuality)
	case docScore >= 50:
		return int(float64(base) * scaleGoodQuality)
	case docScore < 30:
		return int(float64(base) * scaleLowQuality)
	default:
		return base
	}
}

// Chunk splits markdown into an ordered sequence of chunks, each at most
// maxWords long except where a single irreducible unit (one sentence)
// exceeds the budget.
func Chunk(markdown string, maxWords int) []string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil
	}
	if maxWords <= 0 {
		return []string{markdown}
	}

	var chunks []string
	for _, section := range splitSections(markdown) {
		if wordCount(section) <= maxWords {
			chunks = append(chunks, section)
			continue
		}
		chunks = append(chunks, splitOversized(section, maxWords)...)
	}
	return chunks
}

// splitSections splits on the heading-separator marker emitted by the
// Markdown converter.
func splitSections(markdown string) []string {
	var sections []string
	for _, part := range strings.Split(markdown, "\n---\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			sections = append(sections, part)
		}
	}
	return sections
}

// splitOversized breaks one oversized section at heading boundaries, then
// paragraph boundaries, then sentence boundaries, greedily packing parts
// into budget-sized chunks.
func splitOversized(section string, maxWords int) []string {
	// Heading boundaries first: a heading stays with its following content.
	if parts := splitAtHeadings(section); len(parts) >= 2 {
		return pack(parts, maxWords)
	}

	// No headings: paragraph-boundary packing.
	paragraphs := splitParagraphs(section)
	var parts []string
	for _, p := range paragraphs {
		if wordCount(p) <= maxWords {
			parts = append(parts, p)
			continue
		}
		// A single oversized paragraph falls back to sentence packing.
		parts = append(parts, pack(sentences(p), maxWords)...)
	}
	return pack(parts, maxWords)
}

// splitAtHeadings cuts the section before each Markdown heading line.
func splitAtHeadings(section string) []string {
	idxs := headingRe.FindAllStringIndex(section, -1)
	if len(idxs) == 0 {
		return nil
	}

	var cuts []int
	for _, idx := range idxs {
		if idx[0] > 0 {
			cuts = append(cuts, idx[0])
		}
	}
	if len(cuts) == 0 {
		return nil
	}

	var parts []string
	prev := 0
	for _, cut := range cuts {
		if piece := strings.TrimSpace(section[prev:cut]); piece != "" {
			parts = append(parts, piece)
		}
		prev = cut
	}
	if piece := strings.TrimSpace(section[prev:]); piece != "" {
		parts = append(parts, piece)
	}
	return parts
}

func splitParagraphs(section string) []string {
	var paragraphs []string
	for _, p := range strings.Split(section, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// sentences splits a paragraph into sentence units.
func sentences(paragraph string) []string {
	var out []string
	for _, s := range sentenceRe.FindAllString(paragraph, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{paragraph}
	}
	return out
}

// pack greedily joins consecutive parts into chunks not exceeding maxWords.
// A part that alone exceeds the budget becomes its own oversized chunk.
func pack(parts []string, maxWords int) []string {
	var chunks []string
	var current []string
	currentWords := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = nil
			currentWords = 0
		}
	}

	for _, part := range parts {
		w := wordCount(part)
		if currentWords+w > maxWords && currentWords > 0 {
			flush()
		}
		current = append(current, part)
		currentWords += w
		if currentWords > maxWords {
			// Oversized irreducible unit: emit whole rather than truncate.
			flush()
		}
	}
	flush()
	return chunks
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
