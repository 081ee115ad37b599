package cleaner

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/use-agent/distill/simhash"
)

var (
	excessBlankRe = regexp.MustCompile(`\n{3,}`)
	trailingWSRe  = regexp.MustCompile(`(?m)[ \t]+$`)
	multiSpaceRe  = regexp.MustCompile(`[ \t]{2,}`)
	ellipsisRe    = regexp.MustCompile(`\.{4,}`)
	sentenceEndRe = regexp.MustCompile(`([.!?])\s+`)
)

// charFolds maps typographic characters onto their plain ASCII equivalents.
// Model tokenizers handle the plain forms more predictably.
var charFolds = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-",
	"…", "...",
	" ", " ", " ", " ", " ", " ",
	"•", "*", "●", "*", "▪", "*", "⁃", "*",
	"​", "",
)

// NormalizeText folds typographic characters, strips trailing whitespace,
// collapses runs of spaces outside code fences, and caps consecutive blank
// lines at one.
func NormalizeText(text string) string {
	text = charFolds.Replace(text)
	text = ellipsisRe.ReplaceAllString(text, "...")
	text = trailingWSRe.ReplaceAllString(text, "")

	var out []string
	inFence := false
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		out = append(out, indent+multiSpaceRe.ReplaceAllString(strings.TrimLeft(line, " \t"), " "))
	}
	text = strings.Join(out, "\n")

	text = excessBlankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Deduplicator removes repeated paragraphs and sentences from a document.
// Exact repeats are caught by normalized-form lookup; near repeats by
// simhash fingerprint distance. State accumulates across calls so the same
// instance can dedup a multi-part document globally.
type Deduplicator struct {
	paragraphs map[string]struct{}
	sentences  map[string]struct{}
	near       *simhash.Index
}

// NewDeduplicator builds a Deduplicator whose near-duplicate detection
// tolerates the given Hamming distance between fingerprints.
func NewDeduplicator(nearThreshold int) *Deduplicator {
	return &Deduplicator{
		paragraphs: make(map[string]struct{}),
		sentences:  make(map[string]struct{}),
		near:       simhash.NewIndex(nearThreshold),
	}
}

// Dedup filters the text paragraph by paragraph. Headings, emphasis-only
// lines, and code fences pass through verbatim; prose paragraphs are dropped
// when previously seen (exactly or nearly), and surviving long paragraphs
// additionally have repeated sentences removed.
func (d *Deduplicator) Dedup(text string) string {
	blocks := strings.Split(text, "\n\n")
	kept := blocks[:0]

	inFence := false
	for _, block := range blocks {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "```") || inFence {
			if strings.Count(trimmed, "```")%2 == 1 {
				inFence = !inFence
			}
			kept = append(kept, block)
			continue
		}
		if isStructuralBlock(trimmed) {
			kept = append(kept, block)
			continue
		}

		norm := normalizeForCompare(trimmed)
		if _, seen := d.paragraphs[norm]; seen {
			continue
		}
		if len(norm) > 40 && d.near.SeenSimilar(norm) {
			continue
		}
		d.paragraphs[norm] = struct{}{}

		kept = append(kept, d.dedupSentences(block))
	}
	return strings.Join(kept, "\n\n")
}

// isStructuralBlock reports whether a block is Markdown structure that must
// survive even when its text recurs (headings, rules, tables, lists).
func isStructuralBlock(trimmed string) bool {
	switch {
	case strings.HasPrefix(trimmed, "#"),
		strings.HasPrefix(trimmed, "---"),
		strings.HasPrefix(trimmed, "|"),
		strings.HasPrefix(trimmed, "* "),
		strings.HasPrefix(trimmed, "- "),
		strings.HasPrefix(trimmed, "> "),
		strings.HasPrefix(trimmed, "**"):
		return true
	}
	return false
}

// dedupSentences removes sentences already emitted elsewhere in the
// document. Short fragments are left alone; dropping them causes more harm
// than the duplication they might represent.
func (d *Deduplicator) dedupSentences(block string) string {
	sentences := splitSentences(block)
	if len(sentences) < 2 {
		d.recordSentences(sentences)
		return block
	}

	kept := sentences[:0]
	for _, s := range sentences {
		trimmed := strings.TrimSpace(s)
		if len(trimmed) <= 10 {
			kept = append(kept, s)
			continue
		}
		norm := normalizeForCompare(trimmed)
		if len(norm) > 20 {
			if _, seen := d.sentences[norm]; seen {
				continue
			}
			d.sentences[norm] = struct{}{}
		}
		kept = append(kept, s)
	}
	return strings.Join(kept, " ")
}

func (d *Deduplicator) recordSentences(sentences []string) {
	for _, s := range sentences {
		norm := normalizeForCompare(strings.TrimSpace(s))
		if len(norm) > 20 {
			d.sentences[norm] = struct{}{}
		}
	}
}

// splitSentences breaks a block after terminal punctuation, keeping the
// punctuation with its sentence.
func splitSentences(block string) []string {
	marked := sentenceEndRe.ReplaceAllString(block, "$1\x00")
	parts := strings.Split(marked, "\x00")
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeForCompare lowercases, strips punctuation, and collapses
// whitespace so cosmetic differences do not defeat duplicate detection.
func normalizeForCompare(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
