package chunker

import (
	"strings"
	"testing"
)

func TestAdaptiveBudget(t *testing.T) {
	tests := []struct {
		name     string
		base     int
		docScore int
		want     int
	}{
		{"high quality scales up", 400, 75, 560},
		{"good quality scales up mildly", 400, 55, 480},
		{"mid quality unscaled", 400, 40, 400},
		{"low quality scales down", 400, 20, 320},
		{"boundary 70", 400, 70, 560},
		{"boundary 50", 400, 50, 480},
		{"boundary 30", 400, 30, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdaptiveBudget(tt.base, tt.docScore); got != tt.want {
				t.Errorf("AdaptiveBudget(%d, %d) = %d, want %d", tt.base, tt.docScore, got, tt.want)
			}
		})
	}
}

func TestChunk_Empty(t *testing.T) {
	if got := Chunk("", 100); got != nil {
		t.Errorf("empty markdown should yield no chunks, got %v", got)
	}
	if got := Chunk("   \n\n  ", 100); got != nil {
		t.Errorf("whitespace-only markdown should yield no chunks, got %v", got)
	}
}

func TestChunk_SmallSectionKeptWhole(t *testing.T) {
	md := "# Title\n\nA short paragraph that fits easily."
	chunks := Chunk(md, 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != md {
		t.Errorf("small section should pass through unchanged")
	}
}

func TestChunk_SectionSeparators(t *testing.T) {
	md := "# One\n\nFirst section text.\n---\n# Two\n\nSecond section text."
	chunks := Chunk(md, 100)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks split at separator, got %d: %v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "First section") || !strings.Contains(chunks[1], "Second section") {
		t.Errorf("section content misassigned: %v", chunks)
	}
}

func TestChunk_HeadingBoundariesKeepHeadingWithContent(t *testing.T) {
	para := strings.Repeat("word ", 60)
	md := "# Alpha\n\n" + para + "\n\n# Beta\n\n" + para
	chunks := Chunk(md, 80)

	if len(chunks) < 2 {
		t.Fatalf("oversized section should split at headings, got %d chunks", len(chunks))
	}
	for _, c := range chunks {
		if strings.HasSuffix(strings.TrimSpace(c), "# Alpha") || strings.HasSuffix(strings.TrimSpace(c), "# Beta") {
			t.Errorf("a heading was split from its content: %q", c)
		}
	}
}

func TestChunk_ParagraphPacking(t *testing.T) {
	p := strings.Repeat("alpha beta gamma delta epsilon ", 8) // 40 words
	md := p + "\n\n" + p + "\n\n" + p
	chunks := Chunk(md, 90)

	if len(chunks) != 2 {
		t.Fatalf("expected 3 x 40-word paragraphs to pack into 2 chunks at budget 90, got %d", len(chunks))
	}
	for i, c := range chunks {
		if wordCount(c) > 90 {
			t.Errorf("chunk %d exceeds budget: %d words", i, wordCount(c))
		}
	}
}

func TestChunk_OversizedSentenceEmittedWhole(t *testing.T) {
	// One sentence of 50 words, budget 20: must be emitted whole, untruncated.
	sentence := strings.TrimSpace(strings.Repeat("relentless ", 50)) + "."
	chunks := Chunk(sentence, 20)

	if len(chunks) != 1 {
		t.Fatalf("irreducible sentence should be one chunk, got %d", len(chunks))
	}
	if wordCount(chunks[0]) != 50 {
		t.Errorf("oversized sentence was truncated: %d words remain", wordCount(chunks[0]))
	}
}

func TestChunk_SentenceFallbackWithinParagraph(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("This sentence has exactly eight words in it. ")
	}
	chunks := Chunk(strings.TrimSpace(b.String()), 25)

	if len(chunks) < 3 {
		t.Fatalf("80-word paragraph should split into several sentence-packed chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if wordCount(c) > 25 {
			t.Errorf("chunk %d exceeds budget after sentence packing: %d words", i, wordCount(c))
		}
	}
}

func TestChunk_NoContentLost(t *testing.T) {
	md := "# Header\n\n" + strings.Repeat("unique"+"A ", 30) + "\n\n" + strings.Repeat("uniqueB ", 30)
	chunks := Chunk(md, 25)

	joined := strings.Join(chunks, " ")
	if wordCount(joined) != wordCount(md) {
		t.Errorf("chunking changed total word count: %d != %d", wordCount(joined), wordCount(md))
	}
}
