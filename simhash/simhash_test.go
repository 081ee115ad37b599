package simhash

import "testing"

func TestFingerprint_IdenticalTexts(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	fp1 := Fingerprint(text)
	fp2 := Fingerprint(text)

	if fp1 != fp2 {
		t.Errorf("identical texts produced different fingerprints: %064b vs %064b", fp1, fp2)
	}
}

func TestFingerprint_CaseAndPunctuationFolding(t *testing.T) {
	fp1 := Fingerprint("Breaking News: markets rally today!")
	fp2 := Fingerprint("breaking news markets rally today")

	if fp1 != fp2 {
		t.Errorf("case/punctuation variants should fingerprint identically: %064b vs %064b", fp1, fp2)
	}
}

func TestFingerprint_SimilarTexts(t *testing.T) {
	fp1 := Fingerprint("the quick brown fox jumps over the lazy dog")
	fp2 := Fingerprint("the quick brown fox leaps over the lazy dog")

	dist := Distance(fp1, fp2)
	if dist > 10 {
		t.Errorf("similar texts have too large distance: %d", dist)
	}
}

func TestFingerprint_DifferentTexts(t *testing.T) {
	fp1 := Fingerprint("the quick brown fox jumps over the lazy dog")
	fp2 := Fingerprint("completely unrelated content about quantum physics and mathematics")

	dist := Distance(fp1, fp2)
	if dist < 5 {
		t.Errorf("very different texts have too small distance: %d", dist)
	}
}

func TestFingerprint_EmptyInput(t *testing.T) {
	if fp := Fingerprint(""); fp != 0 {
		t.Errorf("empty input should produce fingerprint 0, got: %064b", fp)
	}
	if fp := Fingerprint("   \t\n  "); fp != 0 {
		t.Errorf("whitespace-only input should produce fingerprint 0, got: %064b", fp)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want int
	}{
		{"identical", 0xFF, 0xFF, 0},
		{"all different", 0, ^uint64(0), 64},
		{"one bit", 0, 1, 1},
		{"two bits", 0, 3, 2},
		{"zero zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Distance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIndex_SeenSimilar(t *testing.T) {
	ix := NewIndex(3)

	if ix.SeenSimilar("subscribe to our newsletter for weekly updates") {
		t.Error("first occurrence should not be flagged as duplicate")
	}
	if !ix.SeenSimilar("Subscribe to our newsletter for weekly updates!") {
		t.Error("case/punctuation variant should be flagged as near-duplicate")
	}
	if ix.SeenSimilar("a completely different paragraph about deep sea biology and hydrothermal vents") {
		t.Error("unrelated paragraph should not be flagged")
	}
}

func TestIndex_EmptyNeverDuplicate(t *testing.T) {
	ix := NewIndex(3)
	if ix.SeenSimilar("") {
		t.Error("empty text should never be a duplicate")
	}
	if ix.SeenSimilar("") {
		t.Error("empty text should never be a duplicate, even repeated")
	}
}
