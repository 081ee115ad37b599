package summarize

import (
	"strings"
	"testing"

	"github.com/use-agent/distill/classify"
)

func TestStrategyFor_StructuredDense(t *testing.T) {
	cls := classify.Classification{Density: classify.DensityHigh, HasTable: true}
	s := StrategyFor(cls)
	if !s.PreserveStructure {
		t.Error("dense structured content must preserve structure")
	}
	if s.Passes != 2 {
		t.Errorf("expected two passes, got %d", s.Passes)
	}
}

func TestStrategyFor_LowDensitySinglePass(t *testing.T) {
	s := StrategyFor(classify.Classification{Density: classify.DensityLow})
	if s.Passes != 1 {
		t.Errorf("low density should condense in one pass, got %d", s.Passes)
	}
}

func TestStrategyFor_NarrativeGentle(t *testing.T) {
	narrative := StrategyFor(classify.Classification{Density: classify.DensityHigh, IsNarrative: true})
	thin := StrategyFor(classify.Classification{Density: classify.DensityLow})
	if narrative.FirstPassRatio <= thin.FirstPassRatio {
		t.Errorf("dense narrative (%f) should compress more gently than thin prose (%f)",
			narrative.FirstPassRatio, thin.FirstPassRatio)
	}
}

func TestNotNeededThreshold_Monotonic(t *testing.T) {
	high := notNeededThreshold(classify.DensityHigh, 100)
	medium := notNeededThreshold(classify.DensityMedium, 100)
	low := notNeededThreshold(classify.DensityLow, 100)
	if !(high <= medium) {
		t.Errorf("dense sections should condense no later than medium: high=%d medium=%d", high, medium)
	}
	if low != 100 {
		t.Errorf("low density threshold should be the budget itself, got %d", low)
	}
}

func TestValidSummary_TooShort(t *testing.T) {
	if ValidSummary("a long original text about things", "ok", classify.Classification{}) {
		t.Error("sub-10-char summary should be invalid")
	}
}

func TestValidSummary_NotShorterThanOriginal(t *testing.T) {
	orig := "short original"
	if ValidSummary(orig, orig+" plus extra words appended", classify.Classification{}) {
		t.Error("summary longer than original should be invalid")
	}
}

func TestValidSummary_EntityLoss(t *testing.T) {
	cls := classify.Classification{KeyEntities: []string{"Acme Corporation", "John Smith", "Boston", "2024", "45"}}
	orig := strings.Repeat("Acme Corporation and John Smith met in Boston in 2024 to discuss 45 proposals. ", 5)

	if ValidSummary(orig, "Several parties met somewhere to discuss various proposals at length.", cls) {
		t.Error("summary retaining zero key entities should be invalid")
	}
	if !ValidSummary(orig, "Acme Corporation met John Smith in 2024.", cls) {
		t.Error("summary retaining most key entities should be valid")
	}
}

func TestPostprocess_StripsFiller(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"In summary, the deal closed.", "the deal closed."},
		{"Overall, profits rose.", "profits rose."},
		{"The deal closed.", "The deal closed."},
	}
	for _, tt := range tests {
		if got := Postprocess(tt.in); got != tt.want {
			t.Errorf("Postprocess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPostprocess_CompactsNumbers(t *testing.T) {
	got := Postprocess("Revenue was more than 45 million dollars, up 12 percent.")
	if !strings.Contains(got, ">45M") {
		t.Errorf("numeric phrasing not compacted: %q", got)
	}
	if !strings.Contains(got, "12%") {
		t.Errorf("percent not compacted: %q", got)
	}
}

func TestExtractive_PrefersFactualSentences(t *testing.T) {
	cls := classify.Classification{KeyEntities: []string{"Acme"}}
	text := "The weather was pleasant that day. Acme reported revenue of 45 million dollars. People walked around downtown. The report said profits rose 12 percent in 2024. It was a quiet afternoon overall and nothing else happened there."

	got := Extractive(text, 40, cls)
	if !strings.Contains(got, "45 million") {
		t.Errorf("numeric sentence should be selected: %q", got)
	}
	if wordCount(got) >= wordCount(text) {
		t.Error("extractive summary should be shorter than input")
	}
}

func TestExtractive_PreservesOriginalOrder(t *testing.T) {
	text := "First fact: 10 units shipped. Filler sentence with no content at all here. Second fact: 20 units returned. More filler without any numbers present. Third fact: 30 units repaired."

	got := Extractive(text, 60, classify.Classification{})
	i10 := strings.Index(got, "10 units")
	i20 := strings.Index(got, "20 units")
	i30 := strings.Index(got, "30 units")
	if i10 == -1 || i20 == -1 || i30 == -1 {
		t.Fatalf("factual sentences missing: %q", got)
	}
	if !(i10 < i20 && i20 < i30) {
		t.Errorf("sentence order not preserved: %q", got)
	}
}

func TestExtractive_ShortInputUnchanged(t *testing.T) {
	text := "Only one sentence here with 5 words."
	if got := Extractive(text, 400, classify.Classification{}); got != text {
		t.Errorf("input below target should pass through, got %q", got)
	}
}

func TestKeyFacts_NamesEntitiesAndNumbers(t *testing.T) {
	cls := classify.Classification{KeyEntities: []string{"Acme Corporation", "Boston"}}
	text := "Acme Corporation opened a Boston office. The office employs 120 people as of 2024."

	got := KeyFacts(text, cls)
	if !strings.Contains(got, "Acme Corporation") {
		t.Errorf("key entities missing: %q", got)
	}
	if !strings.Contains(got, "120 people") {
		t.Errorf("numeric fact missing: %q", got)
	}
}

func TestKeyFacts_EmptyWhenNothingConcrete(t *testing.T) {
	if got := KeyFacts("vague words only", classify.Classification{}); got != "" {
		t.Errorf("expected empty key facts, got %q", got)
	}
}
