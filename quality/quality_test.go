package quality

import (
	"strings"
	"testing"
)

func newScorer() *Scorer {
	return NewScorer(DefaultCoefficients(), 25)
}

func TestScore_Deterministic(t *testing.T) {
	s := newScorer()
	text := "The committee released its findings on March 3. Revenue grew 12% year over year."
	if s.Score(text) != s.Score(text) {
		t.Error("identical input should produce identical scores")
	}
}

func TestScore_ClampedRange(t *testing.T) {
	s := newScorer()
	inputs := []string{
		"",
		"Menu",
		"Home About Contact Menu Privacy Policy Sitemap Login Register",
		strings.Repeat("spam spam spam ", 100),
		"According to the study, measured data confirmed the findings. Analysis of the survey recorded evidence across 42 regions, and researchers announced results in June 2024.",
	}
	for _, in := range inputs {
		got := s.Score(in)
		if got < 0 || got > 100 {
			t.Errorf("Score(%.30q) = %d, outside [0,100]", in, got)
		}
	}
}

func TestScore_NavigationBoilerplateFailsGate(t *testing.T) {
	s := newScorer()
	a := s.Assess("Home About Contact Menu")
	if a.PassesThreshold {
		t.Errorf("navigation-only chunk should fail the quality gate, scored %d", a.Score)
	}
}

func TestScore_InformativeProsePassesGate(t *testing.T) {
	s := newScorer()
	text := "LeBron James scored 35 points as the Lakers defeated the Celtics 112-108 on Tuesday. " +
		"The victory extended their winning streak to six games, according to league data. " +
		"Coach Redick praised the defensive effort in the fourth quarter."
	a := s.Assess(text)
	if !a.PassesThreshold {
		t.Errorf("informative prose should pass the quality gate, scored %d", a.Score)
	}
	if a.Score <= 50 {
		t.Errorf("informative prose should score above base, got %d", a.Score)
	}
}

// Adding an informational marker must never lower the score (monotonicity
// in the informational signal).
func TestScore_MonotonicInInformationalMarkers(t *testing.T) {
	s := newScorer()
	base := "The quarterly numbers improved across several regions during 2024. Management expects the trend to continue next year."
	with := base + " The research findings support this."

	if s.Score(with) < s.Score(base) {
		t.Errorf("adding informational markers lowered score: %d -> %d", s.Score(base), s.Score(with))
	}
}

// Adding promotional phrases must never raise the score.
func TestScore_MonotonicInPromoPhrases(t *testing.T) {
	s := newScorer()
	base := "The report describes measured improvements in delivery times across 14 cities during 2024."
	with := base + " Subscribe now for a free trial and exclusive deal, don't miss this limited offer!"

	if s.Score(with) >= s.Score(base) {
		t.Errorf("adding promo phrases did not lower score: %d -> %d", s.Score(base), s.Score(with))
	}
}

func TestScore_TinyTextPenalized(t *testing.T) {
	s := newScorer()
	tiny := s.Score("Just five words right here")
	sweet := s.Score(strings.Repeat("Measured data confirmed steady growth in output. ", 10))
	if tiny >= sweet {
		t.Errorf("tiny chunk (%d) should score below sweet-spot prose (%d)", tiny, sweet)
	}
}

func TestScore_RepetitionPenalized(t *testing.T) {
	s := newScorer()
	varied := "The harbor reopened after inspectors certified the repaired pylons. Shipping resumed within hours, and backlogged freight cleared by Friday."
	repeated := strings.Repeat("buy widget now because widget widget widget is best widget ", 8)
	if s.Score(repeated) >= s.Score(varied) {
		t.Errorf("repetitive text (%d) should score below varied prose (%d)", s.Score(repeated), s.Score(varied))
	}
}

func TestAssess_ThresholdBoundary(t *testing.T) {
	coef := DefaultCoefficients()
	s := NewScorer(coef, 25)
	// Empty text bottoms out below any reasonable threshold.
	if a := s.Assess(""); a.PassesThreshold {
		t.Errorf("empty text must fail the gate, scored %d", a.Score)
	}
}
