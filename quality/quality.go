// Package quality scores text chunks for informational value on a 0-100
// scale. The score gates whether a chunk is summarized, kept verbatim, or
// dropped from the output entirely.
package quality

import (
	"regexp"
	"strings"
)

// Assessment is the result of scoring one chunk against a minimum threshold.
type Assessment struct {
	Score           int
	PassesThreshold bool
}

// Coefficients gathers every adjustment the scorer applies, so the
// heuristics are tunable and testable in one place. All adjustments are
// additive on top of Base; the final score is clamped to [0,100].
type Coefficients struct {
	Base int

	// Word-count sweet spot.
	SweetSpotBonus   int // word count in [SweetSpotLo, SweetSpotHi]
	ShortBonus       int // word count in [ShortLo, SweetSpotLo)
	TinyPenalty      int // word count < ShortLo (subtracted)
	VerbosePenalty   int // word count > VerboseHi (subtracted)
	SweetSpotLo      int
	SweetSpotHi      int
	ShortLo          int
	VerboseHi        int

	NumberBonus      int // contains a digit
	ProperNounBonus  int // contains a capitalized word mid-text
	SentencesBonus   int // >= 2 sentence terminators

	RichVocabBonus   int // unique/total ratio > RichVocabRatio
	PoorVocabPenalty int // unique/total ratio < PoorVocabRatio (subtracted)
	RichVocabRatio   float64
	PoorVocabRatio   float64

	// Per-match penalties for boilerplate phrase classes.
	PromoPenalty   int
	NavPenalty     int
	MetaPenalty    int
	LoadingPenalty int

	// Repetition: words occurring more than max(RepeatFloor, count*RepeatFrac)
	// times and together exceeding RepeatShare of all words.
	RepetitionPenalty int
	RepeatFloor       int
	RepeatFrac        float64
	RepeatShare       float64

	InformationalBonus int // informational markers present
	FactualBonus       int // factual markers present
}

// DefaultCoefficients is the reference baseline. The exact constants are
// a tuning surface, not a contract; behavior is validated by monotonicity
// and boundary tests instead of pinned outputs.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		Base: 50,

		SweetSpotBonus: 20,
		ShortBonus:     10,
		TinyPenalty:    25,
		VerbosePenalty: 10,
		SweetSpotLo:    30,
		SweetSpotHi:    300,
		ShortLo:        10,
		VerboseHi:      500,

		NumberBonus:     10,
		ProperNounBonus: 10,
		SentencesBonus:  15,

		RichVocabBonus:   10,
		PoorVocabPenalty: 15,
		RichVocabRatio:   0.7,
		PoorVocabRatio:   0.3,

		PromoPenalty:   8,
		NavPenalty:     8,
		MetaPenalty:    4,
		LoadingPenalty: 15,

		RepetitionPenalty: 20,
		RepeatFloor:       3,
		RepeatFrac:        0.1,
		RepeatShare:       0.3,

		InformationalBonus: 8,
		FactualBonus:       10,
	}
}

var (
	promoRe   = regexp.MustCompile(`(?i)\b(subscribe|sign up|newsletter|free trial|limited offer|buy now|discount|click here|don't miss|act now|exclusive deal)\b`)
	navRe     = regexp.MustCompile(`(?i)\b(home|about us|contact|menu|privacy policy|terms of service|sitemap|log ?in|register|back to top)\b`)
	metaRe    = regexp.MustCompile(`(?i)\b(posted on|published by|tagged|filed under|share this|comments? \(\d+\)|read more|related articles)\b`)
	loadingRe = regexp.MustCompile(`(?i)\b(loading|please wait|javascript is (required|disabled)|enable javascript|404 not found|access denied|error occurred)\b`)

	informationalRe = regexp.MustCompile(`(?i)\b(research|study|analysis|report|data|findings|evidence|survey)\b`)
	factualRe       = regexp.MustCompile(`(?i)\b(according to|announced|confirmed|measured|recorded|stated|estimated)\b`)

	digitRe      = regexp.MustCompile(`\d`)
	properRe     = regexp.MustCompile(`\s[A-Z][a-z]+`)
	terminatorRe = regexp.MustCompile(`[.!?]`)
)

// Scorer computes quality scores with a fixed coefficient set.
type Scorer struct {
	coef     Coefficients
	minScore int
}

// NewScorer creates a Scorer gating at minScore (chunks below it are dropped).
func NewScorer(coef Coefficients, minScore int) *Scorer {
	return &Scorer{coef: coef, minScore: minScore}
}

// Assess scores text and applies the drop threshold.
func (s *Scorer) Assess(text string) Assessment {
	score := s.Score(text)
	return Assessment{Score: score, PassesThreshold: score >= s.minScore}
}

// Score computes the 0-100 quality score for a chunk of text.
// Pure and deterministic: identical input always yields an identical score.
func (s *Scorer) Score(text string) int {
	c := s.coef
	words := strings.Fields(text)
	wordCount := len(words)

	score := c.Base

	switch {
	case wordCount >= c.SweetSpotLo && wordCount <= c.SweetSpotHi:
		score += c.SweetSpotBonus
	case wordCount >= c.ShortLo && wordCount < c.SweetSpotLo:
		score += c.ShortBonus
	case wordCount < c.ShortLo:
		score -= c.TinyPenalty
	}
	if wordCount > c.VerboseHi {
		score -= c.VerbosePenalty
	}

	if digitRe.MatchString(text) {
		score += c.NumberBonus
	}
	if properRe.MatchString(text) {
		score += c.ProperNounBonus
	}
	if len(terminatorRe.FindAllString(text, 2)) >= 2 {
		score += c.SentencesBonus
	}

	if wordCount > 0 {
		ratio := vocabularyRatio(words)
		if ratio > c.RichVocabRatio {
			score += c.RichVocabBonus
		} else if ratio < c.PoorVocabRatio {
			score -= c.PoorVocabPenalty
		}
	}

	score -= len(promoRe.FindAllString(text, -1)) * c.PromoPenalty
	score -= len(navRe.FindAllString(text, -1)) * c.NavPenalty
	score -= len(metaRe.FindAllString(text, -1)) * c.MetaPenalty
	score -= len(loadingRe.FindAllString(text, -1)) * c.LoadingPenalty

	if hasExcessiveRepetition(words, c) {
		score -= c.RepetitionPenalty
	}

	if informationalRe.MatchString(text) {
		score += c.InformationalBonus
	}
	if factualRe.MatchString(text) {
		score += c.FactualBonus
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// vocabularyRatio is unique words / total words, case-insensitive.
func vocabularyRatio(words []string) float64 {
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}

// hasExcessiveRepetition reports whether words repeated beyond the frequency
// ceiling together make up more than RepeatShare of all words.
func hasExcessiveRepetition(words []string, c Coefficients) bool {
	if len(words) == 0 {
		return false
	}

	ceiling := int(float64(len(words)) * c.RepeatFrac)
	if ceiling < c.RepeatFloor {
		ceiling = c.RepeatFloor
	}

	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[strings.ToLower(w)]++
	}

	repeated := 0
	for _, n := range counts {
		if n > ceiling {
			repeated += n
		}
	}

	return float64(repeated) > float64(len(words))*c.RepeatShare
}
