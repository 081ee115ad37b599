package summarize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/use-agent/distill/classify"
)

var (
	digitRe         = regexp.MustCompile(`\d`)
	sentenceSplitRe = regexp.MustCompile(`([.!?])\s+`)
	reportingVerbRe = regexp.MustCompile(`(?i)\b(said|announced|reported|confirmed|revealed|stated|found|showed|according)\b`)
)

// wordsPerSentence approximates the sentence count needed to hit a word
// target when selecting whole sentences.
const wordsPerSentence = 20

// Extractive builds a summary by selecting the highest-scoring sentences
// and reassembling them in original order. It needs no external backend and
// serves as the first fallback tier.
func Extractive(text string, targetWords int, cls classify.Classification) string {
	sents := splitSentences(text)
	if len(sents) == 0 {
		return strings.TrimSpace(text)
	}

	want := targetWords / wordsPerSentence
	if want < 1 {
		want = 1
	}
	if want >= len(sents) {
		return strings.TrimSpace(text)
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sents))
	for i, s := range sents {
		ranked[i] = scored{idx: i, score: scoreSentence(s, cls)}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	pick := make([]int, 0, want)
	for _, r := range ranked[:want] {
		pick = append(pick, r.idx)
	}
	sort.Ints(pick)

	out := make([]string, 0, len(pick))
	for _, i := range pick {
		out = append(out, strings.TrimSpace(sents[i]))
	}
	return strings.Join(out, " ")
}

// scoreSentence favors sentences carrying hard facts: numbers weigh double,
// named entities single, reporting verbs half. Very short fragments are
// penalized since they rarely stand alone.
func scoreSentence(s string, cls classify.Classification) float64 {
	score := 0.0
	score += 2.0 * float64(len(digitRe.FindAllString(s, 10)))

	lower := strings.ToLower(s)
	for _, e := range cls.KeyEntities {
		if strings.Contains(lower, strings.ToLower(e)) {
			score += 1.0
		}
	}

	score += 0.5 * float64(len(reportingVerbRe.FindAllString(s, 4)))

	if len(strings.Fields(s)) < 5 {
		score -= 2.0
	}
	return score
}

func splitSentences(text string) []string {
	marked := sentenceSplitRe.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
