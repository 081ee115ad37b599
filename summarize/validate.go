package summarize

import (
	"strings"

	"github.com/use-agent/distill/classify"
)

// minSummaryChars rejects degenerate backend output.
const minSummaryChars = 10

// entityRetentionFloor is the fraction of the source's key entities that
// must survive into the summary. A summary that loses more than this has
// hallucinated or gutted the section.
const entityRetentionFloor = 0.3

// ValidSummary reports whether a candidate summary is usable as a
// replacement for the original section.
func ValidSummary(original, summary string, cls classify.Classification) bool {
	summary = strings.TrimSpace(summary)
	if len(summary) < minSummaryChars {
		return false
	}
	if len(summary) >= len(original) {
		return false
	}

	key := cls.KeyEntities
	if len(key) <= 2 {
		return true
	}
	lower := strings.ToLower(summary)
	retained := 0
	for _, e := range key {
		if strings.Contains(lower, strings.ToLower(e)) {
			retained++
		}
	}
	return float64(retained) >= entityRetentionFloor*float64(len(key))
}
