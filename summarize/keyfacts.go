package summarize

import (
	"strings"

	"github.com/use-agent/distill/classify"
)

const maxKeyFacts = 6

// KeyFacts is the last resort before passing a section through verbatim:
// a single line naming the section's entities plus its most fact-dense
// sentences, semicolon-joined. Lossy but never empty while the section
// mentions anything concrete.
func KeyFacts(text string, cls classify.Classification) string {
	var parts []string

	if len(cls.KeyEntities) > 0 {
		n := len(cls.KeyEntities)
		if n > 3 {
			n = 3
		}
		parts = append(parts, "Key subjects: "+strings.Join(cls.KeyEntities[:n], ", "))
	}

	for _, s := range splitSentences(text) {
		if len(parts) >= maxKeyFacts+1 {
			break
		}
		if digitRe.MatchString(s) && len(strings.Fields(s)) >= 5 {
			parts = append(parts, strings.TrimSpace(s))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ")
}
