package cleaner

import "unicode/utf8"

// EstimateTokens approximates the LLM token count of text as rune count / 3,
// floored at 1 for non-empty input. The divisor sits between the ~4 chars
// per token of English prose and the ~1.5 of CJK text, erring toward
// over-counting so reported savings are never overstated.
func EstimateTokens(text string) int {
	runes := utf8.RuneCountInString(text)
	if runes == 0 {
		return 0
	}
	if runes < 3 {
		return 1
	}
	return runes / 3
}
