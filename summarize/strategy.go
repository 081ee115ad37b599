package summarize

import "github.com/use-agent/distill/classify"

// Strategy controls how aggressively a section is condensed and in how many
// passes. The strategy derives from the section's classification: dense
// structured content loses facts under heavy compression, while thin prose
// tolerates it.
type Strategy struct {
	// FirstPassRatio multiplies the final word target for the first pass
	// of a multi-pass run. A second pass then tightens to the target.
	FirstPassRatio float64

	// PreserveStructure keeps Markdown lists and tables intact.
	PreserveStructure bool

	// Passes is 1 or 2. Two passes condense gradually, which retains more
	// named facts than a single aggressive pass.
	Passes int
}

// StrategyFor picks the condensing strategy for a classified section.
func StrategyFor(cls classify.Classification) Strategy {
	structured := cls.HasListStructure || cls.HasTable

	switch {
	case structured && cls.Density == classify.DensityHigh:
		return Strategy{FirstPassRatio: 1.6, PreserveStructure: true, Passes: 2}
	case cls.Density == classify.DensityLow:
		return Strategy{FirstPassRatio: 1.2, Passes: 1}
	case cls.Density == classify.DensityHigh && cls.IsNarrative:
		return Strategy{FirstPassRatio: 1.9, Passes: 2}
	default:
		return Strategy{FirstPassRatio: 1.8, Passes: 2}
	}
}

// notNeededThreshold is the word count below which a section of the given
// density passes through untouched. Dense sections condense earlier since
// they lose the most under a hard word cap; thin sections only condense once
// they exceed the budget outright.
func notNeededThreshold(density classify.Density, targetWords int) int {
	switch density {
	case classify.DensityHigh:
		return max(300, targetWords)
	case classify.DensityMedium:
		return max(500, targetWords)
	default:
		return targetWords
	}
}
