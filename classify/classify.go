// Package classify tags text chunks by content domain and information
// density. The classification parameterizes the summarization strategy:
// dense structured content gets gentle compression, thin content gets
// aggressive single-pass compression.
package classify

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// Density buckets for informationDensity.
type Density string

const (
	DensityHigh   Density = "high"
	DensityMedium Density = "medium"
	DensityLow    Density = "low"
)

// Classification is the per-chunk content profile.
type Classification struct {
	// Domain is the winning topic domain: sports, financial, news,
	// technical, or general.
	Domain string

	// Subtype is an optional domain-specific refinement (e.g. "statistics"
	// within sports). Empty when no subtype keyword is present.
	Subtype string

	// Density is the information-density bucket.
	Density Density

	// KeyEntities is the ordered, capped, exact-match-deduplicated entity set.
	KeyEntities []string

	// Entities carries the full per-category extraction.
	Entities Entities

	// HasNumericData is true when any numeric entity was extracted.
	HasNumericData bool

	// HasListStructure is true when more than 3 lines start with a bullet.
	HasListStructure bool

	// HasTable is true when a Markdown table or table summary is present.
	HasTable bool

	// IsNarrative marks quote-bearing low-structure prose; narrative
	// content is the only kind summarized with sampling enabled.
	IsNarrative bool
}

// domainKeywords maps each candidate domain to its stemmed keyword set.
// Stems come from snowball's English stemmer, so matching is inflection-
// insensitive ("scored" and "scoring" both hit "score").
var domainKeywords = map[string][]string{
	"sports":    {"game", "team", "player", "score", "season", "coach", "win", "defeat", "league", "match", "championship", "tournament"},
	"financial": {"market", "stock", "revenue", "profit", "invest", "earn", "share", "trade", "economi", "bank", "fund", "quarter"},
	"news":      {"govern", "elect", "polici", "announc", "offici", "presid", "minist", "report", "state", "nation"},
	"technical": {"software", "data", "system", "code", "server", "algorithm", "network", "develop", "api", "comput", "engin"},
}

// subtypeKeywords refines the winning domain with a secondary tag.
var subtypeKeywords = map[string]map[string][]string{
	"sports": {
		"betting":    {"odd", "bet", "wager", "spread", "bookmak"},
		"statistics": {"stat", "averag", "record", "rank", "point"},
	},
	"financial": {
		"markets":  {"index", "nasdaq", "dow", "etf", "bond"},
		"earnings": {"quarter", "eps", "guidanc", "forecast"},
	},
	"technical": {
		"infrastructure": {"server", "deploy", "cluster", "cloud"},
		"development":    {"code", "librari", "framework", "compil"},
	},
}

// informativeRe matches marker words whose frequency feeds the density base.
var informativeRe = regexp.MustCompile(`(?i)\b(research|data|findings|study|analysis|results|evidence|statistics|measured|report)\b`)

var bulletLineRe = regexp.MustCompile(`(?m)^\s*[-*•·+]\s`)

// tableMarker is emitted by the markdown converter when a complex table is
// summarized instead of rendered; its presence counts as table structure.
const tableMarker = "**Table Data**"

// Classifier computes content classifications. It is stateless and pure:
// no I/O, deterministic for identical input.
type Classifier struct {
	// density thresholds: signal >= HighAt → high, >= MediumAt → medium.
	HighAt   int
	MediumAt int
}

// New creates a Classifier with the reference thresholds.
func New() *Classifier {
	return &Classifier{HighAt: 20, MediumAt: 10}
}

// Classify computes the full content profile for one chunk of text.
func (c *Classifier) Classify(text string) Classification {
	entities := ExtractEntities(text)

	cls := Classification{
		Domain:           c.scoreDomain(text),
		Entities:         entities,
		KeyEntities:      entities.Key(),
		HasNumericData:   entities.NumericCount() > 0,
		HasListStructure: len(bulletLineRe.FindAllString(text, 4)) > 3,
		HasTable:         strings.Contains(text, tableMarker) || hasPipeRows(text),
	}
	cls.Subtype = c.refineSubtype(cls.Domain, text)
	cls.Density = c.density(text, entities, cls)
	cls.IsNarrative = len(entities.Quotations) > 0 && !cls.HasTable && !cls.HasListStructure

	return cls
}

// scoreDomain stems every token and counts hits against each domain's
// keyword set; the highest count wins if it clears the floor (>1), else
// the domain is "general".
func (c *Classifier) scoreDomain(text string) string {
	stems := stemTokens(text)

	best, bestCount := "general", 1
	for domain, keywords := range domainKeywords {
		count := 0
		for _, kw := range keywords {
			count += stems[kw]
		}
		if count > bestCount {
			best, bestCount = domain, count
		}
	}
	return best
}

// refineSubtype is keyword-presence enrichment layered on the domain
// decision; absence of a subtype never affects correctness.
func (c *Classifier) refineSubtype(domain, text string) string {
	subtypes, ok := subtypeKeywords[domain]
	if !ok {
		return ""
	}
	stems := stemTokens(text)

	best, bestCount := "", 0
	for subtype, keywords := range subtypes {
		count := 0
		for _, kw := range keywords {
			count += stems[kw]
		}
		if count > bestCount {
			best, bestCount = subtype, count
		}
	}
	return best
}

// density combines the informative-marker ratio with bonuses for entities,
// numeric values, vocabulary diversity, and structural markers. Each input
// signal contributes monotonically: more of any signal never lowers the
// bucket.
func (c *Classifier) density(text string, entities Entities, cls Classification) Density {
	words := strings.Fields(text)
	if len(words) == 0 {
		return DensityLow
	}

	markers := len(informativeRe.FindAllString(text, -1))
	signal := int(float64(markers) / float64(len(words)) * 200)

	signal += entities.Count()
	signal += entities.NumericCount() * 2

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	if float64(len(unique))/float64(len(words)) > 0.6 {
		signal += 3
	}

	if cls.HasListStructure {
		signal += 3
	}
	if cls.HasTable {
		signal += 4
	}

	switch {
	case signal >= c.HighAt:
		return DensityHigh
	case signal >= c.MediumAt:
		return DensityMedium
	default:
		return DensityLow
	}
}

// stemTokens lowercases, tokenizes, and Porter-stems text into a stem
// frequency map. Tokens that fail to stem count under their raw form.
func stemTokens(text string) map[string]int {
	stems := make(map[string]int)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, `.,;:!?"'()[]{}`)
		if len(tok) < 3 {
			continue
		}
		stemmed, err := snowball.Stem(tok, "english", true)
		if err != nil || stemmed == "" {
			stemmed = tok
		}
		stems[stemmed]++
	}
	return stems
}

// hasPipeRows detects literal Markdown table rows.
func hasPipeRows(text string) bool {
	rows := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			rows++
			if rows >= 2 {
				return true
			}
		}
	}
	return false
}
