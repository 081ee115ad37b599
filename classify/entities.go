package classify

import (
	"regexp"
	"strings"
)

// Entities holds the atomic facts pulled out of a text chunk, capped per
// category so the output stays bounded regardless of input size.
type Entities struct {
	People        []string
	Places        []string
	Organizations []string
	Numbers       []string
	Dates         []string
	Money         []string
	Percentages   []string
	Quotations    []string
}

const (
	perCategoryCap = 6
	keyEntitiesCap = 10
)

var (
	// Capitalized first+last name pairs, optionally with a middle initial.
	personRe = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z]\.)? [A-Z][a-z]+\b`)

	// Organization names carrying a corporate/institutional suffix.
	orgRe = regexp.MustCompile(`\b[A-Z][A-Za-z&]+(?: [A-Z][A-Za-z&]+)* (?:Inc|Corp|Corporation|Company|Ltd|LLC|Group|Association|University|Institute|Agency|Department|Committee|League)\b\.?`)

	// Place references introduced by a locational preposition.
	placeRe = regexp.MustCompile(`\b(?:in|at|near|from) ([A-Z][a-z]+(?: [A-Z][a-z]+)?)\b`)

	numberRe  = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})*(?:\.\d+)?\b`)
	percentRe = regexp.MustCompile(`\b\d+(?:\.\d+)?\s?(?:%|percent)\b`)
	moneyRe   = regexp.MustCompile(`(?:[$€£¥]\s?\d[\d,]*(?:\.\d+)?|\b\d[\d,]*(?:\.\d+)?\s?(?:dollars|euros|pounds)\b)(?:\s?(?:million|billion|trillion|[MBK]))?`)
	dateRe    = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.? \d{1,2}(?:st|nd|rd|th)?(?:,? \d{4})?\b|\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	quoteRe   = regexp.MustCompile(`"([^"]{10,120})"`)
)

// ExtractEntities pulls entities from text, deduplicated by exact string
// match within each category and capped at perCategoryCap entries.
func ExtractEntities(text string) Entities {
	return Entities{
		People:        matchCapped(personRe, text, 0),
		Places:        matchCapped(placeRe, text, 1),
		Organizations: matchCapped(orgRe, text, 0),
		Numbers:       matchCapped(numberRe, text, 0),
		Dates:         matchCapped(dateRe, text, 0),
		Money:         matchCapped(moneyRe, text, 0),
		Percentages:   matchCapped(percentRe, text, 0),
		Quotations:    matchCapped(quoteRe, text, 1),
	}
}

// Count returns the total number of extracted entities across categories.
func (e Entities) Count() int {
	return len(e.People) + len(e.Places) + len(e.Organizations) +
		len(e.Numbers) + len(e.Dates) + len(e.Money) +
		len(e.Percentages) + len(e.Quotations)
}

// NumericCount returns the number of numeric-valued entities.
func (e Entities) NumericCount() int {
	return len(e.Numbers) + len(e.Money) + len(e.Percentages)
}

// Key flattens the per-category entities into one ordered, exact-match
// deduplicated list (insertion order = extraction order), capped at
// keyEntitiesCap. Named entities come first so they survive the cap.
func (e Entities) Key() []string {
	seen := make(map[string]struct{})
	var key []string

	add := func(items []string) {
		for _, it := range items {
			if len(key) >= keyEntitiesCap {
				return
			}
			if _, dup := seen[it]; dup {
				continue
			}
			seen[it] = struct{}{}
			key = append(key, it)
		}
	}

	add(e.People)
	add(e.Organizations)
	add(e.Places)
	add(e.Money)
	add(e.Percentages)
	add(e.Dates)
	add(e.Numbers)
	return key
}

// matchCapped collects deduplicated regex matches. group selects a capture
// group (0 = whole match).
func matchCapped(re *regexp.Regexp, text string, group int) []string {
	var out []string
	seen := make(map[string]struct{})

	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if group >= len(m) {
			continue
		}
		val := strings.TrimSpace(m[group])
		if val == "" {
			continue
		}
		if _, dup := seen[val]; dup {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
		if len(out) >= perCategoryCap {
			break
		}
	}
	return out
}
