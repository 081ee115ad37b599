package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RegionType classifies a candidate content region.
type RegionType string

const (
	RegionMain          RegionType = "main"
	RegionSidebar       RegionType = "sidebar"
	RegionNavigation    RegionType = "navigation"
	RegionFooter        RegionType = "footer"
	RegionHeader        RegionType = "header"
	RegionAdvertisement RegionType = "advertisement"
)

// ContentRegion is one scored candidate subtree. Scores are comparable only
// within a single document.
type ContentRegion struct {
	Selection         *goquery.Selection
	Score             float64 // saturating weighted sum, clamped to [0,1]
	Type              RegionType
	TextDensity       float64
	LinkDensity       float64
	HasStructuredData bool
}

// RegionWeights gathers the named coefficients of the region scoring
// formula in one tunable structure.
type RegionWeights struct {
	// Text-length base contributions.
	SweetSpotBase float64 // text length in [SweetSpotLo, SweetSpotHi]
	MinimalBase   float64 // text length > MinimalLo
	SweetSpotLo   int
	SweetSpotHi   int
	MinimalLo     int

	TextDensityWeight float64

	// Link-density adjustments.
	LowLinkBonus    float64 // linkDensity < LowLinkAt
	HighLinkPenalty float64 // linkDensity > HighLinkAt (subtracted)
	LowLinkAt       float64
	HighLinkAt      float64

	StructuredBonus float64

	// Type modifiers.
	MainBonus      float64
	AdNavPenalty   float64 // subtracted
	SidebarPenalty float64 // subtracted

	// Selection thresholds.
	MainMinScore float64 // pick best main-typed region above this
	AnyMinScore  float64 // else pick best region above this
}

// DefaultRegionWeights is the reference baseline; behavior is validated via
// monotonicity and boundary properties rather than exact outputs.
func DefaultRegionWeights() RegionWeights {
	return RegionWeights{
		SweetSpotBase: 0.4,
		MinimalBase:   0.2,
		SweetSpotLo:   200,
		SweetSpotHi:   2000,
		MinimalLo:     100,

		TextDensityWeight: 0.3,

		LowLinkBonus:    0.2,
		HighLinkPenalty: 0.3,
		LowLinkAt:       0.3,
		HighLinkAt:      0.7,

		StructuredBonus: 0.2,

		MainBonus:      0.3,
		AdNavPenalty:   0.5,
		SidebarPenalty: 0.2,

		MainMinScore: 0.3,
		AnyMinScore:  0.2,
	}
}

var (
	mainPatterns    = []string{"main", "content", "article", "post", "entry", "story", "body"}
	adNavPatterns   = []string{"ad", "ads", "advert", "sponsor", "banner", "nav", "menu", "breadcrumb"}
	sidebarPatterns = []string{"sidebar", "widget", "rail", "aside"}
)

// ScoreRegions scores every candidate element in the document and returns
// the regions in document order.
func ScoreRegions(doc *goquery.Document, w RegionWeights) []ContentRegion {
	var regions []ContentRegion
	doc.Find("div, section, article, main, aside, nav, header, footer").Each(func(_ int, el *goquery.Selection) {
		regions = append(regions, scoreRegion(el, w))
	})
	return regions
}

// SelectBestRegion applies the selection policy: prefer the highest-scoring
// main-typed region above MainMinScore; else the single highest-scoring
// region above AnyMinScore; else ok=false (extraction failed).
func SelectBestRegion(regions []ContentRegion, w RegionWeights) (ContentRegion, bool) {
	var bestMain, bestAny *ContentRegion
	for i := range regions {
		r := &regions[i]
		if r.Type == RegionMain && (bestMain == nil || r.Score > bestMain.Score) {
			bestMain = r
		}
		if bestAny == nil || r.Score > bestAny.Score {
			bestAny = r
		}
	}

	if bestMain != nil && bestMain.Score > w.MainMinScore {
		return *bestMain, true
	}
	if bestAny != nil && bestAny.Score > w.AnyMinScore {
		return *bestAny, true
	}
	return ContentRegion{}, false
}

// scoreRegion computes the clamped weighted score for one candidate.
func scoreRegion(el *goquery.Selection, w RegionWeights) ContentRegion {
	text := strings.TrimSpace(el.Text())
	textLen := len(text)

	innerHTML, _ := el.Html()
	htmlLen := len(innerHTML)

	textDensity := 0.0
	if htmlLen > 0 {
		textDensity = float64(textLen) / float64(htmlLen)
	}

	linkTextLen := 0
	el.Find("a").Each(func(_ int, a *goquery.Selection) {
		linkTextLen += len(strings.TrimSpace(a.Text()))
	})
	linkDensity := 0.0
	if textLen > 0 {
		linkDensity = float64(linkTextLen) / float64(textLen)
	}

	structured := el.Find("table, ul, ol, dl").Length() > 0 ||
		el.Find(`script[type="application/ld+json"]`).Length() > 0 ||
		el.Find("[itemscope]").Length() > 0

	regionType := classifyRegion(el)

	score := 0.0
	switch {
	case textLen >= w.SweetSpotLo && textLen <= w.SweetSpotHi:
		score += w.SweetSpotBase
	case textLen > w.MinimalLo:
		score += w.MinimalBase
	}

	score += textDensity * w.TextDensityWeight

	if linkDensity < w.LowLinkAt {
		score += w.LowLinkBonus
	} else if linkDensity > w.HighLinkAt {
		score -= w.HighLinkPenalty
	}

	if structured {
		score += w.StructuredBonus
	}

	switch regionType {
	case RegionMain:
		score += w.MainBonus
	case RegionNavigation, RegionAdvertisement:
		score -= w.AdNavPenalty
	case RegionSidebar:
		score -= w.SidebarPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return ContentRegion{
		Selection:         el,
		Score:             score,
		Type:              regionType,
		TextDensity:       textDensity,
		LinkDensity:       linkDensity,
		HasStructuredData: structured,
	}
}

// classifyRegion derives the region type from the tag name and class/id
// attribute patterns.
func classifyRegion(el *goquery.Selection) RegionType {
	tag := goquery.NodeName(el)
	class, _ := el.Attr("class")
	id, _ := el.Attr("id")
	attrs := strings.ToLower(class + " " + id)

	switch tag {
	case "main", "article":
		return RegionMain
	case "nav":
		return RegionNavigation
	case "footer":
		return RegionFooter
	case "header":
		return RegionHeader
	case "aside":
		return RegionSidebar
	}

	for _, p := range adNavPatterns {
		if strings.Contains(attrs, p) {
			if p == "nav" || p == "menu" || p == "breadcrumb" {
				return RegionNavigation
			}
			return RegionAdvertisement
		}
	}
	for _, p := range sidebarPatterns {
		if strings.Contains(attrs, p) {
			return RegionSidebar
		}
	}
	for _, p := range mainPatterns {
		if strings.Contains(attrs, p) {
			return RegionMain
		}
	}
	return RegionType("")
}

// ExtractByRegion is the fallback extractor: score all candidates, pick the
// best region, and build an Extraction from it. The lightweight quality
// pre-check discards regions that are mostly loading/error boilerplate even
// when they are dense.
func ExtractByRegion(doc *goquery.Document, w RegionWeights) (Extraction, bool) {
	regions := ScoreRegions(doc, w)

	viable := regions[:0]
	for _, r := range regions {
		if !looksLikeErrorBoilerplate(r.Selection) {
			viable = append(viable, r)
		}
	}

	best, ok := SelectBestRegion(viable, w)
	if !ok {
		return Extraction{}, false
	}

	html, err := goquery.OuterHtml(best.Selection)
	if err != nil {
		return Extraction{}, false
	}

	return Extraction{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		ContentHTML: html,
		TextContent: strings.TrimSpace(best.Selection.Text()),
	}, true
}

var errorPhrases = []string{
	"page not found", "access denied", "an error occurred",
	"enable javascript", "please try again", "loading...",
}

// looksLikeErrorBoilerplate flags regions whose text is dominated by
// loading/error phrases; such regions are dense but worthless.
func looksLikeErrorBoilerplate(el *goquery.Selection) bool {
	text := strings.ToLower(strings.TrimSpace(el.Text()))
	if len(text) == 0 || len(text) > 400 {
		return false
	}
	for _, phrase := range errorPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
