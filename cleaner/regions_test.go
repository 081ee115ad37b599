package cleaner

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func paragraphs(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("<p>The study measured outcomes across several independent cohorts over time.</p>")
	}
	return b.String()
}

func TestScoreRegions_ArticleBeatsNav(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<nav><a href="/a">Home</a><a href="/b">About</a><a href="/c">Contact</a></nav>
		<article>`+paragraphs(5)+`</article>
	</body></html>`)

	regions := ScoreRegions(doc, DefaultRegionWeights())
	var article, nav *ContentRegion
	for i := range regions {
		switch regions[i].Type {
		case RegionMain:
			article = &regions[i]
		case RegionNavigation:
			nav = &regions[i]
		}
	}
	if article == nil || nav == nil {
		t.Fatalf("expected both article and nav regions, got %d regions", len(regions))
	}
	if article.Score <= nav.Score {
		t.Errorf("article score %f should exceed nav score %f", article.Score, nav.Score)
	}
}

func TestScoreRegions_ScoresClamped(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<main>`+paragraphs(8)+`<ul><li>one</li><li>two</li></ul></main>
		<div class="advert banner"><a href="/x">buy</a><a href="/y">now</a></div>
	</body></html>`)

	for _, r := range ScoreRegions(doc, DefaultRegionWeights()) {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("region score %f outside [0,1]", r.Score)
		}
	}
}

func TestSelectBestRegion_PrefersMain(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<div class="content">`+paragraphs(4)+`</div>
		<div class="sidebar">`+paragraphs(6)+`</div>
	</body></html>`)

	w := DefaultRegionWeights()
	best, ok := SelectBestRegion(ScoreRegions(doc, w), w)
	if !ok {
		t.Fatal("expected a region to be selected")
	}
	if best.Type != RegionMain {
		t.Errorf("expected main-typed region, got %q", best.Type)
	}
}

func TestSelectBestRegion_NothingViable(t *testing.T) {
	doc := mustParse(t, `<html><body><div class="advert"><a href="/x">ad</a></div></body></html>`)
	w := DefaultRegionWeights()
	if _, ok := SelectBestRegion(ScoreRegions(doc, w), w); ok {
		t.Error("expected no region above threshold")
	}
}

func TestExtractByRegion_SkipsErrorBoilerplate(t *testing.T) {
	doc := mustParse(t, `<html><head><title>Sample</title></head><body>
		<main><p>An error occurred. Please try again.</p></main>
		<div class="content">`+paragraphs(5)+`</div>
	</body></html>`)

	ex, ok := ExtractByRegion(doc, DefaultRegionWeights())
	if !ok {
		t.Fatal("expected extraction to succeed via fallback region")
	}
	if strings.Contains(ex.TextContent, "error occurred") {
		t.Errorf("error boilerplate region selected: %q", ex.TextContent)
	}
	if !strings.Contains(ex.TextContent, "study measured outcomes") {
		t.Errorf("content region not selected: %q", ex.TextContent)
	}
}

func TestExtractByRegion_CarriesTitle(t *testing.T) {
	doc := mustParse(t, `<html><head><title>Cohort Study Results</title></head><body>
		<article>`+paragraphs(5)+`</article>
	</body></html>`)

	ex, ok := ExtractByRegion(doc, DefaultRegionWeights())
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if ex.Title != "Cohort Study Results" {
		t.Errorf("title = %q, want %q", ex.Title, "Cohort Study Results")
	}
}

func TestClassifyRegion_AttributePatterns(t *testing.T) {
	tests := []struct {
		html string
		want RegionType
	}{
		{`<div class="main-content"></div>`, RegionMain},
		{`<div id="sidebar-widgets"></div>`, RegionSidebar},
		{`<div class="ad-container"></div>`, RegionAdvertisement},
		{`<div class="menu-wrapper"></div>`, RegionNavigation},
		{`<aside></aside>`, RegionSidebar},
		{`<article></article>`, RegionMain},
	}
	for _, tt := range tests {
		doc := mustParse(t, tt.html)
		el := doc.Find("div, aside, article").First()
		if got := classifyRegion(el); got != tt.want {
			t.Errorf("classifyRegion(%q) = %q, want %q", tt.html, got, tt.want)
		}
	}
}
