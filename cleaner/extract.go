package cleaner

import (
	"fmt"
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Extraction is the result of main-content extraction, whichever strategy
// produced it.
type Extraction struct {
	Title       string
	Byline      string
	Excerpt     string
	SiteName    string
	Language    string
	Published   string
	ContentHTML string
	TextContent string
}

// ExtractMainContent runs the readability algorithm on the (already
// boilerplate-filtered) HTML. It returns ok=false when the algorithm fails
// or extracts less than minChars of text, in which case the caller falls
// back to the region scorer.
func ExtractMainContent(filteredHTML, sourceURL string, minChars int) (Extraction, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("readability: invalid source URL",
			"url", sourceURL, "error", err,
		)
		return Extraction{}, false
	}

	article, err := readability.FromReader(strings.NewReader(filteredHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed",
			"url", sourceURL, "error", err,
		)
		return Extraction{}, false
	}

	if len(strings.TrimSpace(article.TextContent)) < minChars {
		slog.Debug("readability: extracted content too short",
			"url", sourceURL, "length", len(article.TextContent),
		)
		return Extraction{}, false
	}

	ex := Extraction{
		Title:       article.Title,
		Byline:      article.Byline,
		Excerpt:     article.Excerpt,
		SiteName:    article.SiteName,
		Language:    article.Language,
		ContentHTML: article.Content,
		TextContent: article.TextContent,
	}
	if article.PublishedTime != nil {
		ex.Published = article.PublishedTime.Format("2006-01-02")
	}
	return ex, true
}

// StructuredData is the compact structural inventory harvested once per
// document, optionally prepended to the output as a context line.
type StructuredData struct {
	Tables     int
	Lists      int
	HasSchema  bool // JSON-LD script block present
	HasMicro   bool // microdata itemscope attributes present
}

// HarvestStructuredData inventories tables, lists, JSON-LD, and microdata
// in the document.
func HarvestStructuredData(doc *goquery.Document) StructuredData {
	return StructuredData{
		Tables:    doc.Find("table").Length(),
		Lists:     doc.Find("ul, ol, dl").Length(),
		HasSchema: doc.Find(`script[type="application/ld+json"]`).Length() > 0,
		HasMicro:  doc.Find("[itemscope]").Length() > 0,
	}
}

// ContextLine renders the inventory as one compact line, or "" when the
// document has no structured data worth noting.
func (s StructuredData) ContextLine() string {
	var parts []string
	if s.Tables > 0 {
		parts = append(parts, plural(s.Tables, "table"))
	}
	if s.Lists > 0 {
		parts = append(parts, plural(s.Lists, "list"))
	}
	if s.HasSchema {
		parts = append(parts, "schema.org metadata")
	}
	if len(parts) == 0 {
		return ""
	}
	return "Page structure: " + strings.Join(parts, ", ") + "."
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
