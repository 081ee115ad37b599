package cleaner

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// boilerplateSelectors is the static deny-list of structurally useless DOM
// subtrees. Applied destructively, in list order, both document-wide before
// main-content extraction (boilerplate skews the extractor's text/link
// density heuristics) and again on the extracted article body.
var boilerplateSelectors = []string{
	// Semantic chrome tags.
	"nav", "header", "aside", "form", "footer",
	"script", "style", "noscript", "iframe",

	// Cookie/consent/GDPR furniture.
	`[class*="cookie"]`, `[id*="cookie"]`,
	`[class*="consent"]`, `[id*="consent"]`,
	`[class*="gdpr"]`,

	// Popups and overlays.
	`[class*="popup"]`, `[id*="popup"]`,
	`[class*="modal"]`, `[id*="modal"]`,
	`[class*="overlay"]`,

	// Advertising.
	`[class*="advert"]`, `[id*="advert"]`,
	`[class*="-ad-"]`, `[class*="ad-banner"]`, `[class*="ad-slot"]`,
	`[id*="google_ads"]`,

	// Social/sharing widgets.
	`[class*="social"]`, `[class*="share-"]`, `[class*="sharing"]`,

	// Newsletter/subscription prompts.
	`[class*="newsletter"]`, `[id*="newsletter"]`,
	`[class*="subscribe"]`, `[id*="subscribe"]`,

	// Navigation and menus by class/id.
	`[class*="navigation"]`, `[class*="navbar"]`, `[class*="menu-"]`,
	`[class*="breadcrumb"]`,

	// Comments.
	`[class*="comment"]`, `[id*="comments"]`, `[id*="disqus"]`,

	// Related/recommended content rails.
	`[class*="related-"]`, `[class*="recommend"]`, `[class*="promo"]`,
	`[class*="sidebar"]`, `[id*="sidebar"]`,
}

// RemoveBoilerplate destructively removes all deny-listed elements from the
// selection. Side effect only; each selector acts on a disjoint concern so
// application order within the list does not matter in practice.
func RemoveBoilerplate(sel *goquery.Selection) {
	for _, selector := range boilerplateSelectors {
		sel.Find(selector).Remove()
	}
}

// StripBoilerplateHTML parses an HTML fragment, removes boilerplate, and
// returns the remaining body HTML. Used for the second (post-extraction)
// pass where only a fragment string is available. On parse failure the
// input is returned unchanged.
func StripBoilerplateHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	RemoveBoilerplate(doc.Selection)

	body := doc.Find("body")
	if body.Length() == 0 {
		return fragment
	}
	html, err := body.Html()
	if err != nil {
		return fragment
	}
	return html
}

// FilterContent applies caller-supplied CSS-selector include/exclude
// filtering to raw HTML, before the standard pipeline runs.
//
// Processing order:
//  1. Remove elements matching excludeTags (if any).
//  2. Keep only elements matching includeTags (if any).
//
// Invalid selectors are skipped. If no include selector matches, the
// exclude-filtered document is returned so downstream processing still
// has something to work with.
func FilterContent(rawHTML string, includeTags, excludeTags []string) string {
	if len(includeTags) == 0 && len(excludeTags) == 0 {
		return rawHTML
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	for _, selector := range excludeTags {
		sel, err := cascadia.Parse(selector)
		if err != nil {
			continue
		}
		for _, node := range cascadia.QueryAll(doc, sel) {
			if node.Parent != nil {
				node.Parent.RemoveChild(node)
			}
		}
	}

	var matches []*html.Node
	for _, selector := range includeTags {
		sel, err := cascadia.Parse(selector)
		if err != nil {
			continue
		}
		matches = append(matches, cascadia.QueryAll(doc, sel)...)
	}

	var buf bytes.Buffer
	if len(matches) > 0 {
		for _, node := range matches {
			if err := html.Render(&buf, node); err != nil {
				return rawHTML
			}
		}
		return buf.String()
	}

	if err := html.Render(&buf, doc); err != nil {
		return rawHTML
	}
	return buf.String()
}
