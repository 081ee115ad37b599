package search

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/distill/models"
)

// searchEndpoint is the JavaScript-free DuckDuckGo results page.
const searchEndpoint = "https://html.duckduckgo.com/html/"

// Result is one organic web search result.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Search queries DuckDuckGo and returns up to maxResults organic results.
// The endpoint override exists for tests; production callers pass "".
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	return c.searchAt(ctx, searchEndpoint, query, maxResults)
}

func (c *Client) searchAt(ctx context.Context, endpoint, query string, maxResults int) ([]Result, error) {
	body, resp, err := c.get(ctx, endpoint+"?q="+url.QueryEscape(query))
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeSearchFailed, "search request failed", err)
	}
	if resp.StatusCode >= 400 {
		return nil, models.NewPipelineError(models.ErrCodeSearchFailed,
			"search endpoint returned status "+resp.Status, nil)
	}

	results, err := parseResults(body, maxResults)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeSearchFailed, "search results could not be parsed", err)
	}
	return results, nil
}

// parseResults extracts organic results from the DuckDuckGo HTML page.
// Ad blocks carry a "result--ad" class and are skipped.
func parseResults(body string, maxResults int) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.HasClass("result--ad") {
			return true
		}

		link := sel.Find(".result__a").First()
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		snippet := strings.TrimSpace(sel.Find(".result__snippet").First().Text())

		target := decodeRedirect(href)
		if target == "" || title == "" {
			return true
		}

		results = append(results, Result{Title: title, URL: target, Snippet: snippet})
		return len(results) < maxResults
	})
	return results, nil
}

// decodeRedirect unwraps DuckDuckGo's /l/?uddg= redirect into the target
// URL. Direct links pass through.
func decodeRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}
