package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// cleanRequest mirrors the Distill API clean request model.
type cleanRequest struct {
	HTML        string `json:"html"`
	URL         string `json:"url"`
	OutputMode  string `json:"output_mode,omitempty"`
	MaxWords    int    `json:"max_words,omitempty"`
	Frontmatter bool   `json:"frontmatter,omitempty"`
}

// cleanResponse mirrors the Distill API clean response model.
type cleanResponse struct {
	Success  bool   `json:"success"`
	Content  string `json:"content"`
	Notice   string `json:"notice"`
	Metadata *struct {
		Title     string `json:"title"`
		SiteName  string `json:"site_name"`
		Author    string `json:"author"`
		Language  string `json:"language"`
		Published string `json:"published"`
		SourceURL string `json:"source_url"`
	} `json:"metadata"`
	Quality *struct {
		DocumentScore    int `json:"document_score"`
		ChunksTotal      int `json:"chunks_total"`
		ChunksDropped    int `json:"chunks_dropped"`
		ChunksSummarized int `json:"chunks_summarized"`
	} `json:"quality"`
	Tokens *struct {
		OriginalEstimate int     `json:"original_estimate"`
		CleanedEstimate  int     `json:"cleaned_estimate"`
		SavingsPercent   float64 `json:"savings_percent"`
	} `json:"tokens"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// batchCleanResponse mirrors the Distill batch API response.
type batchCleanResponse struct {
	Success bool `json:"success"`
	Total   int  `json:"total"`
	Failed  int  `json:"failed"`
	Results []struct {
		URL     string `json:"url"`
		Success bool   `json:"success"`
		Content string `json:"content"`
		Title   string `json:"title"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"results"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// searchResponse mirrors the Distill search API response.
type searchResponse struct {
	Success bool   `json:"success"`
	Query   string `json:"query"`
	Ranked  bool   `json:"ranked"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Snippet string  `json:"snippet"`
		Score   float64 `json:"score"`
	} `json:"results"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("DISTILL_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("DISTILL_API_KEY")

	s := server.NewMCPServer(
		"distill",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	cleanHTMLTool := mcp.NewTool("clean_html",
		mcp.WithDescription("Clean raw HTML into boilerplate-free Markdown. Strips navigation, ads, cookie banners and duplicate content, keeping the main article. Optionally compresses the result with per-chunk summarization."),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("The raw page HTML to clean"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The page's source URL, used for link resolution and metadata"),
		),
		mcp.WithString("output_mode",
			mcp.Description("Output mode: 'markdown' (default, cleaned Markdown) or 'summary' (additionally compressed per chunk)"),
			mcp.Enum("markdown", "summary"),
		),
		mcp.WithNumber("max_words",
			mcp.Description("Per-chunk word budget for summary mode (default: 400)"),
		),
		mcp.WithBoolean("frontmatter",
			mcp.Description("Prepend a YAML frontmatter block with title, source URL and language"),
		),
	)
	s.AddTool(cleanHTMLTool, handleCleanHTML(apiURL, apiKey))

	fetchCleanTool := mcp.NewTool("fetch_clean",
		mcp.WithDescription("Fetch one or more web pages and return cleaned Markdown for each. Pages are fetched server-side with browser-like TLS; one URL's failure never aborts the rest."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of URLs to fetch and clean"),
		),
		mcp.WithString("output_mode",
			mcp.Description("Output mode: 'markdown' (default) or 'summary'"),
			mcp.Enum("markdown", "summary"),
		),
		mcp.WithNumber("max_words",
			mcp.Description("Per-chunk word budget for summary mode (default: 400)"),
		),
	)
	s.AddTool(fetchCleanTool, handleFetchClean(apiURL, apiKey))

	webSearchTool := mcp.NewTool("web_search",
		mcp.WithDescription("Search the web via DuckDuckGo and return titles, URLs and snippets. Optionally re-ranks results by semantic similarity to the query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default: 10, max: 25)"),
		),
		mcp.WithBoolean("rank",
			mcp.Description("Re-rank results by semantic similarity to the query"),
		),
	)
	s.AddTool(webSearchTool, handleWebSearch(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Distill API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleCleanHTML(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		html, err := request.RequireString("html")
		if err != nil {
			return mcp.NewToolResultError("html is required"), nil
		}
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := cleanRequest{
			HTML:        html,
			URL:         url,
			OutputMode:  request.GetString("output_mode", ""),
			MaxWords:    request.GetInt("max_words", 0),
			Frontmatter: request.GetBool("frontmatter", false),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/clean", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("clean request failed: %v", err)), nil
		}

		var cleanResp cleanResponse
		if err := json.Unmarshal(respBody, &cleanResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !cleanResp.Success {
			errMsg := "clean failed"
			if cleanResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", cleanResp.Error.Code, cleanResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		// Build result with metadata header.
		var result string
		if cleanResp.Metadata != nil {
			m := cleanResp.Metadata
			result = fmt.Sprintf("Title: %s\nSource: %s\n\n", m.Title, m.SourceURL)
		}
		if cleanResp.Notice != "" {
			result += fmt.Sprintf("Notice: %s\n\n", cleanResp.Notice)
		}
		result += cleanResp.Content

		if cleanResp.Tokens != nil {
			t := cleanResp.Tokens
			result += fmt.Sprintf("\n\n---\nTokens: %d (saved %.0f%% from original %d)",
				t.CleanedEstimate, t.SavingsPercent, t.OriginalEstimate)
		}
		if cleanResp.Quality != nil {
			q := cleanResp.Quality
			result += fmt.Sprintf("\nQuality: %d/100 (%d chunks, %d dropped, %d summarized)",
				q.DocumentScore, q.ChunksTotal, q.ChunksDropped, q.ChunksSummarized)
		}

		return mcp.NewToolResultText(result), nil
	}
}

func handleFetchClean(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 300 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		payload := map[string]interface{}{
			"urls": urls,
		}
		if mode := request.GetString("output_mode", ""); mode != "" {
			payload["output_mode"] = mode
		}
		if maxWords := request.GetInt("max_words", 0); maxWords > 0 {
			payload["max_words"] = maxWords
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/batch/clean", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("batch request failed: %v", err)), nil
		}

		var batchResp batchCleanResponse
		if err := json.Unmarshal(respBody, &batchResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch response: %v", err)), nil
		}

		if !batchResp.Success && len(batchResp.Results) == 0 {
			errMsg := "batch clean failed"
			if batchResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", batchResp.Error.Code, batchResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		// Format results.
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Cleaned %d pages (%d failed)\n\n", batchResp.Total, batchResp.Failed))

		for i, item := range batchResp.Results {
			if item.Success {
				sb.WriteString(fmt.Sprintf("--- [%d] %s (%s) ---\n%s\n\n", i+1, item.Title, item.URL, item.Content))
			} else {
				errMsg := "unknown error"
				if item.Error != nil {
					errMsg = item.Error.Message
				}
				sb.WriteString(fmt.Sprintf("--- [%d] %s FAILED: %s ---\n\n", i+1, item.URL, errMsg))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleWebSearch(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		payload := map[string]interface{}{
			"query": query,
		}
		if maxResults := request.GetInt("max_results", 0); maxResults > 0 {
			payload["max_results"] = maxResults
		}
		if request.GetBool("rank", false) {
			payload["rank"] = true
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/search", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search request failed: %v", err)), nil
		}

		var searchResp searchResponse
		if err := json.Unmarshal(respBody, &searchResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse search response: %v", err)), nil
		}

		if !searchResp.Success {
			errMsg := "search failed"
			if searchResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", searchResp.Error.Code, searchResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Found %d results for %q", len(searchResp.Results), searchResp.Query))
		if searchResp.Ranked {
			sb.WriteString(" (semantically ranked)")
		}
		sb.WriteString(":\n\n")

		for i, r := range searchResp.Results {
			sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, r.Title, r.URL))
			if r.Snippet != "" {
				sb.WriteString("   " + r.Snippet + "\n")
			}
			sb.WriteString("\n")
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
