package models

// CleanRequest is the payload for POST /api/v1/clean.
//
// Callers supply raw HTML they already fetched (the pipeline never fetches
// pages itself); url provides context for link resolution, logging, and
// the frontmatter block.
type CleanRequest struct {
	// HTML is the raw page HTML to clean. Required.
	HTML string `json:"html" binding:"required"`

	// URL is the page's source URL. Required.
	URL string `json:"url" binding:"required,url"`

	// OutputMode controls the response body.
	// "markdown" (default): cleaned, deduplicated Markdown.
	// "summary": cleaned Markdown additionally compressed per chunk by the
	// summarization backend (with extractive/key-fact fallbacks).
	OutputMode string `json:"output_mode,omitempty" binding:"omitempty,oneof=markdown summary"`

	// MaxWords is the per-chunk word budget before adaptive scaling.
	// Default: 400. The budget is advisory: an irreducible unit larger than
	// the budget is emitted whole rather than truncated.
	MaxWords int `json:"max_words,omitempty" binding:"omitempty,min=50,max=5000"`

	// Frontmatter prepends a YAML frontmatter block (source_url, title,
	// published, lang) to the output.
	Frontmatter bool `json:"frontmatter,omitempty"`

	// IncludeTags keeps only elements matching these CSS selectors,
	// before any heuristic extraction runs.
	IncludeTags []string `json:"include_tags,omitempty"`

	// ExcludeTags removes elements matching these CSS selectors.
	ExcludeTags []string `json:"exclude_tags,omitempty"`

	// MaxAge enables cache lookups: a cached result younger than MaxAge
	// milliseconds is returned instead of re-running the pipeline.
	MaxAge int `json:"max_age,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *CleanRequest) Defaults() {
	if r.OutputMode == "" {
		r.OutputMode = "markdown"
	}
	if r.MaxWords == 0 {
		r.MaxWords = 400
	}
}

// BatchCleanRequest is the payload for POST /api/v1/batch/clean.
// Each URL is fetched and cleaned independently; one URL's failure never
// aborts the batch.
type BatchCleanRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,max=50,dive,url"`

	OutputMode  string `json:"output_mode,omitempty" binding:"omitempty,oneof=markdown summary"`
	MaxWords    int    `json:"max_words,omitempty" binding:"omitempty,min=50,max=5000"`
	Frontmatter bool   `json:"frontmatter,omitempty"`

	// Concurrency bounds the number of URLs fetched at once. Default: 4.
	Concurrency int `json:"concurrency,omitempty" binding:"omitempty,min=1,max=16"`
}

// Defaults applies default values to unset fields.
func (r *BatchCleanRequest) Defaults() {
	if r.OutputMode == "" {
		r.OutputMode = "markdown"
	}
	if r.MaxWords == 0 {
		r.MaxWords = 400
	}
	if r.Concurrency == 0 {
		r.Concurrency = 4
	}
}

// SearchRequest is the payload for POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`

	// MaxResults caps the number of returned results. Default: 10, max 25.
	MaxResults int `json:"max_results,omitempty" binding:"omitempty,min=1,max=25"`

	// Rank re-orders results by semantic similarity to the query using the
	// embedding backend. Falls back to lexical overlap ranking when the
	// backend is unavailable.
	Rank bool `json:"rank,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *SearchRequest) Defaults() {
	if r.MaxResults == 0 {
		r.MaxResults = 10
	}
}
