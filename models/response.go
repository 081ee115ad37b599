package models

// CleanResponse is the response for POST /api/v1/clean.
type CleanResponse struct {
	// Success indicates whether the pipeline completed without errors.
	// A page with no readable content is still Success=true with empty
	// Content and a NoContent marker in Notice.
	Success bool `json:"success"`

	// Content is the cleaned Markdown (or summary) output.
	Content string `json:"content"`

	// Notice carries a short human-readable marker when no content could
	// be extracted ("Content too short after cleaning.", etc.).
	Notice string `json:"notice,omitempty"`

	// Metadata contains extracted page metadata.
	Metadata Metadata `json:"metadata"`

	// Quality reports pipeline quality decisions for observability.
	Quality QualityReport `json:"quality"`

	// Tokens provides token estimates before and after cleaning.
	Tokens TokenInfo `json:"tokens"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// Metadata holds page-level information extracted during cleaning.
type Metadata struct {
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt,omitempty"`
	SiteName  string `json:"site_name,omitempty"`
	Author    string `json:"author,omitempty"`
	Language  string `json:"language,omitempty"`
	Published string `json:"published,omitempty"`
	SourceURL string `json:"source_url"`
}

// QualityReport summarizes per-chunk quality decisions.
type QualityReport struct {
	// DocumentScore is the 0-100 quality score of the whole cleaned document.
	DocumentScore int `json:"document_score"`

	// ChunksTotal is the number of chunks produced by the chunker.
	ChunksTotal int `json:"chunks_total"`

	// ChunksDropped is the number of chunks discarded by the quality gate.
	ChunksDropped int `json:"chunks_dropped"`

	// ChunksSummarized is the number of chunks that went through the
	// summarizer (any tier, including fallbacks).
	ChunksSummarized int `json:"chunks_summarized"`
}

// TokenInfo provides before/after token estimates to show cleaning efficacy.
type TokenInfo struct {
	// OriginalEstimate is the estimated token count of the raw HTML.
	OriginalEstimate int `json:"original_estimate"`

	// CleanedEstimate is the estimated token count of the cleaned output.
	CleanedEstimate int `json:"cleaned_estimate"`

	// SavingsPercent is the percentage of tokens removed (0-100).
	SavingsPercent float64 `json:"savings_percent"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// CleaningMs is the time spent in extraction, conversion, and cleanup.
	CleaningMs int64 `json:"cleaning_ms"`

	// SummarizingMs is the time spent in summarization passes, if any.
	SummarizingMs int64 `json:"summarizing_ms"`
}

// BatchCleanResponse is the response for POST /api/v1/batch/clean.
type BatchCleanResponse struct {
	Success bool            `json:"success"`
	Total   int             `json:"total"`
	Failed  int             `json:"failed"`
	Results []BatchItem     `json:"results"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

// BatchItem is one URL's outcome within a batch. Failed items carry a
// placeholder Content plus the Error detail; they never abort the batch.
type BatchItem struct {
	URL     string       `json:"url"`
	Success bool         `json:"success"`
	Content string       `json:"content"`
	Title   string       `json:"title,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// SearchResponse is the response for POST /api/v1/search.
type SearchResponse struct {
	Success bool           `json:"success"`
	Query   string         `json:"query"`
	Ranked  bool           `json:"ranked"`
	Results []SearchResult `json:"results"`
	Error   *ErrorDetail   `json:"error,omitempty"`
}

// SearchResult is one web search hit.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status     string `json:"status"` // "healthy" or "degraded"
	Uptime     string `json:"uptime"`
	Summarizer string `json:"summarizer"` // "ready", "initializing", "unavailable"
	Breaker    string `json:"breaker"`    // "closed", "open", "half-open"
	Version    string `json:"version"`
}
