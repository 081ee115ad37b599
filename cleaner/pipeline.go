package cleaner

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/distill/chunker"
	"github.com/use-agent/distill/classify"
	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/quality"
)

// Summarizer condenses one chunk of Markdown toward a word target. The text
// comes back unchanged when condensing is unnecessary or every backend is
// unavailable; errors mean the chunk must be used as-is.
type Summarizer interface {
	Summarize(ctx context.Context, text string, cls classify.Classification, targetWords int) (string, error)
}

// Notices reported instead of content when a document yields nothing usable.
const (
	NoticeInputTooShort  = "input too short to contain readable content"
	NoticeNoContent      = "no readable content found in document"
	NoticeAllChunksBelow = "no section met the quality threshold"
)

// nearDupDistance is the Hamming distance at which two paragraph
// fingerprints count as duplicates.
const nearDupDistance = 3

// Pipeline orchestrates the full extraction flow:
//
//	filter     strip boilerplate from the raw DOM
//	extract    readability, with region scoring as fallback
//	convert    clean HTML to Markdown (link and table rules applied)
//	normalize  fold characters, dedup paragraphs and sentences
//	refine     Markdown AST artifact removal
//	assess     document quality score
//	condense   (summary mode) chunk, gate, classify, summarize, reassemble
//
// The converter, scorer, and classifier are created once and shared across
// requests; all are goroutine-safe.
type Pipeline struct {
	mdConverter *converter.Converter
	scorer      *quality.Scorer
	classifier  *classify.Classifier
	summarizer  Summarizer
	weights     RegionWeights
	cfg         config.PipelineConfig
}

// NewPipeline wires a Pipeline from configuration. The summarizer may be nil
// when only markdown output is served.
func NewPipeline(cfg config.PipelineConfig, summarizer Summarizer) *Pipeline {
	return &Pipeline{
		mdConverter: newMarkdownConverter(),
		scorer:      quality.NewScorer(quality.DefaultCoefficients(), cfg.MinChunkScore),
		classifier:  classify.New(),
		summarizer:  summarizer,
		weights:     DefaultRegionWeights(),
		cfg:         cfg,
	}
}

// Options carries per-request pipeline parameters.
type Options struct {
	OutputMode  string // "markdown" or "summary"
	MaxWords    int    // summary word budget before quality scaling
	Frontmatter bool

	// IncludeTags and ExcludeTags apply caller-supplied CSS-selector
	// filtering before any heuristic extraction runs.
	IncludeTags []string
	ExcludeTags []string
}

// Clean runs the pipeline over raw HTML. Oversized input returns a typed
// error before any DOM work; input that parses but yields no readable
// content returns success with empty Content and a Notice explaining why.
func (p *Pipeline) Clean(ctx context.Context, rawHTML, sourceURL string, opts Options) (*models.CleanResponse, error) {
	start := time.Now()

	if len(rawHTML) > p.cfg.MaxInputBytes {
		return nil, models.NewPipelineError(models.ErrCodeInputTooLarge,
			"input exceeds maximum size", nil)
	}
	if len(strings.TrimSpace(rawHTML)) < p.cfg.MinInputChars {
		return noticeResponse(NoticeInputTooShort, rawHTML, start), nil
	}

	originalTokens := EstimateTokens(rawHTML)

	rawHTML = FilterContent(rawHTML, opts.IncludeTags, opts.ExcludeTags)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeInvalidInput,
			"HTML could not be parsed", err)
	}
	RemoveBoilerplate(doc.Selection)

	filteredHTML, err := doc.Html()
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodePipeline,
			"filtered document could not be serialized", err)
	}

	ex, ok := ExtractMainContent(filteredHTML, sourceURL, p.cfg.MinReadableChars)
	if !ok {
		slog.Debug("readability yielded too little, scoring regions", "url", sourceURL)
		ex, ok = ExtractByRegion(doc, p.weights)
	}
	if !ok {
		return noticeResponse(NoticeNoContent, rawHTML, start), nil
	}

	// Boilerplate nested inside the extracted subtree survives the first
	// pass; strip it again on the fragment.
	ex.ContentHTML = StripBoilerplateHTML(ex.ContentHTML)

	structured := HarvestStructuredData(doc)

	markdown, err := ToMarkdown(p.mdConverter, ex.ContentHTML, sourceURL)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeConversion,
			"markdown conversion failed", err)
	}

	markdown = NormalizeText(markdown)
	markdown = NewDeduplicator(nearDupDistance).Dedup(markdown)
	markdown = CleanMarkdown(markdown)

	if strings.TrimSpace(markdown) == "" {
		return noticeResponse(NoticeNoContent, rawHTML, start), nil
	}

	docScore := p.scorer.Score(markdown)
	cleaningMs := time.Since(start).Milliseconds()

	report := models.QualityReport{DocumentScore: docScore}

	content := markdown
	notice := ""
	var summarizingMs int64

	if opts.OutputMode == "summary" {
		sumStart := time.Now()
		content, notice, report = p.condense(ctx, markdown, docScore, opts.MaxWords)
		summarizingMs = time.Since(sumStart).Milliseconds()
	}

	if opts.Frontmatter && content != "" {
		content = BuildFrontmatter(ex, sourceURL) + content
	}
	if line := structured.ContextLine(); line != "" && content != "" {
		content = content + "\n\n" + line
	}

	return &models.CleanResponse{
		Success: true,
		Content: content,
		Notice:  notice,
		Metadata: models.Metadata{
			Title:     ex.Title,
			Excerpt:   ex.Excerpt,
			SiteName:  ex.SiteName,
			Author:    ex.Byline,
			Language:  firstNonEmpty(ex.Language, DetectLanguage(ex.TextContent)),
			Published: NormalizeDate(ex.Published),
			SourceURL: sourceURL,
		},
		Quality: report,
		Tokens:  tokenInfo(originalTokens, EstimateTokens(content)),
		Timing: models.TimingInfo{
			TotalMs:       time.Since(start).Milliseconds(),
			CleaningMs:    cleaningMs,
			SummarizingMs: summarizingMs,
		},
	}, nil
}

// condense implements summary mode: split the document, drop chunks below
// the quality gate, classify and summarize the survivors, and reassemble in
// document order. Both the chunk size and the summary word budget scale
// with document quality, so high-scoring documents are split into fewer,
// larger chunks and granted more summary room.
func (p *Pipeline) condense(ctx context.Context, markdown string, docScore, maxWords int) (string, string, models.QualityReport) {
	budget := chunker.AdaptiveBudget(maxWords, docScore)
	chunks := chunker.Chunk(markdown, chunker.AdaptiveBudget(p.cfg.ChunkWords, docScore))

	report := models.QualityReport{
		DocumentScore: docScore,
		ChunksTotal:   len(chunks),
	}

	type gated struct {
		text string
		cls  classify.Classification
	}
	var kept []gated
	for _, ch := range chunks {
		a := p.scorer.Assess(ch)
		if !a.PassesThreshold {
			report.ChunksDropped++
			continue
		}
		kept = append(kept, gated{text: ch, cls: p.classifier.Classify(ch)})
	}

	if len(kept) == 0 {
		return "", NoticeAllChunksBelow, report
	}

	perChunk := budget / len(kept)
	if perChunk < p.cfg.MinChunkWords {
		perChunk = p.cfg.MinChunkWords
	}

	parts := make([]string, 0, len(kept))
	for _, g := range kept {
		out := g.text
		if p.summarizer != nil {
			condensed, err := p.summarizer.Summarize(ctx, g.text, g.cls, perChunk)
			if err != nil {
				slog.Warn("summarize failed, keeping original section", "error", err)
			} else {
				if condensed != g.text {
					report.ChunksSummarized++
				}
				out = condensed
			}
		}
		parts = append(parts, strings.TrimSpace(out))
	}

	return strings.Join(parts, "\n\n"), "", report
}

func tokenInfo(original, cleaned int) models.TokenInfo {
	info := models.TokenInfo{OriginalEstimate: original, CleanedEstimate: cleaned}
	if original > 0 {
		savings := float64(original-cleaned) / float64(original) * 100
		info.SavingsPercent = math.Round(savings*100) / 100
	}
	return info
}

func noticeResponse(notice, rawHTML string, start time.Time) *models.CleanResponse {
	return &models.CleanResponse{
		Success: true,
		Content: "",
		Notice:  notice,
		Tokens: models.TokenInfo{
			OriginalEstimate: EstimateTokens(rawHTML),
		},
		Timing: models.TimingInfo{
			TotalMs:    time.Since(start).Milliseconds(),
			CleaningMs: time.Since(start).Milliseconds(),
		},
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
