package rank

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/use-agent/distill/breaker"
	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/search"
)

// Embedder turns texts into vectors. Implementations must be goroutine-safe.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder builds an embedder for one model. An empty baseURL uses
// the default OpenAI endpoint.
func NewOpenAIEmbedder(apiKey, baseURL, model string) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEmbedder{client: openai.NewClientWithConfig(cfg), model: model}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		out[d.Index] = d.Embedding
	}
	return out, nil
}

// Ranker orders search results by semantic similarity to the query.
// Embedding calls go through a circuit breaker; when the breaker is open or
// a call fails, ranking degrades to lexical term overlap instead of erroring.
// Vectors are cached by model and text so repeated queries stay cheap.
type Ranker struct {
	embedder Embedder
	brk      *breaker.Breaker
	cache    *cache.Cache[[]float32]
	model    string
}

// NewRanker wires the ranker from configuration. An empty API key disables
// embeddings entirely, leaving only the lexical path.
func NewRanker(sum config.SummarizerConfig, cacheCfg config.CacheConfig, brk *breaker.Breaker) *Ranker {
	r := &Ranker{
		brk:   brk,
		cache: cache.New[[]float32](cacheCfg.MaxEntries, cacheCfg.EmbeddingTTL),
		model: sum.EmbeddingModel,
	}
	if sum.APIKey != "" {
		r.embedder = NewOpenAIEmbedder(sum.APIKey, sum.BaseURL, sum.EmbeddingModel)
	}
	return r
}

// Rank returns the results reordered by descending relevance to the query.
// The input slice is not modified.
func (r *Ranker) Rank(ctx context.Context, query string, results []search.Result) []search.Result {
	if len(results) < 2 {
		return results
	}

	scores, ok := r.semanticScores(ctx, query, results)
	if !ok {
		scores = lexicalScores(query, results)
	}

	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	out := make([]search.Result, len(results))
	for i, j := range idx {
		out[i] = results[j]
	}
	return out
}

// semanticScores embeds the query and each result, returning cosine
// similarities. ok=false means the caller should fall back to lexical.
func (r *Ranker) semanticScores(ctx context.Context, query string, results []search.Result) ([]float64, bool) {
	if r.embedder == nil {
		return nil, false
	}
	if err := r.brk.Allow(); err != nil {
		return nil, false
	}

	texts := make([]string, 0, len(results)+1)
	texts = append(texts, query)
	for _, res := range results {
		texts = append(texts, strings.TrimSpace(res.Title+" "+res.Snippet))
	}

	vectors, missing := r.fromCache(texts)
	if len(missing) > 0 {
		fetched, err := r.embedMissing(ctx, texts, missing)
		if err != nil {
			slog.Warn("embedding failed, ranking lexically", "error", err)
			return nil, false
		}
		for i, pos := range missing {
			vectors[pos] = fetched[i]
			r.cache.Set(cache.TextKey(r.model, texts[pos]), fetched[i])
		}
	}

	queryVec := vectors[0]
	scores := make([]float64, len(results))
	for i := range results {
		scores[i] = cosine(queryVec, vectors[i+1])
	}
	return scores, true
}

func (r *Ranker) fromCache(texts []string) ([][]float32, []int) {
	vectors := make([][]float32, len(texts))
	var missing []int
	for i, t := range texts {
		if v, ok := r.cache.GetDefault(cache.TextKey(r.model, t)); ok {
			vectors[i] = v
		} else {
			missing = append(missing, i)
		}
	}
	return vectors, missing
}

func (r *Ranker) embedMissing(ctx context.Context, texts []string, missing []int) ([][]float32, error) {
	batch := make([]string, len(missing))
	for i, pos := range missing {
		batch[i] = texts[pos]
	}

	var fetched [][]float32
	err := r.brk.Do(func() error {
		var err error
		fetched, err = r.embedder.Embed(ctx, batch)
		return err
	})
	return fetched, err
}

// cosine computes cosine similarity of two vectors; mismatched or empty
// vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// lexicalScores is the degraded ranking path: fraction of query terms
// present in each result's title and snippet.
func lexicalScores(query string, results []search.Result) []float64 {
	terms := strings.Fields(strings.ToLower(query))
	scores := make([]float64, len(results))
	if len(terms) == 0 {
		return scores
	}
	for i, res := range results {
		text := strings.ToLower(res.Title + " " + res.Snippet)
		hits := 0
		for _, t := range terms {
			if strings.Contains(text, t) {
				hits++
			}
		}
		scores[i] = float64(hits) / float64(len(terms))
	}
	return scores
}
