package summarize

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/use-agent/distill/breaker"
	"github.com/use-agent/distill/classify"
	"github.com/use-agent/distill/config"
)

// Service runs the full summarization cascade for one section of text:
//
//	abstractive  hosted model, guarded by the circuit breaker
//	extractive   sentence selection, no external dependency
//	key facts    entity and number digest
//	verbatim     the original text, always available
//
// The abstractive backend initializes lazily on first use: each configured
// candidate model is probed in order and the first reachable one is kept.
// Concurrent first calls share a single probe. A failed probe round is
// cached until Reset.
type Service struct {
	cfg config.SummarizerConfig
	brk *breaker.Breaker

	mu      sync.Mutex
	initing chan struct{}
	backend Backend
	probed  bool

	// newBackend is replaced in tests.
	newBackend func(apiKey, baseURL, model string) Backend
}

// NewService wires a Service around the shared breaker.
func NewService(cfg config.SummarizerConfig, brk *breaker.Breaker) *Service {
	return &Service{
		cfg: cfg,
		brk: brk,
		newBackend: func(apiKey, baseURL, model string) Backend {
			return NewOpenAIBackend(apiKey, baseURL, model)
		},
	}
}

// BackendName reports the active backend for health output, or "" when none
// has initialized.
func (s *Service) BackendName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return ""
	}
	return s.backend.Name()
}

// Reset clears the cached probe outcome and closes the breaker, forcing the
// next call to re-probe candidates.
func (s *Service) Reset() {
	s.mu.Lock()
	s.backend = nil
	s.probed = false
	s.mu.Unlock()
	s.brk.Reset()
}

// Summarize condenses text toward targetWords. It never returns an error
// while text is non-empty: every failure falls through to a cheaper tier,
// ending at the original text.
func (s *Service) Summarize(ctx context.Context, text string, cls classify.Classification, targetWords int) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text, nil
	}
	if wordCount(trimmed) <= notNeededThreshold(cls.Density, targetWords) {
		return text, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.DocumentTimeout)
	defer cancel()

	if out, ok := s.abstractive(ctx, trimmed, cls, targetWords); ok {
		return out, nil
	}

	if out := Extractive(trimmed, targetWords, cls); ValidSummary(trimmed, out, cls) {
		return out, nil
	}

	if out := KeyFacts(trimmed, cls); out != "" {
		return out, nil
	}

	return text, nil
}

// abstractive runs the strategy's passes through the backend, reporting
// ok=false on any failure so the caller falls through.
func (s *Service) abstractive(ctx context.Context, text string, cls classify.Classification, targetWords int) (string, bool) {
	if s.cfg.APIKey == "" {
		return "", false
	}
	if err := s.brk.Allow(); err != nil {
		return "", false
	}

	backend := s.ensureBackend(ctx)
	if backend == nil {
		return "", false
	}

	strat := StrategyFor(cls)
	current := text
	for pass := 0; pass < strat.Passes; pass++ {
		target := targetWords
		if strat.Passes > 1 && pass == 0 {
			target = int(float64(targetWords) * strat.FirstPassRatio)
		}
		// A pass that already hit the target makes further passes pointless.
		if wordCount(current) <= target {
			break
		}

		// Narrative prose reads better with sampling; everything else runs
		// deterministically.
		out, err := s.runPass(ctx, backend, current, Params{
			MaxWords:          target,
			MinWords:          target / 2,
			PreserveStructure: strat.PreserveStructure,
			Deterministic:     !cls.IsNarrative,
		})
		if err != nil {
			slog.Warn("abstractive pass failed", "backend", backend.Name(), "pass", pass, "error", err)
			return "", false
		}
		current = out
	}

	current = Postprocess(current)
	if !ValidSummary(text, current, cls) {
		slog.Debug("abstractive output rejected by validation", "backend", backend.Name())
		return "", false
	}
	return current, true
}

func (s *Service) runPass(ctx context.Context, backend Backend, text string, p Params) (string, error) {
	passCtx, cancel := context.WithTimeout(ctx, s.cfg.PassTimeout)
	defer cancel()

	var out string
	err := s.brk.Do(func() error {
		var err error
		out, err = backend.Summarize(passCtx, text, p)
		return err
	})
	return out, err
}

// ensureBackend returns the initialized backend, probing candidates on
// first call. Concurrent callers block on the in-flight probe instead of
// starting their own.
func (s *Service) ensureBackend(ctx context.Context) Backend {
	for {
		s.mu.Lock()
		if s.backend != nil || s.probed {
			b := s.backend
			s.mu.Unlock()
			return b
		}
		if s.initing != nil {
			ch := s.initing
			s.mu.Unlock()
			select {
			case <-ch:
			case <-ctx.Done():
				return nil
			}
			continue
		}
		ch := make(chan struct{})
		s.initing = ch
		s.mu.Unlock()

		backend := s.probeCandidates(ctx)

		s.mu.Lock()
		s.backend = backend
		s.probed = true
		s.initing = nil
		close(ch)
		s.mu.Unlock()
		return backend
	}
}

// probeCandidates tries each configured model in order and keeps the first
// one whose Ping succeeds within InitTimeout.
func (s *Service) probeCandidates(ctx context.Context) Backend {
	for _, model := range s.cfg.Models {
		candidate := s.newBackend(s.cfg.APIKey, s.cfg.BaseURL, model)

		probeCtx, cancel := context.WithTimeout(ctx, s.cfg.InitTimeout)
		err := candidate.Ping(probeCtx)
		cancel()

		if err != nil {
			slog.Warn("summarizer candidate unreachable", "backend", candidate.Name(), "error", err)
			continue
		}
		slog.Info("summarizer backend initialized", "backend", candidate.Name())
		return candidate
	}
	slog.Error("no summarizer candidate reachable, abstractive tier disabled")
	return nil
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
