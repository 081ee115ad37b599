package summarize

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/use-agent/distill/breaker"
	"github.com/use-agent/distill/classify"
	"github.com/use-agent/distill/config"
)

// fakeBackend scripts Ping and Summarize outcomes.
type fakeBackend struct {
	name      string
	pingErr   error
	sumErr    error
	output    string
	calls     atomic.Int32
	pingCalls atomic.Int32

	mu         sync.Mutex
	lastParams Params
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Summarize(_ context.Context, text string, p Params) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastParams = p
	f.mu.Unlock()
	if f.sumErr != nil {
		return "", f.sumErr
	}
	if f.output != "" {
		return f.output, nil
	}
	words := strings.Fields(text)
	n := len(words) / 2
	if n < 3 {
		n = 3
	}
	return strings.Join(words[:n], " "), nil
}

func (f *fakeBackend) Ping(context.Context) error {
	f.pingCalls.Add(1)
	return f.pingErr
}

func testConfig() config.SummarizerConfig {
	return config.SummarizerConfig{
		APIKey:          "test-key",
		Models:          []string{"model-a"},
		InitTimeout:     time.Second,
		PassTimeout:     time.Second,
		DocumentTimeout: 5 * time.Second,
	}
}

func newTestService(fb *fakeBackend) *Service {
	s := NewService(testConfig(), breaker.New(5, time.Minute))
	s.newBackend = func(_, _, _ string) Backend { return fb }
	return s
}

// longText produces dense prose long enough to trigger summarization.
func longText(words int) string {
	sentence := "The Acme Corporation reported revenue of 45 million dollars for the third quarter of 2024. "
	var b strings.Builder
	for wordCount(b.String()) < words {
		b.WriteString(sentence)
	}
	return strings.TrimSpace(b.String())
}

func denseClassification(text string) classify.Classification {
	cls := classify.New().Classify(text)
	cls.Density = classify.DensityHigh
	return cls
}

func TestSummarize_ShortTextPassesThrough(t *testing.T) {
	fb := &fakeBackend{name: "fake"}
	s := newTestService(fb)

	text := "A short paragraph about Acme Corporation earning 45 million dollars."
	got, err := s.Summarize(context.Background(), text, denseClassification(text), 400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != text {
		t.Errorf("short text should pass through unchanged")
	}
	if fb.calls.Load() != 0 {
		t.Errorf("backend called for text under threshold")
	}
}

func TestSummarize_AbstractiveTier(t *testing.T) {
	text := longText(400)
	fb := &fakeBackend{name: "fake", output: "Acme Corporation reported revenue of 45 million dollars in the third quarter of 2024."}
	s := newTestService(fb)

	got, err := s.Summarize(context.Background(), text, denseClassification(text), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != fb.output {
		t.Errorf("expected abstractive output, got %q", got)
	}
	if fb.calls.Load() == 0 {
		t.Error("backend never called")
	}
}

func TestSummarize_BackendFailureFallsToExtractive(t *testing.T) {
	text := longText(400)
	fb := &fakeBackend{name: "fake", sumErr: errors.New("model overloaded")}
	s := newTestService(fb)

	got, err := s.Summarize(context.Background(), text, denseClassification(text), 100)
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if got == "" {
		t.Fatal("fallback produced empty output")
	}
	if wordCount(got) >= wordCount(text) {
		t.Errorf("fallback did not condense: %d words", wordCount(got))
	}
}

func TestSummarize_InvalidOutputRejected(t *testing.T) {
	text := longText(400)
	// Output loses every entity and number from the source.
	fb := &fakeBackend{name: "fake", output: "Something happened somewhere at some point, allegedly, perhaps recently."}
	s := newTestService(fb)

	got, err := s.Summarize(context.Background(), text, denseClassification(text), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == fb.output {
		t.Error("entity-free output should have been rejected by validation")
	}
}

func TestSummarize_NeverErrorsWithNonEmptyText(t *testing.T) {
	fb := &fakeBackend{name: "fake", pingErr: errors.New("unreachable"), sumErr: errors.New("down")}
	s := newTestService(fb)

	text := longText(400)
	got, err := s.Summarize(context.Background(), text, denseClassification(text), 100)
	if err != nil {
		t.Fatalf("cascade must not error: %v", err)
	}
	if strings.TrimSpace(got) == "" {
		t.Error("cascade must not produce empty output from non-empty text")
	}
}

func TestSummarize_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	text := longText(400)
	fb := &fakeBackend{name: "fake", sumErr: errors.New("down")}
	s := NewService(testConfig(), breaker.New(2, time.Minute))
	s.newBackend = func(_, _, _ string) Backend { return fb }

	cls := denseClassification(text)
	for i := 0; i < 4; i++ {
		if _, err := s.Summarize(context.Background(), text, cls, 100); err != nil {
			t.Fatalf("call %d errored: %v", i, err)
		}
	}
	// Two failures trip the breaker; later calls skip the backend entirely.
	if calls := fb.calls.Load(); calls != 2 {
		t.Errorf("backend called %d times, want 2 before breaker opened", calls)
	}
}

func TestService_ProbeFailureCachedUntilReset(t *testing.T) {
	text := longText(400)
	fb := &fakeBackend{name: "fake", pingErr: errors.New("unreachable")}
	s := newTestService(fb)
	cls := denseClassification(text)

	for i := 0; i < 3; i++ {
		_, _ = s.Summarize(context.Background(), text, cls, 100)
	}
	if pings := fb.pingCalls.Load(); pings != 1 {
		t.Errorf("probe ran %d times, want 1 (failure should be cached)", pings)
	}

	fb.pingErr = nil
	s.Reset()
	_, _ = s.Summarize(context.Background(), text, cls, 100)
	if pings := fb.pingCalls.Load(); pings != 2 {
		t.Errorf("Reset should allow a new probe, got %d pings", pings)
	}
}

func TestService_ConcurrentInitSharesProbe(t *testing.T) {
	text := longText(400)
	fb := &fakeBackend{name: "fake"}
	s := newTestService(fb)
	cls := denseClassification(text)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Summarize(context.Background(), text, cls, 100)
		}()
	}
	wg.Wait()

	if pings := fb.pingCalls.Load(); pings != 1 {
		t.Errorf("concurrent callers ran %d probes, want 1", pings)
	}
}

func TestService_BackendName(t *testing.T) {
	fb := &fakeBackend{name: "fake/model-a"}
	s := newTestService(fb)

	if name := s.BackendName(); name != "" {
		t.Errorf("uninitialized service should report empty name, got %q", name)
	}

	text := longText(400)
	_, _ = s.Summarize(context.Background(), text, denseClassification(text), 100)
	if name := s.BackendName(); name != "fake/model-a" {
		t.Errorf("BackendName = %q, want fake/model-a", name)
	}
}

func TestSummarize_NoAPIKeySkipsAbstractive(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""
	fb := &fakeBackend{name: "fake"}
	s := NewService(cfg, breaker.New(5, time.Minute))
	s.newBackend = func(_, _, _ string) Backend { return fb }

	text := longText(400)
	got, err := s.Summarize(context.Background(), text, denseClassification(text), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.pingCalls.Load() != 0 {
		t.Error("no probe should run without an API key")
	}
	if strings.TrimSpace(got) == "" {
		t.Error("extractive tier should still produce output")
	}
}

func TestSummarize_SamplingFollowsNarrativeFlag(t *testing.T) {
	fb := &fakeBackend{name: "fake"}
	s := newTestService(fb)
	text := longText(400)

	narrative := denseClassification(text)
	narrative.IsNarrative = true
	if _, err := s.Summarize(context.Background(), text, narrative, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fb.mu.Lock()
	deterministic := fb.lastParams.Deterministic
	fb.mu.Unlock()
	if deterministic {
		t.Error("narrative content should allow sampling")
	}

	factual := denseClassification(text)
	factual.IsNarrative = false
	if _, err := s.Summarize(context.Background(), text, factual, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fb.mu.Lock()
	deterministic = fb.lastParams.Deterministic
	fb.mu.Unlock()
	if !deterministic {
		t.Error("non-narrative content should run deterministically")
	}
}
