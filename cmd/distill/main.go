package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/distill/api"
	"github.com/use-agent/distill/breaker"
	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/notify"
	"github.com/use-agent/distill/rank"
	"github.com/use-agent/distill/search"
	"github.com/use-agent/distill/summarize"
)

// responseTTL bounds how long a cached clean response may be served even
// when the client asks for the maximum acceptable age.
const responseTTL = 1 * time.Hour

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Setup logging ────────────────────────────────────────────
	initLogger(cfg.Log)
	slog.Info("distill starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"summarizerEnabled", cfg.Summarizer.APIKey != "",
	)

	// ── 3. Initialise summarizer behind a shared circuit breaker ────
	brk := breaker.New(cfg.Breaker.FailureThreshold, cfg.Breaker.CoolDown)
	svc := summarize.NewService(cfg.Summarizer, brk)

	// ── 4. Initialise the cleaning pipeline ─────────────────────────
	p := cleaner.NewPipeline(cfg.Pipeline, svc)

	// ── 4b. Search client and semantic ranker ───────────────────────
	fetcher := search.NewClient(cfg.Search)
	ranker := rank.NewRanker(cfg.Summarizer, cfg.Cache, brk)

	// ── 4c. Response cache and webhook sink ─────────────────────────
	cc := cache.New[*models.CleanResponse](cfg.Cache.MaxEntries, responseTTL)
	sink := notify.NewSink(cfg.Notify)
	if sink.Enabled() {
		slog.Info("webhook notifications enabled")
	}

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(cfg, api.Deps{
		Pipeline:   p,
		Summarizer: svc,
		Breaker:    brk,
		Fetcher:    fetcher,
		Ranker:     ranker,
		Cache:      cc,
		Sink:       sink,
		StartTime:  startTime,
	})

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("distill stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
