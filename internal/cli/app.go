package cli

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/jtbd/internal/cache"
	"github.com/ppiankov/jtbd/internal/llm"
	"github.com/ppiankov/jtbd/internal/model"
	"github.com/ppiankov/jtbd/internal/pipeline"
	"github.com/ppiankov/jtbd/internal/store"
	"github.com/ppiankov/jtbd/internal/worker"
)

// app wires the router from configuration
type app struct {
	cfg      *model.Config
	router   *pipeline.Router
	renderer *pipeline.Renderer
	closers  []func() error
}

func newApp(ctx context.Context, cfg *model.Config, noCache bool) (*app, error) {
	a := &app{
		cfg:      cfg,
		renderer: pipeline.NewRenderer(cfg.Output.IncludeFooter, nil),
	}

	loader, err := a.openLoader(ctx)
	if err != nil {
		return nil, err
	}

	analyzer := pipeline.NewAnalyzer(cfg).WithLogger(logger)
	a.router = pipeline.NewRouter(cfg, loader, analyzer).WithLogger(logger)

	if cfg.Cache.Enabled && !noCache {
		layered := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		build := buildID()
		a.router.WithCache(cache.NewResultCache(layered, 0), build)
		logger.Debug("analysis cache enabled", zap.String("dir", cfg.Cache.Dir), zap.String("build", build))
	}

	if cfg.LLM.Provider != "" {
		summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			// Analysis never depends on the narrative
			logger.Warn("LLM provider disabled", zap.Error(err))
		} else {
			limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
			a.router.WithSummarizer(summarizer.WithLimiter(limiter))
		}
	}

	return a, nil
}

func (a *app) openLoader(ctx context.Context) (store.Loader, error) {
	if a.cfg.Data.StorePath != "" {
		db, err := store.OpenSQLite(ctx, a.cfg.Data.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open corpus store: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		logger.Debug("loading corpora from SQLite", zap.String("path", a.cfg.Data.StorePath))
		return db, nil
	}

	logger.Debug("loading corpora from data dir", zap.String("dir", a.cfg.Data.Dir))
	return store.NewDirStore(a.cfg.Data.Dir, logger), nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logger.Warn("close", zap.Error(err))
		}
	}
}

// render writes v as JSON and/or markdown. With neither path set, JSON goes to stdout;
// otherwise the terminal summary is printed after the files are written.
func (a *app) render(v interface{}, markdown func() string, jsonPath, mdPath string) error {
	if jsonPath == "" && mdPath == "" {
		return a.renderer.RenderJSON(v, "-")
	}

	if jsonPath != "" {
		if err := a.renderer.RenderJSON(v, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		logger.Debug("wrote JSON", zap.String("path", jsonPath))
	}
	if mdPath != "" {
		if err := a.renderer.RenderMarkdown(markdown(), mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		logger.Debug("wrote markdown", zap.String("path", mdPath))
	}
	return nil
}

// buildID identifies the analysis code of this binary: the release version
// plus the VCS revision when the build recorded one. A dirty tree gets a
// suffix so local edits never reuse entries from the committed code.
func buildID() string {
	parts := []string{Version}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision":
				parts = append(parts, s.Value)
			case s.Key == "vcs.modified" && s.Value == "true":
				parts = append(parts, "dirty")
			}
		}
	}
	return strings.Join(parts, "+")
}
