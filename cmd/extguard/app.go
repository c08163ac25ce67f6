package main

import (
	"fmt"
	"io"

	"github.com/haukened/extguard/internal/ext/common/clock"
	"github.com/haukened/extguard/internal/ext/common/log"
	"github.com/haukened/extguard/internal/ext/config"
	"github.com/haukened/extguard/internal/ext/gateways/report"
	"github.com/haukened/extguard/internal/ext/repos/denylist"
	"github.com/haukened/extguard/internal/ext/repos/denylist/bloom"
	"github.com/haukened/extguard/internal/ext/repos/denylist/bolt"
	"github.com/haukened/extguard/internal/ext/repos/denylist/lru"
	"github.com/haukened/extguard/internal/ext/services/classifier"
)

// Application holds the wired components of one extguard run.
type Application struct {
	config     *config.AppConfig
	logger     log.Logger
	store      denylist.Store
	repo       denylist.Repository
	classifier *classifier.Classifier
}

// buildApplication loads the denylist and wires store → repository → classifier.
// The denylist file is read before anything else is opened so a LoadFailure
// leaves nothing behind.
func buildApplication(cfg *config.AppConfig, logger log.Logger, clk clock.Clock) (*Application, error) {
	rules, err := denylist.LoadFile(cfg.DenylistPath, logger, clk)
	if err != nil {
		return nil, fmt.Errorf("failed to load denylist: %w", err)
	}

	store, err := buildStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open denylist store: %w", err)
	}

	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create decision cache: %w", err)
	}

	repo := denylist.NewRepository(store, cache, bloom.NewFactory(), cfg.BloomFPRate)
	if err := repo.UpdateAll(rules, 1, clk.Now().Unix()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to index denylist: %w", err)
	}

	logger.Info(map[string]any{
		"extensions": repo.Stats().Store.Extensions,
		"cache_size": cfg.CacheSize,
	}, "Denylist ready")
	logger.Debug(map[string]any{"extensions": denylist.NewSet(rules).Extensions()}, "Denylist contents")

	return &Application{
		config:     cfg,
		logger:     logger,
		store:      store,
		repo:       repo,
		classifier: classifier.New(classifier.Options{Denylist: repo, Logger: logger}),
	}, nil
}

// buildStore picks the bbolt index when an index path is configured, memory otherwise.
func buildStore(cfg *config.AppConfig, logger log.Logger) (denylist.Store, error) {
	if cfg.IndexPath == "" {
		return denylist.NewMemoryStore(), nil
	}
	st, err := bolt.New(cfg.IndexPath)
	if err != nil {
		return nil, err
	}
	logger.Info(map[string]any{"index_path": cfg.IndexPath}, "Using bbolt denylist index")
	return st, nil
}

// Run classifies files in order and writes one report line per file to w.
func (app *Application) Run(files []string, w io.Writer) error {
	results := app.classifier.ClassifyAll(files)
	if err := report.NewTextWriter(w).Write(results); err != nil {
		return err
	}

	st := app.repo.Stats()
	app.logger.Info(map[string]any{
		"files":       len(files),
		"decisions":   st.Decisions,
		"bloom_skips": st.BloomSkips,
		"cache_hits":  st.Cache.Hits,
	}, "Classification complete")
	return nil
}

// Close releases the denylist store.
func (app *Application) Close() error {
	return app.store.Close()
}
