package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"memeforge/internal/config"
	"memeforge/internal/ingest"
	"memeforge/internal/registry"
	"memeforge/internal/scoring"
	"memeforge/internal/selection"
	"memeforge/internal/store"
	"memeforge/internal/store/primary"
	"memeforge/internal/tracker"
)

// App wires the selection core and its collaborators. Everything mutable
// and shared is owned here and injected downward; nothing in the core is a
// process-wide singleton, so multiple App instances (one per shard, or per
// test) coexist safely.
type App struct {
	Config *config.Config

	ContentStore store.ContentStore
	Tracker      *tracker.Tracker
	Registry     *registry.Registry
	Scorer       *scoring.Scorer
	Counter      *selection.ServedCounter
	Orchestrator *selection.Orchestrator
	Ingestor     *ingest.Ingestor
	JobClient    store.JobClient
}

// NewApp validates the configuration and initializes every component.
// Malformed configuration refuses to initialize; running with undefined
// weighting or an unbounded tracker is worse than not running.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{Config: cfg}

	if err := a.initContentStore(context.Background()); err != nil {
		return nil, err
	}
	if err := a.initSelectionCore(); err != nil {
		a.Close()
		return nil, err
	}
	a.Ingestor = ingest.New(a.ContentStore)
	a.JobClient = store.NewAsynqJobClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)

	log.Info("application initialization complete")
	return a, nil
}

func (a *App) initContentStore(ctx context.Context) error {
	cs, err := primary.NewContentStore(ctx, a.Config.Database.Primary.DSN)
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}
	a.ContentStore = cs
	return nil
}

func (a *App) initSelectionCore() error {
	cfg := a.Config

	tr, err := tracker.New(cfg.Selection.TrackerCapacity, cfg.TrackerWindow())
	if err != nil {
		return fmt.Errorf("init repetition tracker: %w", err)
	}
	a.Tracker = tr

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	reg, err := registry.New(cfg.GeneratorSpecs(), rng)
	if err != nil {
		return fmt.Errorf("init generator registry: %w", err)
	}
	a.Registry = reg

	a.Counter = selection.NewServedCounter()
	opts := []scoring.Option{scoring.WithTargetLength(cfg.Scorer.TargetLength)}
	if cfg.Scorer.NoveltyBonus {
		opts = append(opts, scoring.WithCategoryCounter(a.Counter))
	}
	a.Scorer = scoring.NewScorer(opts...)

	orch, err := selection.NewOrchestrator(selection.Deps{
		Registry:        a.Registry,
		Store:           a.ContentStore,
		Scorer:          a.Scorer,
		Tracker:         a.Tracker,
		Counter:         a.Counter,
		DefaultMinScore: cfg.Selection.MinScore,
	})
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}
	a.Orchestrator = orch
	return nil
}

// ReloadGenerators re-reads generator specs from configuration and swaps
// the registry table atomically.
func (a *App) ReloadGenerators() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	if err := a.Registry.Reload(cfg.GeneratorSpecs()); err != nil {
		return fmt.Errorf("reload generators: %w", err)
	}
	a.Config.Generators = cfg.Generators
	log.WithField("generators", len(cfg.Generators)).Info("generator registry reloaded")
	return nil
}

// Close releases held resources. Safe to call on a partially built App.
func (a *App) Close() {
	if a.JobClient != nil {
		if err := a.JobClient.Close(); err != nil {
			log.WithError(err).Warn("closing job client")
		}
	}
	if a.ContentStore != nil {
		if err := a.ContentStore.Close(); err != nil {
			log.WithError(err).Warn("closing content store")
		}
	}
}
