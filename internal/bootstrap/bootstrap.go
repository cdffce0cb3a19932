package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/file-organizer/internal/config"
	"github.com/kirillkom/file-organizer/internal/core/ports"
	"github.com/kirillkom/file-organizer/internal/core/usecase"
	"github.com/kirillkom/file-organizer/internal/infrastructure/extractor"
	"github.com/kirillkom/file-organizer/internal/infrastructure/hashcache"
	"github.com/kirillkom/file-organizer/internal/infrastructure/heuristics"
	"github.com/kirillkom/file-organizer/internal/infrastructure/hints"
	"github.com/kirillkom/file-organizer/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/file-organizer/internal/infrastructure/naming"
	"github.com/kirillkom/file-organizer/internal/infrastructure/queue/nats"
	"github.com/kirillkom/file-organizer/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/file-organizer/internal/infrastructure/resilience"
	"github.com/kirillkom/file-organizer/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/file-organizer/internal/infrastructure/taxonomy"
)

type App struct {
	Config config.Config

	Queue      ports.MessageQueue
	Repo       ports.ItemRepository
	Registry   ports.TaxonomyRegistry
	ScanUC     ports.BatchScanner
	ClassifyUC ports.FileClassifier
	ReviewUC   ports.ItemReviewer
	MigrateUC  ports.Migrator

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewItemRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	registry, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	backend := ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaModel, ollama.ClientOptions{
		RequestTimeout:     time.Duration(cfg.OllamaTimeoutSeconds) * time.Second,
		RequestsPerSecond:  cfg.OllamaRequestsPerSec,
		ResilienceExecutor: executor,
	})
	classifier := ollama.NewClassifier(backend, registry)

	mover := localfs.NewMover()
	texts := extractor.NewWithLimit(int64(cfg.MaxTextExtractBytes))
	hasher := hashcache.New()
	hinter := hints.NewExtractor()
	matcher := heuristics.NewMatcher()
	namer := naming.NewGenerator()

	scanUC := usecase.NewScanBatchUseCase(repo, queue)
	classifyUC := usecase.NewClassifyFileUseCase(repo, texts, hasher, hinter, matcher, classifier, namer, registry)
	reviewUC := usecase.NewItemReviewUseCase(repo, registry, mover, namer, cfg.RejectedPath)
	migrateUC := usecase.NewMigrateUseCase(repo, mover)

	return &App{
		Config: cfg,

		Queue:      queue,
		Repo:       repo,
		Registry:   registry,
		ScanUC:     scanUC,
		ClassifyUC: classifyUC,
		ReviewUC:   reviewUC,
		MigrateUC:  migrateUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
