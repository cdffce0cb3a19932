package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/file-organizer/internal/bootstrap"
	"github.com/kirillkom/file-organizer/internal/config"
	"github.com/kirillkom/file-organizer/internal/core/ports"
	"github.com/kirillkom/file-organizer/internal/observability/logging"
	"github.com/kirillkom/file-organizer/internal/observability/metrics"
)

const serviceName = "organizer-worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsHandler(workerMetrics),
	}
	go func() {
		slog.Info("worker metrics listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeClassifyFile(ctx, func(handlerCtx context.Context, req ports.ClassifyFileRequest) error {
		if req.EnqueuedAt > 0 {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(time.Unix(req.EnqueuedAt, 0)))
		}

		workerMetrics.StartFile()
		start := time.Now()

		classifyCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		item, err := app.ClassifyUC.ClassifyFile(classifyCtx, req)
		workerMetrics.FinishFile(serviceName, time.Since(start), err)
		if err != nil {
			slog.Error("classify file failed", "path", req.SourcePath, "error", err)
			return err
		}

		workerMetrics.ObserveConfidence(serviceName, item.Confidence)
		slog.Info("file classified",
			"path", req.SourcePath,
			"workspace", item.ProposedWorkspace,
			"filename", item.ProposedFilename,
			"confidence", item.Confidence,
		)
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func metricsHandler(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}
