package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/jobinvoicer/esign/internal/config"
	"github.com/jobinvoicer/esign/internal/database"
	"github.com/jobinvoicer/esign/internal/mailer"
	"github.com/jobinvoicer/esign/internal/queue"
	"github.com/jobinvoicer/esign/internal/queue/workers"
	"github.com/jobinvoicer/esign/internal/signer"
	"github.com/jobinvoicer/esign/internal/store/postgres"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	st := postgres.New(db)
	signerSvc := signer.NewService(st, cfg.Signing.PublicBaseURL, cfg.Signing.TokenTTL)
	smtp := mailer.NewSMTPMailer(cfg.SMTP)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewRegistry()

	notifyWorker := workers.NewNotifyWorker(st, signerSvc, smtp)
	registry.Handle(queue.TypeSignerNotify, notifyWorker.ProcessSignerNotify)
	registry.Handle(queue.TypeDocumentCompleted, notifyWorker.ProcessDocumentCompleted)

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
