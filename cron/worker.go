package cron

import (
	"context"
	"fmt"

	"studiobook/config"
	"studiobook/models"
	"studiobook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// FollowUpWorker consumes follow-up jobs from Redis.
type FollowUpWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// RedisOpt is the asynq connection for the follow-up queue.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

func NewFollowUpWorker(cfg *config.Config, handler tasks.JobHandler, logger *zap.Logger) *FollowUpWorker {
	logger = logger.Named("followup-worker")
	srv := asynq.NewServer(
		RedisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueName: 1,
			},
			Logger:   logger.Sugar(),
			LogLevel: asynq.WarnLevel,
		},
	)

	mux := asynq.NewServeMux()
	h := handleFollowUpTask(handler, logger)
	mux.HandleFunc(models.JobTypeTask, h)
	mux.HandleFunc(models.JobTypeInvitee, h)

	return &FollowUpWorker{srv: srv, mux: mux, logger: logger}
}

// Start begins processing in background goroutines.
func (w *FollowUpWorker) Start() error {
	w.logger.Info("starting follow-up worker")
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("start follow-up worker: %w", err)
	}
	return nil
}

// Shutdown waits for active jobs up to asynq's shutdown timeout.
func (w *FollowUpWorker) Shutdown() {
	w.srv.Shutdown()
	w.logger.Info("follow-up worker stopped")
}

func handleFollowUpTask(handler tasks.JobHandler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		job, err := tasks.ParseFollowUpTask(task)
		if err != nil {
			logger.Error("invalid follow-up task", zap.String("type", task.Type()), zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := handler(ctx, job); err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return nil
	}
}
