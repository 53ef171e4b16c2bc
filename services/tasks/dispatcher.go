package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studiobook/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// JobHandler runs one follow-up job.
type JobHandler func(ctx context.Context, job models.FollowUpJob) error

// enqueuer is the part of *asynq.Client the dispatcher needs.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher enqueues follow-up jobs on Redis for the asynq worker.
type QueueDispatcher struct {
	client  enqueuer
	timeout time.Duration
	logger  *zap.Logger
}

func NewQueueDispatcher(client *asynq.Client, jobTimeout time.Duration, logger *zap.Logger) *QueueDispatcher {
	return &QueueDispatcher{client: client, timeout: jobTimeout, logger: logger}
}

// Dispatch only waits for the enqueue itself, bounded to two seconds.
func (d *QueueDispatcher) Dispatch(ctx context.Context, job models.FollowUpJob) error {
	task, opts, err := NewFollowUpTask(job, d.timeout)
	if err != nil {
		return err
	}
	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	info, err := d.client.EnqueueContext(enqueueCtx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", job.Type, err)
	}
	d.logger.Debug("follow-up enqueued", zap.String("taskId", info.ID), zap.String("queue", info.Queue))
	return nil
}

// InProcessDispatcher runs each job on its own goroutine, detached from the
// request context and bounded by a timeout.
type InProcessDispatcher struct {
	handler JobHandler
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func NewInProcessDispatcher(handler JobHandler, jobTimeout time.Duration, logger *zap.Logger) *InProcessDispatcher {
	return &InProcessDispatcher{handler: handler, timeout: jobTimeout, logger: logger}
}

func (d *InProcessDispatcher) Dispatch(ctx context.Context, job models.FollowUpJob) error {
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				d.logger.Error("follow-up panicked",
					zap.String("job", job.Type),
					zap.String("submissionId", job.SubmissionID),
					zap.Any("panic", rec))
			}
		}()
		// Run logs its own failures.
		_ = d.handler(jobCtx, job)
	}()
	return nil
}

// Wait blocks until every dispatched job has finished.
func (d *InProcessDispatcher) Wait() {
	d.wg.Wait()
}
