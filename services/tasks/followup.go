package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"studiobook/models"

	"github.com/hibiken/asynq"
)

// QueueName is the asynq queue follow-up jobs run on.
const QueueName = "followups"

// NewFollowUpTask wraps a job as an asynq task. Jobs are never retried and
// the task ID makes re-enqueueing the same submission a no-op.
func NewFollowUpTask(job models.FollowUpJob, timeout time.Duration) (*asynq.Task, []asynq.Option, error) {
	switch job.Type {
	case models.JobTypeTask, models.JobTypeInvitee:
	default:
		return nil, nil, fmt.Errorf("unknown follow-up job type %q", job.Type)
	}
	b, err := json.Marshal(job)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(job.Type, b)
	opts := []asynq.Option{
		asynq.Queue(QueueName),
		asynq.MaxRetry(0),
		asynq.Timeout(timeout),
		asynq.TaskID(job.SubmissionID + ":" + job.Type),
	}
	return task, opts, nil
}

// ParseFollowUpTask decodes the job carried by an asynq task.
func ParseFollowUpTask(task *asynq.Task) (models.FollowUpJob, error) {
	var job models.FollowUpJob
	if err := json.Unmarshal(task.Payload(), &job); err != nil {
		return models.FollowUpJob{}, fmt.Errorf("invalid follow-up payload: %w", err)
	}
	if job.Type != task.Type() {
		return models.FollowUpJob{}, fmt.Errorf("payload type %q does not match task type %q", job.Type, task.Type())
	}
	return job, nil
}
