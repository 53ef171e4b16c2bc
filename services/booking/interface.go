package booking

import (
	"context"
	"encoding/json"

	"studiobook/models"
	"studiobook/services/calendly"
	"studiobook/services/clickup"
)

// SubmissionService accepts wizard submissions and the two direct
// create-booking / create-task operations.
type SubmissionService interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) (string, error)
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (json.RawMessage, error)
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (json.RawMessage, error)
}

// Dispatcher hands a follow-up job to detached background execution. It
// must not wait for the job to run.
type Dispatcher interface {
	Dispatch(ctx context.Context, job models.FollowUpJob) error
}

// TaskCreator is satisfied by *clickup.Client.
type TaskCreator interface {
	CreateTask(ctx context.Context, listID string, task clickup.TaskRequest) (json.RawMessage, error)
}

// InviteeBooker is satisfied by *calendly.Client.
type InviteeBooker interface {
	CreateInvitee(ctx context.Context, req calendly.InviteeRequest) (json.RawMessage, error)
}
