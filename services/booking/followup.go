package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studiobook/models"
	"studiobook/services/calendly"
	"studiobook/services/clickup"
	ai "studiobook/services/intelligence"
	"studiobook/utils"

	"go.uber.org/zap"
)

const (
	jobLabelPrompt = "booking:prompt"

	defaultPromptTimeout = 20 * time.Second
)

// FollowUpRunner executes the side effects of a submission. Each
// collaborator is optional; a nil one disables its side effect.
type FollowUpRunner struct {
	Prompts ai.PromptGenerator
	// PromptTimeout bounds prompt generation. It is further capped at half
	// of the time left on the job so task creation always keeps a budget.
	PromptTimeout time.Duration

	Tasks  TaskCreator
	ListID string

	Invitees     InviteeBooker
	EventTypeURI string
	LocationKind string

	Location *time.Location
	Logger   *zap.Logger
}

func (r *FollowUpRunner) TaskEnabled() bool {
	return r.Tasks != nil && r.ListID != ""
}

func (r *FollowUpRunner) InviteeEnabled() bool {
	return r.Invitees != nil && r.EventTypeURI != ""
}

func (r *FollowUpRunner) loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// Run executes one job. The returned error is for logging only; callers
// never retry.
func (r *FollowUpRunner) Run(ctx context.Context, job models.FollowUpJob) error {
	logger := r.Logger.With(zap.String("submissionId", job.SubmissionID), zap.String("job", job.Type))

	var err error
	switch job.Type {
	case models.JobTypeTask:
		err = r.runTask(ctx, job.Payload, logger)
	case models.JobTypeInvitee:
		err = r.runInvitee(ctx, job.Payload, logger)
	default:
		return fmt.Errorf("unknown follow-up job type %q", job.Type)
	}
	if err != nil {
		utils.FollowUpJobs.WithLabelValues(job.Type, "failed").Inc()
		logger.Error("follow-up failed", zap.Error(err))
		return err
	}
	utils.FollowUpJobs.WithLabelValues(job.Type, "ok").Inc()
	return nil
}

func (r *FollowUpRunner) runTask(ctx context.Context, p models.SubmissionPayload, logger *zap.Logger) error {
	aiPrompt := r.generatePrompt(ctx, p.IntakeData, logger)
	if _, err := r.CreateTask(ctx, p, aiPrompt); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	logger.Info("sales task created", zap.Bool("withPrompt", aiPrompt != ""))
	return nil
}

func (r *FollowUpRunner) runInvitee(ctx context.Context, p models.SubmissionPayload, logger *zap.Logger) error {
	if _, err := r.BookInvitee(ctx, p.SelectedDateTime, p.FormData, ""); err != nil {
		return fmt.Errorf("book invitee: %w", err)
	}
	logger.Info("invitee booked", zap.String("slot", p.SelectedDateTime))
	return nil
}

// generatePrompt returns "" when prompt generation is disabled or fails.
func (r *FollowUpRunner) generatePrompt(ctx context.Context, intake *models.BookingIntake, logger *zap.Logger) string {
	if r.Prompts == nil || intake == nil {
		return ""
	}
	promptCtx, cancel := r.promptContext(ctx)
	defer cancel()

	out, err := r.Prompts.Generate(promptCtx, BuildIntakePrompt(intake))
	if err != nil {
		utils.FollowUpJobs.WithLabelValues(jobLabelPrompt, "failed").Inc()
		logger.Warn("prompt generation failed, continuing without it", zap.Error(err))
		return ""
	}
	utils.FollowUpJobs.WithLabelValues(jobLabelPrompt, "ok").Inc()
	return out
}

func (r *FollowUpRunner) promptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	budget := r.PromptTimeout
	if budget <= 0 {
		budget = defaultPromptTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if half := time.Until(deadline) / 2; half < budget {
			budget = half
		}
	}
	return context.WithTimeout(ctx, budget)
}

// CreateTask creates the ClickUp sales task for a submission, due the day
// before the meeting.
func (r *FollowUpRunner) CreateTask(ctx context.Context, p models.SubmissionPayload, aiPrompt string) (json.RawMessage, error) {
	if !r.TaskEnabled() {
		return nil, &utils.ConfigurationError{Setting: "CLICKUP_API_TOKEN/CLICKUP_LIST_ID"}
	}
	meeting, err := time.Parse(time.RFC3339, p.SelectedDateTime)
	if err != nil {
		return nil, &utils.ValidationError{Message: "invalid meeting time", Invalid: []string{"selectedDateTime"}}
	}

	task := clickup.TaskRequest{
		Name:            TaskName(p),
		MarkdownContent: BuildTaskDescription(p, aiPrompt, r.loc()),
		DueDate:         DueDate(meeting, r.loc()).UnixMilli(),
		DueDateTime:     true,
		Priority:        2,
		Tags:            []string{"intake-call"},
	}
	return r.Tasks.CreateTask(ctx, r.ListID, task)
}

// BookInvitee registers the contact for the slot. An empty timezone falls
// back to the business timezone.
func (r *FollowUpRunner) BookInvitee(ctx context.Context, startTime string, contact models.ContactInfo, timezone string) (json.RawMessage, error) {
	if !r.InviteeEnabled() {
		return nil, &utils.ConfigurationError{Setting: "CALENDLY_API_TOKEN/CALENDLY_EVENT_TYPE_URI"}
	}
	start, err := time.Parse(time.RFC3339, startTime)
	if err != nil {
		return nil, &utils.ValidationError{Message: "invalid start time", Invalid: []string{"startTime"}}
	}
	if timezone == "" {
		timezone = r.loc().String()
	}

	req := calendly.InviteeRequest{
		EventType: r.EventTypeURI,
		StartTime: calendly.FormatTime(start),
		Invitee: calendly.Invitee{
			Name:     contact.Name,
			Email:    contact.Email,
			Timezone: timezone,
		},
	}
	if r.LocationKind != "" {
		req.Location = &calendly.Location{Kind: r.LocationKind}
	}
	return r.Invitees.CreateInvitee(ctx, req)
}
