package booking

import (
	"context"
	"encoding/json"
	"strings"

	"studiobook/models"
	"studiobook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const missingFieldsMessage = "Missing required fields"

// DefaultSubmissionService implements SubmissionService.
type DefaultSubmissionService struct {
	Dispatcher Dispatcher
	FollowUps  *FollowUpRunner
	Logger     *zap.Logger
	NewID      func() string
}

func (s *DefaultSubmissionService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New().String()
}

// Submit validates the payload and dispatches the follow-up jobs. It returns
// as soon as they are handed off; their outcome never reaches the caller.
func (s *DefaultSubmissionService) Submit(ctx context.Context, payload models.SubmissionPayload) (string, error) {
	payload.SelectedDateTime = strings.TrimSpace(payload.SelectedDateTime)
	payload.FormData = trimContact(payload.FormData)

	if err := validatePayload(payload, missingFieldsMessage); err != nil {
		return "", err
	}

	id := s.newID()
	logger := s.Logger.With(zap.String("submissionId", id))
	logger.Info("booking submitted",
		zap.String("slot", payload.SelectedDateTime),
		zap.Bool("withIntake", payload.IntakeData != nil))

	s.dispatch(ctx, logger, models.FollowUpJob{Type: models.JobTypeTask, SubmissionID: id, Payload: payload}, s.FollowUps.TaskEnabled())
	s.dispatch(ctx, logger, models.FollowUpJob{Type: models.JobTypeInvitee, SubmissionID: id, Payload: payload}, s.FollowUps.InviteeEnabled())
	return id, nil
}

func (s *DefaultSubmissionService) dispatch(ctx context.Context, logger *zap.Logger, job models.FollowUpJob, enabled bool) {
	if !enabled {
		utils.FollowUpJobs.WithLabelValues(job.Type, "skipped").Inc()
		logger.Info("follow-up disabled by configuration", zap.String("job", job.Type))
		return
	}
	if err := s.Dispatcher.Dispatch(ctx, job); err != nil {
		utils.FollowUpJobs.WithLabelValues(job.Type, "failed").Inc()
		logger.Error("failed to dispatch follow-up", zap.String("job", job.Type), zap.Error(err))
	}
}

// CreateBooking books an invitee synchronously and returns Calendly's response.
func (s *DefaultSubmissionService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (json.RawMessage, error) {
	if !s.FollowUps.InviteeEnabled() {
		return nil, &utils.ConfigurationError{Setting: "CALENDLY_API_TOKEN/CALENDLY_EVENT_TYPE_URI"}
	}
	req.StartTime = strings.TrimSpace(req.StartTime)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validatePayload(req, missingFieldsMessage); err != nil {
		return nil, err
	}
	contact := models.ContactInfo{Name: req.Name, Email: req.Email}
	return s.FollowUps.BookInvitee(ctx, req.StartTime, contact, req.Timezone)
}

// CreateTask creates a ClickUp task synchronously and returns its response.
func (s *DefaultSubmissionService) CreateTask(ctx context.Context, req models.CreateTaskRequest) (json.RawMessage, error) {
	if !s.FollowUps.TaskEnabled() {
		return nil, &utils.ConfigurationError{Setting: "CLICKUP_API_TOKEN/CLICKUP_LIST_ID"}
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.MeetingStartTime = strings.TrimSpace(req.MeetingStartTime)
	if err := validatePayload(req, missingFieldsMessage); err != nil {
		return nil, err
	}
	payload := models.SubmissionPayload{
		SelectedDateTime: req.MeetingStartTime,
		FormData:         models.ContactInfo{Name: req.Name, Email: req.Email},
	}
	return s.FollowUps.CreateTask(ctx, payload, "")
}

func trimContact(c models.ContactInfo) models.ContactInfo {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	return c
}
