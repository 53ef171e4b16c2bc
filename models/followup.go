package models

// Follow-up job types dispatched after a successful submission.
const (
	JobTypeTask    = "booking:task"
	JobTypeInvitee = "booking:invitee"
)

// FollowUpJob is one detached side effect of a submission.
type FollowUpJob struct {
	Type         string            `json:"type"`
	SubmissionID string            `json:"submissionId"`
	Payload      SubmissionPayload `json:"payload"`
}
