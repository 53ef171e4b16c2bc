package models

// Project types accepted by the intake questionnaire.
const (
	ProjectTypeNew      = "new"
	ProjectTypeExisting = "existing"
)

// LogoFile is the metadata of a logo the prospect attached in the wizard.
// File contents never reach the server.
type LogoFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"` // bytes
}

// BookingIntake holds the answers to the pre-meeting questionnaire.
type BookingIntake struct {
	CompanyName     string     `json:"companyName"`
	ProjectType     string     `json:"projectType"` // "new" or "existing"
	CurrentWebsite  string     `json:"currentWebsite,omitempty"`
	Goal            string     `json:"goal"`
	DesiredAction   string     `json:"desiredAction"`
	Services        []string   `json:"services,omitempty"`
	Audience        string     `json:"audience"`
	Style           string     `json:"style"`
	Colors          string     `json:"colors,omitempty"`
	Budget          string     `json:"budget"`
	References      string     `json:"references,omitempty"`
	InspirationURLs string     `json:"inspirationUrls,omitempty"`
	ExtraNotes      string     `json:"extraNotes,omitempty"`
	LogoFiles       []LogoFile `json:"logoFiles,omitempty"`
}

// HasReferences reports whether any of the optional reference fields is set.
func (b *BookingIntake) HasReferences() bool {
	return b.References != "" || b.InspirationURLs != "" || b.ExtraNotes != ""
}

// ContactInfo is the contact step of the wizard.
type ContactInfo struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty"`
}

// SubmissionPayload is the single body posted to submit-booking.
type SubmissionPayload struct {
	SelectedDateTime string         `json:"selectedDateTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	IntakeData       *BookingIntake `json:"intakeData"`
	FormData         ContactInfo    `json:"formData"`
}

// CreateBookingRequest is the body of create-booking.
type CreateBookingRequest struct {
	StartTime string `json:"startTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Timezone  string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// CreateTaskRequest is the body of create-task.
type CreateTaskRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	MeetingStartTime string `json:"meetingStartTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}
