package models

import "time"

// AvailabilityWindow is a resolved [Start, End) UTC query range.
type AvailabilityWindow struct {
	Start time.Time
	End   time.Time
	// MinStart is the minimum-notice cutoff the window was resolved against.
	MinStart time.Time
}

// Empty is true when clamping left nothing to query.
func (w AvailabilityWindow) Empty() bool {
	return !w.End.After(w.Start)
}

// AvailableSlot is one bookable start time as reported by Calendly.
type AvailableSlot struct {
	StartTime         string `json:"start_time"`
	Status            string `json:"status,omitempty"`
	InviteesRemaining *int   `json:"invitees_remaining,omitempty"`
	SchedulingURL     string `json:"scheduling_url,omitempty"`
}

// AvailableTimesResult is the available-times response body.
type AvailableTimesResult struct {
	Collection     []AvailableSlot `json:"collection"`
	MinNoticeHours int             `json:"min_notice_hours"`
	MaxDaysAhead   int             `json:"max_days_ahead"`
}
