// Package calendly is a minimal client for the Calendly v2 scheduling API.
package calendly

import "studiobook/models"

// availableTimesResponse is the body of GET /event_type_available_times.
type availableTimesResponse struct {
	Collection []models.AvailableSlot `json:"collection"`
}

// Invitee identifies the person being booked.
type Invitee struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Timezone string `json:"timezone,omitempty"`
}

// Location overrides the event type's default meeting location.
type Location struct {
	Kind string `json:"kind"`
}

// InviteeRequest is the body of POST /invitees.
type InviteeRequest struct {
	EventType string    `json:"event_type"`
	StartTime string    `json:"start_time"`
	Invitee   Invitee   `json:"invitee"`
	Location  *Location `json:"location,omitempty"`
}
