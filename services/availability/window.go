// Package availability resolves the bookable query window and lists open
// Calendly slots inside it.
package availability

import (
	"time"

	"studiobook/models"
	"studiobook/utils"
)

// Policy holds the business rules every resolved window must satisfy.
type Policy struct {
	MinNoticeHours int
	MaxDaysAhead   int
	MaxRangeDays   int
}

// DefaultPolicy is 4h notice, 31 days look-ahead and 7-day queries.
var DefaultPolicy = Policy{MinNoticeHours: 4, MaxDaysAhead: 31, MaxRangeDays: 7}

func (p Policy) minNotice() time.Duration { return time.Duration(p.MinNoticeHours) * time.Hour }
func (p Policy) maxAhead() time.Duration  { return time.Duration(p.MaxDaysAhead) * 24 * time.Hour }
func (p Policy) maxRange() time.Duration  { return time.Duration(p.MaxRangeDays) * 24 * time.Hour }

// Resolve clamps the requested bounds against the policy. Both bounds or
// neither are honoured; a single bound is treated as none. After Resolve:
//
//	Start >= now+MinNotice, End <= now+MaxDaysAhead, End-Start <= MaxRange
//
// The window may be empty when the request lies entirely outside the
// bookable range.
func (p Policy) Resolve(now time.Time, startParam, endParam string) (models.AvailabilityWindow, error) {
	now = now.UTC().Truncate(time.Second)
	minStart := now.Add(p.minNotice())
	maxEnd := now.Add(p.maxAhead())

	var start, end time.Time
	if startParam != "" && endParam != "" {
		reqStart, reqEnd, err := parseBounds(startParam, endParam)
		if err != nil {
			return models.AvailabilityWindow{}, err
		}
		start, end = reqStart, reqEnd
		if start.Before(minStart) {
			start = minStart
		}
		if end.After(maxEnd) {
			end = maxEnd
		}
	} else {
		start = minStart
		end = minStart.Add(p.maxRange())
		if end.After(maxEnd) {
			end = maxEnd
		}
	}

	if end.Sub(start) > p.maxRange() {
		end = start.Add(p.maxRange())
	}

	return models.AvailabilityWindow{Start: start, End: end, MinStart: minStart}, nil
}

func parseBounds(startParam, endParam string) (time.Time, time.Time, error) {
	verr := &utils.ValidationError{Message: "invalid time range"}
	start, err := time.Parse(time.RFC3339, startParam)
	if err != nil {
		verr.Invalid = append(verr.Invalid, "start_time")
	}
	end, err := time.Parse(time.RFC3339, endParam)
	if err != nil {
		verr.Invalid = append(verr.Invalid, "end_time")
	}
	if len(verr.Invalid) > 0 {
		return time.Time{}, time.Time{}, verr
	}
	return start.UTC(), end.UTC(), nil
}

// FilterSlots keeps slots starting inside [window.MinStart, window.End).
// Slots whose start cannot be parsed are dropped. Slots served from the
// cache were fetched for a minute-truncated window, so both bounds are
// checked again here.
func FilterSlots(slots []models.AvailableSlot, window models.AvailabilityWindow) []models.AvailableSlot {
	out := make([]models.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		t, err := time.Parse(time.RFC3339, slot.StartTime)
		if err != nil {
			continue
		}
		if !t.Before(window.MinStart) && t.Before(window.End) {
			out = append(out, slot)
		}
	}
	return out
}
