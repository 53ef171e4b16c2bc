package booking

import "time"

// DueDate is the end of the calendar day before the meeting, in loc.
func DueDate(meeting time.Time, loc *time.Location) time.Time {
	local := meeting.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d-1, 23, 59, 59, int(999*time.Millisecond), loc)
}
