// Package interpret normalizes free-text phrases into calendar dates and
// appointment-type keys. Resolution failures are "ask again" signals for the
// conversation, never errors.
package interpret

import (
	"regexp"
	"strings"
	"time"
)

var isoDatePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)

// weekdays in Monday-first order, matching the offset arithmetic below.
var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Date resolves a free-text phrase to an ISO date relative to today.
// Priority: "today", "tomorrow", a weekday name (next occurrence on or after
// today; "next" pushes a zero offset a full week out), then an explicit
// YYYY-MM-DD substring taken verbatim. ok is false when nothing matched.
func Date(text string, today time.Time) (string, bool) {
	low := strings.ToLower(text)

	if strings.Contains(low, "today") {
		return format(today), true
	}
	if strings.Contains(low, "tomorrow") {
		return format(today.AddDate(0, 0, 1)), true
	}

	todayIdx := mondayIndexed(today.Weekday())
	for i, day := range weekdays {
		if !strings.Contains(low, day) {
			continue
		}
		delta := (i - todayIdx + 7) % 7
		// "wednesday" on a Wednesday means today; "next wednesday" means
		// one week out.
		if delta == 0 && strings.Contains(low, "next") {
			delta = 7
		}
		return format(today.AddDate(0, 0, delta)), true
	}

	if m := isoDatePattern.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

// AppointmentType maps free text onto a canonical appointment-type key by
// substring containment; first match wins.
func AppointmentType(text string) (string, bool) {
	low := strings.ToLower(text)
	switch {
	case strings.Contains(low, "consult"):
		return "consultation", true
	case strings.Contains(low, "follow"):
		return "followup", true
	case strings.Contains(low, "physical"):
		return "physical", true
	case strings.Contains(low, "special"):
		return "specialist", true
	}
	return "", false
}

// mondayIndexed converts Go's Sunday-first weekday to a Monday-first index.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func format(t time.Time) string {
	return t.Format("2006-01-02")
}
