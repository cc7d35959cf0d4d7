package schedule

import (
	"fmt"
	"time"
)

// dateLayout is the ISO calendar date format used throughout the ledger.
const dateLayout = "2006-01-02"

// clockLayout is the wall-clock format for slot boundaries ("09:00").
const clockLayout = "15:04"

// Patient holds the contact details captured at booking time.
type Patient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Appointment is one committed booking in the ledger. Records are immutable
// once committed except for status transitions.
type Appointment struct {
	BookingID       string  `json:"booking_id,omitempty"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	AppointmentType string  `json:"appointment_type"`
	Patient         Patient `json:"patient"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
}

// Slot is a candidate interval within the working day. Derived on every
// availability query, never persisted.
type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// Document is the persisted ledger: the appointment-type catalog plus every
// committed appointment.
type Document struct {
	AppointmentTypes     map[string]int `json:"appointment_types"`
	ExistingAppointments []Appointment  `json:"existing_appointments"`
}

// Duration returns the configured duration in minutes for an appointment type.
func (d *Document) Duration(appointmentType string) (int, bool) {
	minutes, ok := d.AppointmentTypes[appointmentType]
	return minutes, ok
}

// AppointmentsOn returns the appointments committed for a single date.
func (d *Document) AppointmentsOn(date string) []Appointment {
	var out []Appointment
	for _, appt := range d.ExistingAppointments {
		if appt.Date == date {
			out = append(out, appt)
		}
	}
	return out
}

// EarliestAppointmentDate returns the earliest date present in the ledger.
// Malformed dates are skipped.
func (d *Document) EarliestAppointmentDate() (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, appt := range d.ExistingAppointments {
		day, err := ParseDate(appt.Date)
		if err != nil {
			continue
		}
		if !found || day.Before(earliest) {
			earliest = day
			found = true
		}
	}
	return earliest, found
}

// ParseDate parses an ISO calendar date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule: invalid date %q: %w", date, err)
	}
	return t, nil
}

// FormatDate formats a time as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseClock parses a "HH:MM" wall-clock string into minutes since midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("schedule: invalid time %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether two half-open minute intervals conflict:
// aStart < bEnd && aEnd > bStart.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// interval returns the appointment's [start, end) in minutes since midnight.
func (a Appointment) interval() (int, int, error) {
	start, err := ParseClock(a.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseClock(a.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
