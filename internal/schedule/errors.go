package schedule

import "errors"

var (
	// ErrUnknownAppointmentType is returned when a requested appointment type
	// is not in the catalog.
	ErrUnknownAppointmentType = errors.New("unknown appointment type")

	// ErrSlotConflict is returned when a booking would overlap an existing
	// appointment on the same date.
	ErrSlotConflict = errors.New("slot already booked")

	// ErrMissingField is returned when a booking request is incomplete.
	ErrMissingField = errors.New("missing required field")
)
