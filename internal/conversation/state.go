package conversation

import (
	"time"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/booking"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/schedule"
)

// State is the conversation's position in the booking flow. The flow is
// linear: new → awaiting_reason → awaiting_appt_type → awaiting_preference →
// awaiting_slot_choice → awaiting_patient_info → booked.
type State string

const (
	StateNew                 State = "new"
	StateAwaitingReason      State = "awaiting_reason"
	StateAwaitingApptType    State = "awaiting_appt_type"
	StateAwaitingPreference  State = "awaiting_preference"
	StateAwaitingSlotChoice  State = "awaiting_slot_choice"
	StateAwaitingPatientInfo State = "awaiting_patient_info"
	StateBooked              State = "booked"
)

// SessionData accumulates the booking details gathered across turns.
type SessionData struct {
	Reason          string                `json:"reason,omitempty"`
	AppointmentType string                `json:"appointment_type,omitempty"`
	PreferredDate   string                `json:"preferred_date,omitempty"`
	SuggestedSlots  []schedule.Slot       `json:"suggested_slots,omitempty"`
	ChosenSlot      *schedule.Slot        `json:"chosen_slot,omitempty"`
	Booking         *booking.Confirmation `json:"booking,omitempty"`
}

// Session is the durable conversational context for one session key.
// The conversation service is its sole mutator.
type Session struct {
	Key       string      `json:"key"`
	State     State       `json:"state"`
	Data      SessionData `json:"data"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// newSession starts a fresh conversation for the key.
func newSession(key string) *Session {
	return &Session{Key: key, State: StateNew}
}
