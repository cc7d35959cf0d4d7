package availability

import (
	"context"
	"fmt"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/schedule"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/pkg/logging"
)

// Default working-day window.
const (
	defaultOpenTime  = "09:00"
	defaultCloseTime = "17:00"
)

// DayAvailability is the result of one availability query: every candidate
// slot for the date, in chronological order, flagged available or occupied.
type DayAvailability struct {
	Date  string          `json:"date"`
	Slots []schedule.Slot `json:"available_slots"`
}

// Engine computes slot availability against the ledger. It only ever reads;
// the booking committer is the sole writer.
type Engine struct {
	store     schedule.Reader
	openMins  int
	closeMins int
	logger    *logging.Logger
}

// Config overrides the working-day window. Zero values use the 09:00-17:00
// defaults.
type Config struct {
	OpenTime  string
	CloseTime string
}

// NewEngine creates a slot engine over the ledger store.
func NewEngine(store schedule.Reader, cfg Config, logger *logging.Logger) (*Engine, error) {
	if store == nil {
		panic("availability: ledger store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.OpenTime == "" {
		cfg.OpenTime = defaultOpenTime
	}
	if cfg.CloseTime == "" {
		cfg.CloseTime = defaultCloseTime
	}
	open, err := schedule.ParseClock(cfg.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("availability: open time: %w", err)
	}
	closeAt, err := schedule.ParseClock(cfg.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("availability: close time: %w", err)
	}
	if closeAt <= open {
		return nil, fmt.Errorf("availability: close time %s not after open time %s", cfg.CloseTime, cfg.OpenTime)
	}
	return &Engine{store: store, openMins: open, closeMins: closeAt, logger: logger}, nil
}

// ComputeAvailability tiles the working day with consecutive duration-sized
// candidate slots and marks each occupied when it half-open-overlaps an
// existing appointment on the date. Output is deterministic for a given
// ledger state; a duration that never fits yields an empty slot list.
func (e *Engine) ComputeAvailability(ctx context.Context, date, appointmentType string) (*DayAvailability, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, err
	}

	doc, err := e.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	duration, ok := doc.Duration(appointmentType)
	if !ok || duration <= 0 {
		return nil, fmt.Errorf("availability: %q: %w", appointmentType, schedule.ErrUnknownAppointmentType)
	}

	type interval struct{ start, end int }
	var existing []interval
	for _, appt := range doc.AppointmentsOn(date) {
		start, err := schedule.ParseClock(appt.StartTime)
		if err != nil {
			continue
		}
		end, err := schedule.ParseClock(appt.EndTime)
		if err != nil {
			continue
		}
		existing = append(existing, interval{start: start, end: end})
	}

	var slots []schedule.Slot
	for start := e.openMins; start+duration <= e.closeMins; start += duration {
		end := start + duration
		available := true
		for _, ex := range existing {
			if schedule.Overlaps(start, end, ex.start, ex.end) {
				available = false
				break
			}
		}
		slots = append(slots, schedule.Slot{
			StartTime: schedule.FormatClock(start),
			EndTime:   schedule.FormatClock(end),
			Available: available,
		})
	}

	e.logger.Debug("availability computed",
		"date", date,
		"appointment_type", appointmentType,
		"slots", len(slots),
	)
	return &DayAvailability{Date: date, Slots: slots}, nil
}

// AvailableSlots filters a day down to its free slots.
func (d *DayAvailability) AvailableSlots() []schedule.Slot {
	var free []schedule.Slot
	for _, s := range d.Slots {
		if s.Available {
			free = append(free, s)
		}
	}
	return free
}
