package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/pkg/logging"
)

// Reader provides read access to the ledger.
type Reader interface {
	Read(ctx context.Context) (*Document, error)
}

// Store is the full ledger contract: reads plus the conflict-checked append.
// The overlap re-check and the append happen inside a single critical
// section, so two racing commits for the same interval cannot both succeed.
type Store interface {
	Reader
	AppendIfNoConflict(ctx context.Context, appt Appointment) error
}

// FileStore persists the ledger as a single JSON document, rewritten in full
// after every successful commit.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *logging.Logger
}

// NewFileStore creates a ledger store backed by the JSON file at path.
func NewFileStore(path string, logger *logging.Logger) *FileStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Read loads the current ledger document from disk.
func (s *FileStore) Read(ctx context.Context) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// AppendIfNoConflict re-checks the appointment against the current ledger and
// appends it when no same-date interval overlaps. Returns ErrSlotConflict
// when the interval is already taken.
func (s *FileStore) AppendIfNoConflict(ctx context.Context, appt Appointment) error {
	start, end, err := appt.interval()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	for _, existing := range doc.AppointmentsOn(appt.Date) {
		exStart, exEnd, err := existing.interval()
		if err != nil {
			// A malformed ledger row must not silently open up its interval.
			return fmt.Errorf("schedule: ledger appointment %s: %w", existing.BookingID, err)
		}
		if Overlaps(start, end, exStart, exEnd) {
			return fmt.Errorf("schedule: %s %s-%s: %w", appt.Date, appt.StartTime, appt.EndTime, ErrSlotConflict)
		}
	}

	doc.ExistingAppointments = append(doc.ExistingAppointments, appt)
	if err := s.write(doc); err != nil {
		return err
	}

	s.logger.Info("appointment appended",
		"booking_id", appt.BookingID,
		"date", appt.Date,
		"start_time", appt.StartTime,
		"appointment_type", appt.AppointmentType,
	)
	return nil
}

func (s *FileStore) load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("schedule: read ledger: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schedule: decode ledger: %w", err)
	}
	if doc.AppointmentTypes == nil {
		doc.AppointmentTypes = map[string]int{}
	}
	return &doc, nil
}

func (s *FileStore) write(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("schedule: encode ledger: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("schedule: write ledger: %w", err)
	}
	return nil
}

// ReferenceClock returns a "today" function for relative date phrases. When
// the ledger holds appointments, today is the earliest date present, so the
// agent stays consistent with mock datasets. Otherwise it is the wall clock.
func ReferenceClock(store Reader) func() time.Time {
	return func() time.Time {
		doc, err := store.Read(context.Background())
		if err == nil {
			if earliest, ok := doc.EarliestAppointmentDate(); ok {
				return earliest
			}
		}
		return time.Now()
	}
}
