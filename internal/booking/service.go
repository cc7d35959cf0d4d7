package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/observability/metrics"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/schedule"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/pkg/logging"
)

var bookingTracer = otel.Tracer("scheduler.internal.booking")

const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Request is a fully-specified booking request.
type Request struct {
	AppointmentType string           `json:"appointment_type"`
	Date            string           `json:"date"`
	StartTime       string           `json:"start_time"`
	Patient         schedule.Patient `json:"patient"`
	Reason          string           `json:"reason"`
}

// Confirmation is returned on a successful commit.
type Confirmation struct {
	BookingID        string               `json:"booking_id"`
	Status           string               `json:"status"`
	ConfirmationCode string               `json:"confirmation_code"`
	Details          schedule.Appointment `json:"details"`
}

// Service is the booking committer: the only component that appends to the
// ledger. It re-derives the end time from the catalog and re-checks conflicts
// against the current ledger state, so a stale slot list never double-books.
type Service struct {
	store   schedule.Store
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics
}

// NewService constructs a booking committer.
func NewService(store schedule.Store, logger *logging.Logger, m *metrics.SchedulingMetrics) *Service {
	if store == nil {
		panic("booking: ledger store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, logger: logger, metrics: m}
}

// Commit validates the request, assigns a booking ID and confirmation code,
// and appends the appointment to the ledger. Fails with
// schedule.ErrMissingField, schedule.ErrUnknownAppointmentType, or
// schedule.ErrSlotConflict.
func (s *Service) Commit(ctx context.Context, req Request) (*Confirmation, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.commit")
	defer span.End()
	span.SetAttributes(
		attribute.String("scheduler.date", req.Date),
		attribute.String("scheduler.appointment_type", req.AppointmentType),
	)

	if err := validate(req); err != nil {
		s.metrics.ObserveCommit("rejected")
		return nil, err
	}

	doc, err := s.store.Read(ctx)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveCommit("error")
		return nil, err
	}

	duration, ok := doc.Duration(req.AppointmentType)
	if !ok || duration <= 0 {
		s.metrics.ObserveCommit("rejected")
		return nil, fmt.Errorf("booking: %q: %w", req.AppointmentType, schedule.ErrUnknownAppointmentType)
	}

	start, err := schedule.ParseClock(req.StartTime)
	if err != nil {
		s.metrics.ObserveCommit("rejected")
		return nil, err
	}

	appt := schedule.Appointment{
		BookingID:       newBookingID(req.Date),
		Date:            req.Date,
		StartTime:       schedule.FormatClock(start),
		EndTime:         schedule.FormatClock(start + duration),
		AppointmentType: req.AppointmentType,
		Patient:         req.Patient,
		Reason:          req.Reason,
		Status:          "confirmed",
	}

	if err := s.store.AppendIfNoConflict(ctx, appt); err != nil {
		span.RecordError(err)
		if errors.Is(err, schedule.ErrSlotConflict) {
			s.metrics.ObserveCommit("conflict")
		} else {
			s.metrics.ObserveCommit("error")
		}
		return nil, err
	}

	s.metrics.ObserveCommit("confirmed")
	s.logger.Info("booking committed",
		"booking_id", appt.BookingID,
		"date", appt.Date,
		"start_time", appt.StartTime,
		"appointment_type", appt.AppointmentType,
	)

	return &Confirmation{
		BookingID:        appt.BookingID,
		Status:           "confirmed",
		ConfirmationCode: newConfirmationCode(),
		Details:          appt,
	}, nil
}

func validate(req Request) error {
	missing := func(field string) error {
		return fmt.Errorf("booking: %s: %w", field, schedule.ErrMissingField)
	}
	switch {
	case strings.TrimSpace(req.AppointmentType) == "":
		return missing("appointment_type")
	case strings.TrimSpace(req.Date) == "":
		return missing("date")
	case strings.TrimSpace(req.StartTime) == "":
		return missing("start_time")
	case strings.TrimSpace(req.Patient.Name) == "":
		return missing("patient.name")
	case strings.TrimSpace(req.Patient.Email) == "":
		return missing("patient.email")
	case strings.TrimSpace(req.Patient.Phone) == "":
		return missing("patient.phone")
	}
	if _, err := schedule.ParseDate(req.Date); err != nil {
		return err
	}
	return nil
}

// newBookingID builds a date-salted identifier. The UUID suffix keeps IDs
// unique within the ledger without a sequence scan.
func newBookingID(date string) string {
	salt := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("APPT-%s-%s", strings.ReplaceAll(date, "-", ""), salt)
}

// newConfirmationCode returns a display-only six-character code.
func newConfirmationCode() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = confirmationAlphabet[rand.Intn(len(confirmationAlphabet))]
	}
	return string(code)
}
