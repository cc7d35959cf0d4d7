package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/availability"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/booking"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/faq"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/interpret"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/observability/metrics"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/internal/schedule"
	"github.com/RapalliShesaeasha/appointment-scheduling-agent/pkg/logging"
)

// Reply is the machine's answer to one inbound message.
type Reply struct {
	Type     string `json:"type"`
	Response string `json:"response"`
}

// Reply types.
const (
	ReplyAsk          = "ask"
	ReplyOptions      = "options"
	ReplyInfo         = "info"
	ReplyConfirmation = "confirmation"
	ReplyError        = "error"
	ReplyFAQ          = "faq"
)

// faqKeywords flag a message as a one-shot FAQ lookup regardless of state.
var faqKeywords = []string{
	"insurance", "hours", "working hours", "clinic hours", "location",
	"where are you", "parking", "cancel", "cancellation", "prepare",
}

// Offer-limit policy defaults; both are deliberate, named policies rather
// than magic numbers (see DESIGN.md).
const (
	defaultMaxOfferedSlots     = 5
	defaultNextDayAlternatives = 3
	defaultAppointmentType     = "consultation"
)

// Prompts reused across states.
const (
	promptGreeting = "Hello — I'm here to help you schedule appointments. What brings you in today?"
	promptReason   = "What brings you in today?"
	promptApptType = "Would this be a consultation, followup, physical, or specialist visit?"
	promptDate     = "Do you have a preferred date or time (e.g., tomorrow afternoon, next week, or a specific date YYYY-MM-DD)?"
	promptSlotPick = "Please pick a slot number from the list, or say 'none of these work'."
	promptResume   = "Shall we continue with your appointment booking?"
	promptPatient  = "Great! Before I confirm, please provide:\n- Full name\n- Email\n- Phone\n(Format: Name, email, phone)"
)

// Config wires the conversation service's collaborators.
type Config struct {
	Sessions  SessionStore
	Engine    *availability.Engine
	Committer *booking.Service
	Matcher   *faq.Matcher

	// Today resolves relative date phrases. Defaults to the wall clock;
	// production wires schedule.ReferenceClock so "today" tracks the ledger.
	Today func() time.Time

	// MaxOfferedSlots caps the slot list offered per day (default 5).
	MaxOfferedSlots int
	// NextDayAlternatives caps the alternative start times reported when the
	// first requested day is full (default 3).
	NextDayAlternatives int

	Logger  *logging.Logger
	Metrics *metrics.SchedulingMetrics
}

// Service is the per-session conversation state machine. It is the sole
// mutator of sessions; the session store is only touched here.
type Service struct {
	sessions  SessionStore
	engine    *availability.Engine
	committer *booking.Service
	matcher   *faq.Matcher
	today     func() time.Time
	tracer    trace.Tracer

	maxOffered          int
	nextDayAlternatives int

	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics
}

// NewService constructs the conversation service.
func NewService(cfg Config) *Service {
	if cfg.Sessions == nil {
		panic("conversation: session store required")
	}
	if cfg.Engine == nil {
		panic("conversation: availability engine required")
	}
	if cfg.Committer == nil {
		panic("conversation: booking committer required")
	}
	if cfg.Matcher == nil {
		panic("conversation: faq matcher required")
	}
	if cfg.Today == nil {
		cfg.Today = time.Now
	}
	if cfg.MaxOfferedSlots <= 0 {
		cfg.MaxOfferedSlots = defaultMaxOfferedSlots
	}
	if cfg.NextDayAlternatives <= 0 {
		cfg.NextDayAlternatives = defaultNextDayAlternatives
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		sessions:            cfg.Sessions,
		engine:              cfg.Engine,
		committer:           cfg.Committer,
		matcher:             cfg.Matcher,
		today:               cfg.Today,
		tracer:              otel.Tracer("scheduler.internal.conversation"),
		maxOffered:          cfg.MaxOfferedSlots,
		nextDayAlternatives: cfg.NextDayAlternatives,
		logger:              cfg.Logger,
		metrics:             cfg.Metrics,
	}
}

// HandleMessage runs one conversational turn. On an internal failure the
// session is left untouched, so the user can retry the same input; the HTTP
// boundary converts the returned error into a generic reply.
func (s *Service) HandleMessage(ctx context.Context, sessionKey, message string) (Reply, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.handle_message")
	defer span.End()

	sess, err := s.sessions.Get(ctx, sessionKey)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			span.RecordError(err)
			return Reply{}, err
		}
		sess = newSession(sessionKey)
	}
	span.SetAttributes(attribute.String("scheduler.session_state", string(sess.State)))

	// FAQ interception runs before state handling and never advances state:
	// the conversation resumes exactly where it left off on the next message.
	if isFAQ(message) {
		reply, err := s.answerFAQ(message, sess)
		if err != nil {
			return Reply{}, err
		}
		if err := s.sessions.Upsert(ctx, sess); err != nil {
			return Reply{}, err
		}
		s.metrics.ObserveReply(reply.Type)
		return reply, nil
	}

	var reply Reply
	switch sess.State {
	case StateNew:
		reply, err = s.handleNew(ctx, sess, message)
	case StateAwaitingReason:
		reply, err = s.handleReason(sess, message)
	case StateAwaitingApptType:
		reply, err = s.handleApptType(sess, message)
	case StateAwaitingPreference:
		reply, err = s.handlePreference(ctx, sess, message)
	case StateAwaitingSlotChoice:
		reply, err = s.handleSlotChoice(sess, message)
	case StateAwaitingPatientInfo:
		reply, err = s.handlePatientInfo(ctx, sess, message)
	default:
		// Booked sessions and anything unrecognized get a generic prompt;
		// the machine does not restart a booking cycle on its own.
		reply = Reply{Type: ReplyAsk, Response: "How can I help?"}
	}
	if err != nil {
		span.RecordError(err)
		return Reply{}, err
	}

	if err := s.sessions.Upsert(ctx, sess); err != nil {
		span.RecordError(err)
		return Reply{}, err
	}
	s.metrics.ObserveReply(reply.Type)
	return reply, nil
}

func isFAQ(message string) bool {
	low := strings.ToLower(message)
	for _, keyword := range faqKeywords {
		if strings.Contains(low, keyword) {
			return true
		}
	}
	return false
}

func (s *Service) answerFAQ(message string, sess *Session) (Reply, error) {
	match, ok := s.matcher.Answer(message)
	if !ok {
		// Only reachable under FallbackNone; treat as a polite miss.
		s.metrics.ObserveFAQMatch("none")
		return Reply{
			Type:     ReplyFAQ,
			Response: "I'm not sure about that one. " + followUpQuestion(sess.State),
		}, nil
	}
	if match.Score > 0 {
		s.metrics.ObserveFAQMatch("matched")
	} else {
		s.metrics.ObserveFAQMatch("fallback")
	}
	return Reply{
		Type:     ReplyFAQ,
		Response: match.Entry.Answer + "\n\n" + followUpQuestion(sess.State),
	}, nil
}

// followUpQuestion re-asks the question belonging to the current state so the
// conversation picks up where the FAQ interrupted it.
func followUpQuestion(state State) string {
	switch state {
	case StateAwaitingReason:
		return promptReason
	case StateAwaitingApptType:
		return promptApptType
	case StateAwaitingPreference:
		return promptDate
	case StateAwaitingSlotChoice:
		return promptSlotPick
	default:
		return promptResume
	}
}

// handleNew fast-tracks messages that already carry a date: it assumes a
// consultation and offers slots directly. Without a date it opens the normal
// question flow.
func (s *Service) handleNew(ctx context.Context, sess *Session, message string) (Reply, error) {
	date, ok := interpret.Date(message, s.today())
	if !ok {
		sess.State = StateAwaitingReason
		return Reply{Type: ReplyAsk, Response: promptGreeting}, nil
	}

	day, err := s.computeAvailability(ctx, date, defaultAppointmentType)
	if err != nil {
		return Reply{}, err
	}

	free := day.AvailableSlots()
	if len(free) > 0 {
		top := free[:min(s.maxOffered, len(free))]
		sess.Data.AppointmentType = defaultAppointmentType
		sess.Data.PreferredDate = date
		sess.Data.SuggestedSlots = top
		sess.State = StateAwaitingSlotChoice
		return Reply{Type: ReplyOptions, Response: renderSlotOptions(top)}, nil
	}

	// The requested day is full: report up to N start times for the next day
	// but stay in place; the user has to resend a date to proceed.
	alternatives := s.nextDayStartTimes(ctx, date)
	if len(alternatives) == 0 {
		return Reply{
			Type: ReplyInfo,
			Response: fmt.Sprintf(
				"Sorry, no slots available on %s. I couldn't find alternatives right now — would you like me to check other dates?",
				date,
			),
		}, nil
	}
	nextDay := addDays(date, 1)
	return Reply{
		Type: ReplyInfo,
		Response: fmt.Sprintf(
			"Sorry, no slots available on %s. Here are some options for %s:\n- %s",
			date, nextDay, strings.Join(alternatives, "\n- "),
		),
	}, nil
}

func (s *Service) handleReason(sess *Session, message string) (Reply, error) {
	sess.Data.Reason = message
	sess.State = StateAwaitingApptType
	return Reply{Type: ReplyAsk, Response: promptApptType}, nil
}

func (s *Service) handleApptType(sess *Session, message string) (Reply, error) {
	apptType, ok := interpret.AppointmentType(message)
	if !ok {
		return Reply{
			Type:     ReplyAsk,
			Response: "Please select one of: consultation, followup, physical, specialist.",
		}, nil
	}
	sess.Data.AppointmentType = apptType
	sess.State = StateAwaitingPreference
	return Reply{
		Type:     ReplyAsk,
		Response: "Great. When would you like to come in? You can say things like 'tomorrow', 'next wednesday', or '2024-01-15'",
	}, nil
}

func (s *Service) handlePreference(ctx context.Context, sess *Session, message string) (Reply, error) {
	date, ok := interpret.Date(message, s.today())
	if !ok {
		return Reply{
			Type:     ReplyAsk,
			Response: "Could you provide a specific date? (e.g., 2024-01-15)",
		}, nil
	}

	day, err := s.computeAvailability(ctx, date, sess.Data.AppointmentType)
	if err != nil {
		return Reply{}, err
	}

	free := day.AvailableSlots()
	if len(free) == 0 {
		// Hold state; the next message is implicitly a new date attempt.
		return Reply{
			Type:     ReplyInfo,
			Response: "No available slots that day. Would you like options for the next few days?",
		}, nil
	}

	top := free[:min(s.maxOffered, len(free))]
	sess.Data.PreferredDate = date
	sess.Data.SuggestedSlots = top
	sess.State = StateAwaitingSlotChoice
	return Reply{Type: ReplyOptions, Response: renderSlotOptions(top)}, nil
}

func (s *Service) handleSlotChoice(sess *Session, message string) (Reply, error) {
	if len(sess.Data.SuggestedSlots) == 0 {
		// Should be unreachable: the machine only enters this state with
		// slots recorded. Recover by asking for a date again.
		sess.State = StateAwaitingPreference
		return Reply{Type: ReplyAsk, Response: promptDate}, nil
	}

	choice, err := strconv.Atoi(strings.TrimSpace(message))
	if err != nil {
		return Reply{Type: ReplyAsk, Response: "Please reply with the slot number."}, nil
	}
	idx := choice - 1
	if idx < 0 || idx >= len(sess.Data.SuggestedSlots) {
		return Reply{Type: ReplyAsk, Response: "Please choose a valid slot number."}, nil
	}

	chosen := sess.Data.SuggestedSlots[idx]
	sess.Data.ChosenSlot = &chosen
	sess.State = StateAwaitingPatientInfo
	return Reply{Type: ReplyAsk, Response: promptPatient}, nil
}

func (s *Service) handlePatientInfo(ctx context.Context, sess *Session, message string) (Reply, error) {
	if sess.Data.ChosenSlot == nil {
		sess.State = StateAwaitingPreference
		return Reply{Type: ReplyAsk, Response: promptDate}, nil
	}

	parts := strings.Split(message, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 3 {
		return Reply{Type: ReplyAsk, Response: "Please use: Name, email, phone"}, nil
	}

	conf, err := s.committer.Commit(ctx, booking.Request{
		AppointmentType: sess.Data.AppointmentType,
		Date:            sess.Data.PreferredDate,
		StartTime:       sess.Data.ChosenSlot.StartTime,
		Patient: schedule.Patient{
			Name:  parts[0],
			Email: parts[1],
			Phone: parts[2],
		},
		Reason: sess.Data.Reason,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrSlotConflict) {
			// Someone else took the slot between offer and commit. Send the
			// user back to pick a date; the stale offer list is dropped.
			sess.Data.SuggestedSlots = nil
			sess.Data.ChosenSlot = nil
			sess.State = StateAwaitingPreference
			return Reply{
				Type:     ReplyInfo,
				Response: "Sorry, that slot was just booked. " + promptDate,
			}, nil
		}
		return Reply{}, err
	}

	sess.Data.Booking = conf
	sess.State = StateBooked
	return Reply{
		Type: ReplyConfirmation,
		Response: fmt.Sprintf(
			"All set! Your appointment is confirmed.\nBooking ID: %s\nConfirmation Code: %s",
			conf.BookingID, conf.ConfirmationCode,
		),
	}, nil
}

func (s *Service) computeAvailability(ctx context.Context, date, apptType string) (*availability.DayAvailability, error) {
	start := time.Now()
	day, err := s.engine.ComputeAvailability(ctx, date, apptType)
	s.metrics.ObserveAvailabilityQuery("chat", time.Since(start).Seconds())
	return day, err
}

// nextDayStartTimes returns up to the configured number of free start times
// on the day after date. Failures degrade to an empty list.
func (s *Service) nextDayStartTimes(ctx context.Context, date string) []string {
	nextDay := addDays(date, 1)
	if nextDay == "" {
		return nil
	}
	day, err := s.computeAvailability(ctx, nextDay, defaultAppointmentType)
	if err != nil {
		s.logger.Warn("next-day fallback query failed", "date", nextDay, "error", err)
		return nil
	}
	var times []string
	for _, slot := range day.AvailableSlots() {
		times = append(times, slot.StartTime)
		if len(times) == s.nextDayAlternatives {
			break
		}
	}
	return times
}

func renderSlotOptions(slots []schedule.Slot) string {
	var b strings.Builder
	b.WriteString("I found these available slots:\n")
	for i, slot := range slots {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, slot.StartTime, slot.EndTime)
	}
	b.WriteString("Please pick a slot number.")
	return b.String()
}

func addDays(date string, days int) string {
	day, err := schedule.ParseDate(date)
	if err != nil {
		return ""
	}
	return schedule.FormatDate(day.AddDate(0, 0, days))
}
