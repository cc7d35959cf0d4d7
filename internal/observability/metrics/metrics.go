package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for the booking flows.
type SchedulingMetrics struct {
	chatReplies       *prometheus.CounterVec
	bookingCommits    *prometheus.CounterVec
	faqMatches        *prometheus.CounterVec
	availabilityQuery *prometheus.HistogramVec
}

// NewSchedulingMetrics registers the scheduling metric set. A nil registerer
// uses the default registry.
func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "conversation",
			Name:      "replies_total",
			Help:      "Chat replies by reply type",
		}, []string{"type"}),
		bookingCommits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "booking",
			Name:      "commits_total",
			Help:      "Booking commit attempts by outcome",
		}, []string{"outcome"}),
		faqMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "faq",
			Name:      "matches_total",
			Help:      "FAQ lookups by match result",
		}, []string{"result"}),
		availabilityQuery: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scheduler",
			Subsystem: "availability",
			Name:      "query_seconds",
			Help:      "Latency of availability computations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chatReplies, m.bookingCommits, m.faqMatches, m.availabilityQuery)
	return m
}

// ObserveReply counts one chat reply of the given type.
func (m *SchedulingMetrics) ObserveReply(replyType string) {
	if m == nil {
		return
	}
	m.chatReplies.WithLabelValues(replyType).Inc()
}

// ObserveCommit counts one booking commit attempt.
func (m *SchedulingMetrics) ObserveCommit(outcome string) {
	if m == nil {
		return
	}
	m.bookingCommits.WithLabelValues(outcome).Inc()
}

// ObserveFAQMatch counts one FAQ lookup result ("matched" or "fallback").
func (m *SchedulingMetrics) ObserveFAQMatch(result string) {
	if m == nil {
		return
	}
	m.faqMatches.WithLabelValues(result).Inc()
}

// ObserveAvailabilityQuery records one availability computation.
func (m *SchedulingMetrics) ObserveAvailabilityQuery(source string, seconds float64) {
	if m == nil {
		return
	}
	m.availabilityQuery.WithLabelValues(source).Observe(seconds)
}
