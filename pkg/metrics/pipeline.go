package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the collectors below.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
	OutcomeSample  = "sample"
)

// Pipeline records reference loads and order submissions.
type Pipeline struct {
	loads       *prometheus.CounterVec
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	itemSends   *prometheus.CounterVec
}

// NewPipeline registers the pipeline metrics on the provided registerer.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	if reg == nil {
		return &Pipeline{}
	}
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lanort_reference_loads_total",
		Help: "Reference data loads by resource and outcome.",
	}, []string{"resource", "outcome"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lanort_order_submissions_total",
		Help: "Order submissions by strategy and outcome.",
	}, []string{"strategy", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lanort_order_submission_duration_seconds",
		Help:    "Duration of order submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"strategy"})
	itemSends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lanort_order_item_sends_total",
		Help: "Per-item sends made by the sequential strategy.",
	}, []string{"outcome"})
	reg.MustRegister(loads, submissions, duration, itemSends)
	return &Pipeline{
		loads:       loads,
		submissions: submissions,
		duration:    duration,
		itemSends:   itemSends,
	}
}

// IncLoad counts one reference load.
func (p *Pipeline) IncLoad(resource, outcome string) {
	if p == nil || p.loads == nil {
		return
	}
	p.loads.WithLabelValues(normalizeLabel(resource), normalizeLabel(outcome)).Inc()
}

// IncSubmission counts one finished submission.
func (p *Pipeline) IncSubmission(strategy, outcome string) {
	if p == nil || p.submissions == nil {
		return
	}
	p.submissions.WithLabelValues(normalizeLabel(strategy), normalizeLabel(outcome)).Inc()
}

// ObserveSubmission records how long a submission took.
func (p *Pipeline) ObserveSubmission(strategy string, d time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(strategy)).Observe(d.Seconds())
}

// IncItemSend counts one per-item request.
func (p *Pipeline) IncItemSend(outcome string) {
	if p == nil || p.itemSends == nil {
		return
	}
	p.itemSends.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
