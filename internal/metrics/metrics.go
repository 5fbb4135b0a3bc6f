package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat outcomes.
const (
	OutcomeReply     = "reply"
	OutcomePlanSaved = "plan_saved"
	OutcomeFiltered  = "filtered"
	OutcomeError     = "error"
)

// Plan sources.
const (
	SourceChat    = "chat"
	SourceProgram = "program"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	ChatRequests      *prometheus.CounterVec
	PlansSaved        *prometheus.CounterVec
	PlanSaveFailures  *prometheus.CounterVec
	WebhookEvents     *prometheus.CounterVec
	ModelCallDuration *prometheus.HistogramVec
	ParseStrategies   *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coresync_chat_requests_total",
			Help: "Chat requests by outcome",
		}, []string{"outcome"}),

		PlansSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coresync_plans_saved_total",
			Help: "Plans persisted by source",
		}, []string{"source"}),

		PlanSaveFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coresync_plan_save_failures_total",
			Help: "Plan persistence failures by source",
		}, []string{"source"}),

		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coresync_webhook_events_total",
			Help: "Verified webhook events by type and result",
		}, []string{"type", "result"}),

		ModelCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coresync_model_call_duration_seconds",
			Help:    "Latency of language model calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"operation"}),

		ParseStrategies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coresync_parse_strategy_total",
			Help: "Strategy that decoded a model response",
		}, []string{"operation", "strategy"}),
	}
}

func (m *Metrics) ObserveModelCall(operation string, start time.Time) {
	m.ModelCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
