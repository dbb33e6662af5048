package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quizflow/quizflow/internal/routing"
	"github.com/quizflow/quizflow/pkg/domain"
)

// PromRecorder implements routing.Recorder on Prometheus counters.
// Construct one per process; the vectors are registered on the given
// registerer at construction time.
type PromRecorder struct {
	decisions  *prometheus.CounterVec
	errorKinds *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// Option configures the PromRecorder.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	namespace  string
}

// WithRegisterer overrides the default registerer. Tests pass a fresh
// prometheus.NewRegistry().
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithNamespace overrides the metric namespace (default "quizflow").
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// NewPromRecorder builds and registers the routing counters.
func NewPromRecorder(opts ...Option) *PromRecorder {
	o := options{
		registerer: prometheus.DefaultRegisterer,
		namespace:  "quizflow",
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := &PromRecorder{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "routing",
			Name:      "decisions_total",
			Help:      "Routing decisions by source phase and chosen target",
		}, []string{"phase", "target"}),
		errorKinds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "routing",
			Name:      "errors_total",
			Help:      "Classified step failures by error kind",
		}, []string{"kind"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "routing",
			Name:      "rejections_total",
			Help:      "Transitions rejected by the routing validator",
		}, []string{"phase", "target"}),
	}

	o.registerer.MustRegister(r.decisions, r.errorKinds, r.rejections)
	return r
}

func (r *PromRecorder) RecordDecision(from domain.Phase, target domain.Target) {
	r.decisions.WithLabelValues(string(from), string(target)).Inc()
}

func (r *PromRecorder) RecordErrorKind(kind routing.ErrorKind) {
	r.errorKinds.WithLabelValues(string(kind)).Inc()
}

func (r *PromRecorder) RecordRejection(from domain.Phase, proposed domain.Target) {
	r.rejections.WithLabelValues(string(from), string(proposed)).Inc()
}
