package observability_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/quizflow/quizflow/internal/routing"
	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := observability.NewPromRecorder(observability.WithRegisterer(reg))

	rec.RecordDecision(domain.PhaseTopicSelection, domain.TargetTopicValidator)
	rec.RecordDecision(domain.PhaseTopicSelection, domain.TargetTopicValidator)
	rec.RecordErrorKind(routing.KindLLM)
	rec.RecordRejection(domain.PhaseQuizActive, domain.TargetScoreGenerator)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["quizflow_routing_decisions_total"])
	assert.True(t, names["quizflow_routing_errors_total"])
	assert.True(t, names["quizflow_routing_rejections_total"])
}

func TestPromRecorder_DecisionCountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := observability.NewPromRecorder(observability.WithRegisterer(reg))

	rec.RecordDecision(domain.PhaseQuizActive, domain.TargetAnswerValidator)
	rec.RecordDecision(domain.PhaseQuizActive, domain.TargetAnswerValidator)
	rec.RecordDecision(domain.PhaseQuizActive, domain.TargetQuizGenerator)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Len(t, families[0].GetMetric(), 2, "two distinct label combinations")

	for _, m := range families[0].GetMetric() {
		labels := map[string]string{}
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		switch labels["target"] {
		case string(domain.TargetAnswerValidator):
			assert.Equal(t, float64(2), m.GetCounter().GetValue())
		case string(domain.TargetQuizGenerator):
			assert.Equal(t, float64(1), m.GetCounter().GetValue())
		default:
			t.Fatalf("unexpected target label %q", labels["target"])
		}
	}
}

func TestPromRecorder_CustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := observability.NewPromRecorder(
		observability.WithRegisterer(reg),
		observability.WithNamespace("custom"),
	)

	rec.RecordErrorKind(routing.KindNetwork)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "custom_routing_errors_total", families[0].GetName())
}
