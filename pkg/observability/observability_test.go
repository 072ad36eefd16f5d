package observability_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/observability"
)

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	m := model.New("M", model.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, m.AppendStep("Load", "STATIC_GENERAL"))
	_, err = m.Create("DisplacementBC", "Fix", "Load", domain.Values{"region": domain.Region{Set: "Base"}})
	require.NoError(t, err)
	_, err = m.Create("DisplacementBC", "Fix", "Load", domain.Values{"region": domain.Region{Set: "Base"}})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StepOps.WithLabelValues(string(domain.EventStepInsert), "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EntityOps.WithLabelValues("boundaryConditions", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EntityOps.WithLabelValues("boundaryConditions", "create", "rejected")))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	second, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, first.EntityOps, second.EntityOps)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := model.New("M", model.WithLifecycleHooks(observability.LogHooks(logger)))
	require.NoError(t, m.AppendStep("Load", "STATIC_GENERAL"))
	require.Error(t, m.DeleteStep(domain.InitialStep))

	out := buf.String()
	assert.Contains(t, out, "step change")
	assert.Contains(t, out, "step=Load")
	assert.Contains(t, out, "step change rejected")
}
