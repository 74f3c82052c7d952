package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flyinglimao/zkenc/internal/metrics"
)

func TestIncrementCounterAccumulates(t *testing.T) {
	c := metrics.New()
	c.IncrementCounter(metrics.ErrorCount, nil)
	c.IncrementCounter(metrics.ErrorCount, nil)

	summary := c.Summary()
	counters := summary["counters"].(map[string]int64)
	require.EqualValues(t, 2, counters[metrics.ErrorCount])
}

func TestSetGaugeOverwrites(t *testing.T) {
	c := metrics.New()
	c.SetGauge(metrics.QAPDomainSize, 8, nil)
	c.SetGauge(metrics.QAPDomainSize, 16, nil)

	summary := c.Summary()
	gauges := summary["gauges"].(map[string]float64)
	require.Equal(t, float64(16), gauges[metrics.QAPDomainSize])
}

func TestRecordHistogramComputesSummaryStats(t *testing.T) {
	c := metrics.New()
	c.RecordHistogram(metrics.EncapDurationSeconds, 1.0, nil)
	c.RecordHistogram(metrics.EncapDurationSeconds, 3.0, nil)

	summary := c.Summary()
	histograms := summary["histograms"].(map[string]map[string]float64)
	h := histograms[metrics.EncapDurationSeconds]
	require.Equal(t, float64(2), h["count"])
	require.Equal(t, float64(1), h["min"])
	require.Equal(t, float64(3), h["max"])
	require.Equal(t, float64(4), h["sum"])
	require.Equal(t, float64(2), h["avg"])
}

func TestLabelsProduceDistinctSeries(t *testing.T) {
	c := metrics.New()
	c.IncrementCounter(metrics.ErrorCount, map[string]string{"curve": "bn254"})
	c.IncrementCounter(metrics.ErrorCount, map[string]string{"curve": "bls12-381"})

	summary := c.Summary()
	counters := summary["counters"].(map[string]int64)
	require.Len(t, counters, 2)
}
