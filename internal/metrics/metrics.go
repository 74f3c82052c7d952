// Package metrics collects in-process counters, gauges and histograms
// for a single zkenc CLI invocation (encap/decap/encrypt/decrypt
// duration, MSM and domain sizes, AEAD byte counts), adapted from the
// auction daemon's MetricsCollector. There is no exporter: a CLI run is
// short-lived, so the CLI's `--metrics-out` flag just dumps the summary
// as CBOR at exit.
package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Names of the metrics zkenc's CLI commands record.
const (
	EncapDurationSeconds = "encap_duration_seconds"
	DecapDurationSeconds = "decap_duration_seconds"
	MSMSize              = "msm_size"
	QAPDomainSize        = "qap_domain_size"
	AEADBytes            = "aead_bytes"
	ErrorCount           = "error_count"
)

type metricType string

const (
	counterType   metricType = "counter"
	gaugeType     metricType = "gauge"
	histogramType metricType = "histogram"
)

type metric struct {
	Name      string            `json:"name"`
	Type      metricType        `json:"type"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Collector accumulates metrics for one process lifetime.
type Collector struct {
	mu         sync.RWMutex
	metrics    map[string]*metric
	counters   map[string]*int64
	gauges     map[string]*float64
	histograms map[string][]float64
}

// New creates an empty Collector.
func New() *Collector {
	return &Collector{
		metrics:    make(map[string]*metric),
		counters:   make(map[string]*int64),
		gauges:     make(map[string]*float64),
		histograms: make(map[string][]float64),
	}
}

// IncrementCounter adds 1 to a named counter.
func (c *Collector) IncrementCounter(name string, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.makeKey(name, labels)
	counter, exists := c.counters[key]
	if !exists {
		var v int64
		counter = &v
		c.counters[key] = counter
	}
	atomic.AddInt64(counter, 1)
	c.updateMetric(name, counterType, float64(atomic.LoadInt64(counter)), labels)
}

// SetGauge sets a named gauge's current value.
func (c *Collector) SetGauge(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.makeKey(name, labels)
	if g, exists := c.gauges[key]; exists {
		*g = value
	} else {
		c.gauges[key] = &value
	}
	c.updateMetric(name, gaugeType, value, labels)
}

// RecordHistogram appends a sample to a named histogram.
func (c *Collector) RecordHistogram(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.makeKey(name, labels)
	c.histograms[key] = append(c.histograms[key], value)
	c.updateMetric(name, histogramType, value, labels)
}

// Summary returns a JSON-marshalable snapshot of every counter, gauge
// and histogram (min/max/sum/avg/count) recorded so far.
func (c *Collector) Summary() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counters := make(map[string]int64, len(c.counters))
	for k, v := range c.counters {
		counters[k] = atomic.LoadInt64(v)
	}

	gauges := make(map[string]float64, len(c.gauges))
	for k, v := range c.gauges {
		gauges[k] = *v
	}

	histograms := make(map[string]map[string]float64, len(c.histograms))
	for k, values := range c.histograms {
		if len(values) == 0 {
			continue
		}
		h := map[string]float64{"count": float64(len(values)), "min": values[0], "max": values[0]}
		var sum float64
		for _, v := range values {
			if v < h["min"] {
				h["min"] = v
			}
			if v > h["max"] {
				h["max"] = v
			}
			sum += v
		}
		h["sum"] = sum
		h["avg"] = sum / float64(len(values))
		histograms[k] = h
	}

	return map[string]any{"counters": counters, "gauges": gauges, "histograms": histograms}
}

func (c *Collector) makeKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	key := name
	for k, v := range labels {
		key += fmt.Sprintf("_%s_%s", k, v)
	}
	return key
}

func (c *Collector) updateMetric(name string, t metricType, value float64, labels map[string]string) {
	key := c.makeKey(name, labels)
	c.metrics[key] = &metric{Name: name, Type: t, Value: value, Labels: labels, Timestamp: time.Now()}
}
