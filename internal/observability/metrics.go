// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package observability exposes arena and IR file metrics to Prometheus.
package observability

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/oops"

	"github.com/holomush/irgraph/pkg/ir"
)

// ArenaCollector reports storage statistics for a set of named arenas.
// Arenas are not safe for concurrent use, so Collect must not run while a
// tracked arena is being modified.
type ArenaCollector struct {
	mu     sync.Mutex
	arenas map[string]*ir.Arena

	nodes      *prometheus.Desc
	chunks     *prometheus.Desc
	constructs *prometheus.Desc
	closed     *prometheus.Desc
}

// NewArenaCollector creates a collector tracking no arenas.
func NewArenaCollector() *ArenaCollector {
	return &ArenaCollector{
		arenas: make(map[string]*ir.Arena),
		nodes: prometheus.NewDesc(
			"irgraph_arena_nodes",
			"Live nodes in the arena by kind",
			[]string{"arena", "kind"}, nil,
		),
		chunks: prometheus.NewDesc(
			"irgraph_arena_chunks",
			"Storage chunks allocated by the arena",
			[]string{"arena"}, nil,
		),
		constructs: prometheus.NewDesc(
			"irgraph_arena_constructs_total",
			"Nodes constructed or restored in the arena",
			[]string{"arena"}, nil,
		),
		closed: prometheus.NewDesc(
			"irgraph_arena_closed",
			"Whether the arena has been closed (1) or is live (0)",
			[]string{"arena"}, nil,
		),
	}
}

// Track adds a under name, replacing any arena tracked under that name.
func (c *ArenaCollector) Track(name string, a *ir.Arena) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arenas[name] = a
}

// Untrack stops reporting the arena tracked under name.
func (c *ArenaCollector) Untrack(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.arenas, name)
}

// Describe implements prometheus.Collector.
func (c *ArenaCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodes
	ch <- c.chunks
	ch <- c.constructs
	ch <- c.closed
}

// Collect implements prometheus.Collector.
func (c *ArenaCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.arenas))
	for name := range c.arenas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stats := c.arenas[name].Stats()
		for _, kind := range ir.ConcreteKinds() {
			ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue,
				float64(stats.ByKind[kind]), name, kind.String())
		}
		ch <- prometheus.MustNewConstMetric(c.chunks, prometheus.GaugeValue, float64(stats.Chunks), name)
		ch <- prometheus.MustNewConstMetric(c.constructs, prometheus.CounterValue, float64(stats.Constructs), name)
		closed := 0.0
		if stats.Closed {
			closed = 1
		}
		ch <- prometheus.MustNewConstMetric(c.closed, prometheus.GaugeValue, closed, name)
	}
}

// Metrics holds the counters recorded around IR file operations.
type Metrics struct {
	Arenas       *ArenaCollector
	IOOperations *prometheus.CounterVec
	IODuration   *prometheus.HistogramVec
}

// NewMetrics creates the irgraph metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Arenas: NewArenaCollector(),
		IOOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "irgraph_io_operations_total",
				Help: "IR file operations by operation, format and status",
			},
			[]string{"op", "format", "status"},
		),
		IODuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "irgraph_io_duration_seconds",
				Help:    "Duration of IR file operations",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"op", "format"},
		),
	}

	reg.MustRegister(m.Arenas)
	reg.MustRegister(m.IOOperations)
	reg.MustRegister(m.IODuration)
	return m
}

// ObserveIO records one IR file operation that started at start.
func (m *Metrics) ObserveIO(op, format string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.IOOperations.WithLabelValues(op, format, status).Inc()
	m.IODuration.WithLabelValues(op, format).Observe(time.Since(start).Seconds())
}

// NewRegistry returns a registry holding the Go runtime collectors and
// the irgraph metrics.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return reg, NewMetrics(reg)
}

// WriteTextfile writes everything gathered from g to path in the Prometheus
// text exposition format, for pickup by a node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return oops.Code("METRICS_WRITE_FAILED").With("path", path).Wrap(err)
	}
	return nil
}
