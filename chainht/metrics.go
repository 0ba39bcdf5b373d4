// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package chainht

import "github.com/prometheus/client_golang/prometheus"

// MetricsCollector is a prometheus.Collector over a single Table,
// grounded on the NewDesc-plus-Collect pattern the teacher's
// ocprometheus command used to mirror arbitrary sysdb paths into
// gauges: a handful of *prometheus.Desc built once at construction time,
// and a Collect that snapshots live state under a single lock
// acquisition and emits one constant metric per Desc.
type MetricsCollector struct {
	t *Table

	count   *prometheus.Desc
	modulus *prometheus.Desc
	rung    *prometheus.Desc
	grows   *prometheus.Desc
}

// NewMetricsCollector builds a collector for t. constLabels is attached
// to every metric the collector emits, e.g. to distinguish multiple
// tables registered in the same process.
func NewMetricsCollector(t *Table, constLabels prometheus.Labels) *MetricsCollector {
	return &MetricsCollector{
		t: t,
		count: prometheus.NewDesc(
			"chainht_count", "Number of live keys in the table.", nil, constLabels),
		modulus: prometheus.NewDesc(
			"chainht_modulus", "Current bucket array size.", nil, constLabels),
		rung: prometheus.NewDesc(
			"chainht_ladder_rung", "Current position on the prime ladder.", nil, constLabels),
		grows: prometheus.NewDesc(
			"chainht_grows_total", "Number of completed grow/rehash operations.", nil, constLabels),
	}
}

// Describe implements prometheus.Collector.
func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.count
	ch <- c.modulus
	ch <- c.rung
	ch <- c.grows
}

// Collect implements prometheus.Collector.
func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	count, modulus, rung, grows := c.t.snapshot()
	ch <- prometheus.MustNewConstMetric(c.count, prometheus.GaugeValue, float64(count))
	ch <- prometheus.MustNewConstMetric(c.modulus, prometheus.GaugeValue, float64(modulus))
	ch <- prometheus.MustNewConstMetric(c.rung, prometheus.GaugeValue, float64(rung))
	ch <- prometheus.MustNewConstMetric(c.grows, prometheus.CounterValue, float64(grows))
}
