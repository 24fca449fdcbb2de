// Package metrics exposes queue and pool counters as Prometheus
// metrics. Register a Collector with a prometheus.Registerer and serve
// the registry with promhttp, or use Handler for a self-contained
// endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mbraunert/asynclog/queue"
)

const namespace = "asynclog"

// Source is anything that can report queue statistics. *queue.AsyncQueue
// satisfies it.
type Source interface {
	ID() string
	Stats() queue.Stats
}

// Collector implements prometheus.Collector over one or more queues.
// Metrics are read from the queues' atomic counters at scrape time; no
// background collection runs.
type Collector struct {
	sources []Source

	enqueued  *prometheus.Desc
	dropped   *prometheus.Desc
	processed *prometheus.Desc
	queueSize *prometheus.Desc

	poolAllocations   *prometheus.Desc
	poolDeallocations *prometheus.Desc
	poolCacheHits     *prometheus.Desc
	poolCreated       *prometheus.Desc
	poolSize          *prometheus.Desc
	poolPeakSize      *prometheus.Desc
}

// NewCollector creates a Collector for the given queues. Each metric is
// labeled with the queue id.
func NewCollector(sources ...Source) *Collector {
	labels := []string{"queue"}
	return &Collector{
		sources: sources,
		enqueued: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "enqueued_total"),
			"Entries accepted into the queue.", labels, nil),
		dropped: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "dropped_total"),
			"Entries rejected on overflow or during shutdown.", labels, nil),
		processed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "processed_total"),
			"Entries handed to the sink.", labels, nil),
		queueSize: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "queue_size"),
			"Entries currently waiting in the queue.", labels, nil),
		poolAllocations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", "allocations_total"),
			"Entries handed out by the pool.", labels, nil),
		poolDeallocations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", "deallocations_total"),
			"Entries returned to the pool.", labels, nil),
		poolCacheHits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", "cache_hits_total"),
			"Allocations served from a goroutine-local cache.", labels, nil),
		poolCreated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", "created_total"),
			"Entries ever constructed by the pool.", labels, nil),
		poolSize: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", "size"),
			"Entries currently idle in the pool.", labels, nil),
		poolPeakSize: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", "peak_size"),
			"High-water mark of idle entries in the pool.", labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.enqueued
	ch <- c.dropped
	ch <- c.processed
	ch <- c.queueSize
	ch <- c.poolAllocations
	ch <- c.poolDeallocations
	ch <- c.poolCacheHits
	ch <- c.poolCreated
	ch <- c.poolSize
	ch <- c.poolPeakSize
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, src := range c.sources {
		id := src.ID()
		st := src.Stats()

		counter := func(desc *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), id)
		}
		gauge := func(desc *prometheus.Desc, v float64) {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v, id)
		}

		counter(c.enqueued, st.TotalEnqueued)
		counter(c.dropped, st.TotalDropped)
		counter(c.processed, st.TotalProcessed)
		gauge(c.queueSize, float64(st.CurrentQueueSize))

		counter(c.poolAllocations, st.Pool.Allocations)
		counter(c.poolDeallocations, st.Pool.Deallocations)
		counter(c.poolCacheHits, st.Pool.CacheHits)
		counter(c.poolCreated, st.Pool.Created)
		gauge(c.poolSize, float64(st.Pool.CurrentSize))
		gauge(c.poolPeakSize, float64(st.Pool.PeakSize))
	}
}

// Handler returns an http.Handler serving the given queues' metrics
// from a private registry, alongside the standard Go runtime metrics.
func Handler(sources ...Source) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		NewCollector(sources...),
		collectors.NewGoCollector(),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
