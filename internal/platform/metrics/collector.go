package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric registered by NewCollector.
const Namespace = "storyboard"

// Recorder is the instrumentation surface used by the orchestration core.
type Recorder interface {
	// ItemSettled records one batch or single generation item outcome
	// ("succeeded", "failed", "busy") for an asset type.
	ItemSettled(assetType, outcome string, duration time.Duration)
	// BatchFinished records a finished batch run and its outcome.
	BatchFinished(assetType, outcome string)
	// InFlight sets the number of targets currently being generated.
	InFlight(n int)
	// PollQuery records one task status query; failed marks a query error.
	PollQuery(failed bool)
	// ActivePolls sets the number of running poll loops.
	ActivePolls(n int)
}

// Collector implements Recorder on top of a private Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	itemsTotal   *prometheus.CounterVec
	itemDuration *prometheus.HistogramVec
	batchesTotal *prometheus.CounterVec
	inFlight     prometheus.Gauge
	pollQueries  *prometheus.CounterVec
	activePolls  prometheus.Gauge

	logger *slog.Logger
}

// Ensure Collector implements Recorder
var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector with its own registry. Go runtime and
// process collectors are registered alongside the domain metrics.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	c := &Collector{
		registry: registry,
		logger:   logger.With("component", "metrics"),
	}

	c.itemsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "generation_items_total",
			Help:      "Total number of settled generation items",
		},
		[]string{"asset_type", "outcome"},
	)

	c.itemDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "generation_item_duration_seconds",
			Help:      "Remote generation call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"asset_type"},
	)

	c.batchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "batch_runs_total",
			Help:      "Total number of finished batch runs",
		},
		[]string{"asset_type", "outcome"},
	)

	c.inFlight = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "generation_in_flight",
		Help:      "Number of targets with an outstanding generation call",
	})

	c.pollQueries = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "task_poll_queries_total",
			Help:      "Total number of remote task status queries",
		},
		[]string{"result"},
	)

	c.activePolls = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "task_polls_active",
		Help:      "Number of running task poll loops",
	})

	c.logger.Debug("metrics collector initialized")
	return c
}

// ItemSettled implements Recorder.
func (c *Collector) ItemSettled(assetType, outcome string, duration time.Duration) {
	c.itemsTotal.WithLabelValues(assetType, outcome).Inc()
	if duration > 0 {
		c.itemDuration.WithLabelValues(assetType).Observe(duration.Seconds())
	}
}

// BatchFinished implements Recorder.
func (c *Collector) BatchFinished(assetType, outcome string) {
	c.batchesTotal.WithLabelValues(assetType, outcome).Inc()
}

// InFlight implements Recorder.
func (c *Collector) InFlight(n int) {
	c.inFlight.Set(float64(n))
}

// PollQuery implements Recorder.
func (c *Collector) PollQuery(failed bool) {
	result := "ok"
	if failed {
		result = "error"
	}
	c.pollQueries.WithLabelValues(result).Inc()
}

// ActivePolls implements Recorder.
func (c *Collector) ActivePolls(n int) {
	c.activePolls.Set(float64(n))
}

// Registry returns the registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Nop is a Recorder that discards everything.
type Nop struct{}

func (Nop) ItemSettled(string, string, time.Duration) {}
func (Nop) BatchFinished(string, string) {}
func (Nop) InFlight(int) {}
func (Nop) PollQuery(bool) {}
func (Nop) ActivePolls(int) {}
