package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts what the ingest loop sees. A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	linesRead     prometheus.Counter
	linesIngested prometheus.Counter
	parseFailures prometheus.Counter
	readTimeouts  prometheus.Counter
	redraws       prometheus.Counter

	windowLength prometheus.Gauge
	channels     prometheus.Gauge
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		linesRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "plotser_lines_read_total",
			Help: "Lines read from the device",
		}),
		linesIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "plotser_lines_ingested_total",
			Help: "Lines parsed and stored",
		}),
		parseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "plotser_parse_failures_total",
			Help: "Lines skipped because they were not numeric",
		}),
		readTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "plotser_read_timeouts_total",
			Help: "Reads that ended without a line",
		}),
		redraws: factory.NewCounter(prometheus.CounterOpts{
			Name: "plotser_redraws_total",
			Help: "Pictures handed to the render surface",
		}),
		windowLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "plotser_window_ticks",
			Help: "Ticks currently held in the window",
		}),
		channels: factory.NewGauge(prometheus.GaugeOpts{
			Name: "plotser_channels",
			Help: "Channels seen so far",
		}),
	}
}

func (c *Collector) LineRead() {
	if c == nil {
		return
	}
	c.linesRead.Inc()
}

func (c *Collector) ParseFailure() {
	if c == nil {
		return
	}
	c.parseFailures.Inc()
}

func (c *Collector) ReadTimeout() {
	if c == nil {
		return
	}
	c.readTimeouts.Inc()
}

func (c *Collector) Redraw() {
	if c == nil {
		return
	}
	c.redraws.Inc()
}

// Ingested records a stored line along with the store's size afterwards.
func (c *Collector) Ingested(windowLength, channels int) {
	if c == nil {
		return
	}
	c.linesIngested.Inc()
	c.windowLength.Set(float64(windowLength))
	c.channels.Set(float64(channels))
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the collector's metrics in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
