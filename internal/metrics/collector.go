// Package metrics records tool, model and fallback metrics in Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spetersoncode/imagemcp"
)

// OutcomeSuccess labels calls that returned no error.
const OutcomeSuccess = "success"

// Collector implements the recorder interfaces of the google, workflow and
// mcp packages.
type Collector struct {
	toolCallsTotal   *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec

	modelRequestsTotal   *prometheus.CounterVec
	modelRequestDuration *prometheus.HistogramVec

	fallbacksTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewCollector registers the metrics with reg under namespace.
// A nil reg uses a fresh registry.
func NewCollector(namespace string, reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Collector{
		toolCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of MCP tool calls",
			},
			[]string{"tool", "outcome"},
		),
		toolCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_call_duration_seconds",
				Help:      "MCP tool call duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"tool"},
		),
		modelRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_requests_total",
				Help:      "Total number of Gemini requests",
			},
			[]string{"model", "mode", "outcome"},
		),
		modelRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_request_duration_seconds",
				Help:      "Gemini request duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"model", "mode"},
		),
		fallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallbacks_total",
				Help:      "Total number of translation and filename fallbacks",
			},
			[]string{"operation"},
		),
		gatherer: reg,
	}
}

// ObserveToolCall records one MCP tool call.
func (c *Collector) ObserveToolCall(tool string, err error, elapsed time.Duration) {
	c.toolCallsTotal.WithLabelValues(tool, Outcome(err)).Inc()
	c.toolCallDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveModelRequest records one Gemini request.
func (c *Collector) ObserveModelRequest(model, mode string, err error, elapsed time.Duration) {
	c.modelRequestsTotal.WithLabelValues(model, mode, Outcome(err)).Inc()
	c.modelRequestDuration.WithLabelValues(model, mode).Observe(elapsed.Seconds())
}

// ObserveFallback records a translation or filename fallback.
func (c *Collector) ObserveFallback(operation string) {
	c.fallbacksTotal.WithLabelValues(operation).Inc()
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Outcome returns the label for err: "success", the error kind, or "error"
// for untagged errors.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if kind := imagemcp.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
