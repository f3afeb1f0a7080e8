// Package metrics expone las métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/reparo-api/internal/application/ports"
)

const namespace = "reparo"

var _ ports.TransitionRecorder = (*Metrics)(nil)

// Metrics contadores e histogramas de HTTP y del ciclo fiscal.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	fiscalTransitions *prometheus.CounterVec
	realtimeClients   prometheus.Gauge
}

// New registra las métricas en un registry propio (más las de Go y del proceso).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latencia de los requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		fiscalTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fiscal",
			Name:      "transitions_total",
			Help:      "Transiciones de documentos fiscales por tipo y acción.",
		}, []string{"type", "action"}),
		realtimeClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "clients",
			Help:      "Clientes SSE conectados.",
		}),
	}
	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.fiscalTransitions,
		m.realtimeClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveHTTP registra un request terminado. route es el patrón (/api/services/:id), no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// FiscalTransition cuenta una transición fiscal.
func (m *Metrics) FiscalTransition(docType, action string) {
	m.fiscalTransitions.WithLabelValues(docType, action).Inc()
}

// RealtimeConnected suma (+1) o resta (-1) clientes SSE.
func (m *Metrics) RealtimeConnected(delta int) {
	m.realtimeClients.Add(float64(delta))
}

// Handler handler net/http para el endpoint de scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devuelve el registry (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
