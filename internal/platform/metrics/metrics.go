// Package metrics provides Prometheus instrumentation for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the custom collectors, registered on a private registry to
// avoid polluting the global one.
type Metrics struct {
	registry *prometheus.Registry

	RegistrationsTotal *prometheus.CounterVec
	LoginsTotal        *prometheus.CounterVec
	AdminListingsTotal prometheus.Counter
}

// Outcome labels for the auth counters.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "userhub_registrations_total",
				Help: "Total number of registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "userhub_logins_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		AdminListingsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "userhub_admin_listings_total",
				Help: "Total number of admin user listings served",
			},
		),
	}

	registry.MustRegister(m.RegistrationsTotal)
	registry.MustRegister(m.LoginsTotal)
	registry.MustRegister(m.AdminListingsTotal)

	return m
}

// Handler returns the /metrics HTTP handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
