package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the counters exposed on the metrics router.
// Each instance owns its registry so several servers can run in one process.
type Metrics struct {
	Registry     *prometheus.Registry
	Assessments  *prometheus.CounterVec
	Exports      *prometheus.CounterVec
	TableReloads *prometheus.CounterVec
}

// NewMetrics creates and registers the assessment counters.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aeroindex",
			Name:      "assessments_total",
			Help:      "Assessments computed, by outcome.",
		}, []string{"outcome"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aeroindex",
			Name:      "exports_total",
			Help:      "Assessment exports written, by format.",
		}, []string{"format"}),
		TableReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aeroindex",
			Name:      "table_reloads_total",
			Help:      "Score table reloads, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.Assessments,
		m.Exports,
		m.TableReloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Outcome label values.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)
