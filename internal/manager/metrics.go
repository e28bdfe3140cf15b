package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "manager",
			Name:      "model_loads_total",
			Help:      "Total model load attempts by outcome",
		},
		[]string{"outcome"},
	)

	reloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "manager",
			Name:      "model_reloads_total",
			Help:      "Total model reload attempts by outcome",
		},
		[]string{"outcome"},
	)

	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "manager",
			Name:      "generations_total",
			Help:      "Total generation calls by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(loadsTotal, reloadsTotal, generationsTotal)
}
