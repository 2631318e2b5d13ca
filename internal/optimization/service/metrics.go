package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Solve outcomes
const (
	OutcomeCaptured       = "captured"
	OutcomeValidation     = "validation_error"
	OutcomeBusy           = "busy"
	OutcomeTransportError = "transport_error"
	OutcomeSolverStatus   = "solver_status"
	OutcomeStale          = "stale"
)

var (
	solveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimization_solve_total",
		Help: "Solve attempts by module and outcome",
	}, []string{"module", "outcome"})

	solverCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimization_solver_call_duration_seconds",
		Help:    "Latency of calls to the external solver",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"module"})

	graphMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimization_graph_mutations_total",
		Help: "Edge additions and removals by result",
	}, []string{"operation", "result"})
)

func recordSolve(module, outcome string) {
	solveTotal.WithLabelValues(module, outcome).Inc()
}

func recordSolverCall(module string, d time.Duration) {
	solverCallDuration.WithLabelValues(module).Observe(d.Seconds())
}

func recordGraphMutation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	graphMutations.WithLabelValues(operation, result).Inc()
}
