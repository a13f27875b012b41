// Package metrics declares the planner's Prometheus instrumentation,
// grounded on the pack's promauto declaration idiom (sibling tutu
// repository's observability package).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WindowSolveDuration tracks wall-clock solve time per sliding window.
var WindowSolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "planner",
	Subsystem: "window",
	Name:      "solve_duration_seconds",
	Help:      "Wall-clock duration of a single sliding-window solve.",
	Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
})

// WindowMIPGap tracks the relative MIP gap of the best solution found per window.
var WindowMIPGap = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Subsystem: "window",
	Name:      "mip_gap",
	Help:      "Relative MIP gap of the most recently solved window.",
})

// WindowsSolved counts completed windows by terminal status.
var WindowsSolved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "planner",
	Subsystem: "window",
	Name:      "solved_total",
	Help:      "Total sliding windows solved, by terminal status.",
}, []string{"status"})

// ShortageUnits tracks total shortage units reported by the most recent run.
var ShortageUnits = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Subsystem: "solution",
	Name:      "shortage_units",
	Help:      "Total shortage units in the most recently committed solution.",
})

// Handler returns the HTTP handler to mount at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
