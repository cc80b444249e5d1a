package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the solver and its API
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// Generations counts completed generations across all runs
	Generations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ga_generations_total", Help: "Completed generations."},
	)
	// PopulationBest is the best fitness in the population after the latest generation
	PopulationBest = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "ga_population_best_fitness", Help: "Best population fitness after the latest generation."},
	)
	// PopulationSize is the population size after the latest generation
	PopulationSize = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "ga_population_size", Help: "Population size after the latest generation."},
	)
	// Fallbacks counts infeasible candidates replaced by a fresh solution, by operator
	Fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ga_feasibility_fallbacks_total", Help: "Infeasible candidates replaced by a constructed solution."},
		[]string{"operator"},
	)
	// ConstructionAttempts records how many rejection-sampling draws each construction needed
	ConstructionAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "ga_construction_attempts", Help: "Draws needed per random construction.", Buckets: []float64{1, 2, 5, 10, 50, 100, 1000, 10000}},
	)
	// ConstructionFailures counts constructions that hit the attempt limit
	ConstructionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ga_construction_failures_total", Help: "Constructions that exhausted the attempt limit."},
	)
)

// RegisterDefault registers collectors to the package registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Generations)
		Registry.MustRegister(PopulationBest)
		Registry.MustRegister(PopulationSize)
		Registry.MustRegister(Fallbacks)
		Registry.MustRegister(ConstructionAttempts)
		Registry.MustRegister(ConstructionFailures)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

// EngineObserver feeds search events into the collectors above
type EngineObserver struct{}

func (EngineObserver) ConstructionFinished(attempts int, err error) {
	ConstructionAttempts.Observe(float64(attempts))
	if err != nil {
		ConstructionFailures.Inc()
	}
}

func (EngineObserver) FeasibilityFallback(operator string) {
	Fallbacks.WithLabelValues(operator).Inc()
}

func (EngineObserver) GenerationFinished(generation int, bestFitness float64, populationSize int) {
	Generations.Inc()
	PopulationBest.Set(bestFitness)
	PopulationSize.Set(float64(populationSize))
}
