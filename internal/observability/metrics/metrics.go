package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                         sync.Once
	metricsRouter                *chi.Mux
	httpRequestDurationHistogram *prometheus.HistogramVec
	stakesCreatedCounter         *prometheus.CounterVec
	stakesClosedCounter          *prometheus.CounterVec
	eventPublishCounter          *prometheus.CounterVec
	feeAccumulatorGauge          *prometheus.GaugeVec
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		metricsAddr := fmt.Sprintf(":%d", metricsPort)
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)

	stakesCreatedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staking_ledger_stakes_created_total",
			Help: "Total number of stakes created, by asset kind.",
		},
		[]string{"asset"},
	)

	stakesClosedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staking_ledger_stakes_closed_total",
			Help: "Total number of stakes closed, by asset kind and maturity.",
		},
		[]string{"asset", "matured"},
	)

	eventPublishCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staking_ledger_event_publish_total",
			Help: "Total number of queue event publish attempts, by queue and outcome.",
		},
		[]string{"queue", "outcome"},
	)

	feeAccumulatorGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "staking_ledger_unswept_fees",
			Help: "Current un-swept fee accumulator totals, by asset kind.",
		},
		[]string{"asset"},
	)

	prometheus.MustRegister(
		httpRequestDurationHistogram,
		stakesCreatedCounter,
		stakesClosedCounter,
		eventPublishCounter,
		feeAccumulatorGauge,
	)
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

func RecordStakeCreated(asset string) {
	stakesCreatedCounter.WithLabelValues(asset).Inc()
}

func RecordStakeClosed(asset string, matured bool) {
	stakesClosedCounter.WithLabelValues(asset, fmt.Sprintf("%t", matured)).Inc()
}

func RecordEventPublish(queueName string, outcome Outcome) {
	eventPublishCounter.WithLabelValues(queueName, outcome.String()).Inc()
}

func RecordFeeAccumulators(nativeFees, tokenFees uint64) {
	feeAccumulatorGauge.WithLabelValues("native").Set(float64(nativeFees))
	feeAccumulatorGauge.WithLabelValues("token").Set(float64(tokenFees))
}
