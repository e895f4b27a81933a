package monitoring

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/mezonai/xoledger/logx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type SubmitOutcome string

var (
	SubmitAccepted  SubmitOutcome = "accepted"
	SubmitRejected  SubmitOutcome = "rejected"
	SubmitTransport SubmitOutcome = "transport_error"
)

type clientPromMetrics struct {
	clientUpUnixSeconds prometheus.Gauge
	txBuiltCount        *prometheus.CounterVec
	batchBuiltCount     prometheus.Counter
	txInBatch           prometheus.Histogram
	submitCount         *prometheus.CounterVec
	submitLatency       prometheus.Histogram
	batchStatusCount    *prometheus.CounterVec
	timeToCommit        prometheus.Histogram
	panicCount          prometheus.Counter
}

func newClientPromMetrics() *clientPromMetrics {
	return &clientPromMetrics{
		clientUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "xo_client_up_timestamp_unix_seconds",
				Help: "Unix timestamp the client process started at",
			},
		),
		txBuiltCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xo_client_tx_built_count",
				Help: "The total number of signed transactions built",
			},
			[]string{"family"},
		),
		batchBuiltCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "xo_client_batch_built_count",
				Help: "The total number of signed batches built",
			},
		),
		txInBatch: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "xo_client_tx_in_batch",
				Help:    "Number of transactions per batch",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
			},
		),
		submitCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xo_client_submit_count",
				Help: "The total number of batch list submissions by outcome",
			},
			[]string{"outcome"},
		),
		submitLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name: "xo_client_submit_latency_seconds",
				Help: "Latency in second of a batch list submission round trip",
			},
		),
		batchStatusCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xo_client_batch_status_count",
				Help: "The total number of batch status responses by status",
			},
			[]string{"status"},
		),
		timeToCommit: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name: "xo_client_time_to_commit_seconds",
				Help: "Latency in second from submission until the batch left the pending state",
			},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "xo_client_panic_count",
				Help: "The total number of recovered panics in background goroutines",
			},
		),
	}
}

var (
	clientMetrics     *clientPromMetrics
	clientMetricsOnce sync.Once
)

// metrics registers the collectors on first use so library callers never
// see a nil collector and registration happens at most once.
func metrics() *clientPromMetrics {
	clientMetricsOnce.Do(func() {
		clientMetrics = newClientPromMetrics()
		clientMetrics.clientUpUnixSeconds.SetToCurrentTime()
	})
	return clientMetrics
}

func InitMetrics() {
	metrics()
}

func RegisterMetrics(mux *http.ServeMux) {
	logx.Info("MONITORING", "Registering prometheus metrics")
	mux.Handle("/metrics", promhttp.Handler())
}

// StartMetricsServer serves /metrics on addr until ctx is cancelled.
func StartMetricsServer(ctx context.Context, addr string) error {
	InitMetrics()
	mux := http.NewServeMux()
	RegisterMetrics(mux)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logx.Info("MONITORING", "Metrics server listening on ", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func RecordTxBuilt(family string) {
	metrics().txBuiltCount.With(prometheus.Labels{
		"family": family,
	}).Inc()
}

func RecordBatchBuilt(txCount int) {
	m := metrics()
	m.batchBuiltCount.Inc()
	m.txInBatch.Observe(float64(txCount))
}

func RecordSubmit(outcome SubmitOutcome, duration time.Duration) {
	m := metrics()
	m.submitCount.With(prometheus.Labels{
		"outcome": string(outcome),
	}).Inc()
	m.submitLatency.Observe(duration.Seconds())
}

func RecordBatchStatus(status string) {
	metrics().batchStatusCount.With(prometheus.Labels{
		"status": status,
	}).Inc()
}

func RecordTimeToCommit(duration time.Duration) {
	metrics().timeToCommit.Observe(duration.Seconds())
}

func IncreasePanicCount() {
	metrics().panicCount.Inc()
}
