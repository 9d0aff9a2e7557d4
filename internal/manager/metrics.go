package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	modelLoadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "neuronexus",
			Subsystem: "model",
			Name:      "loads_total",
			Help:      "Successful model initializations",
		},
	)

	modelInitFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuronexus",
			Subsystem: "model",
			Name:      "init_failures_total",
			Help:      "Failed model initializations by kind",
		},
		[]string{"kind"},
	)

	modelInitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "neuronexus",
			Subsystem: "model",
			Name:      "init_duration_seconds",
			Help:      "Duration of successful model initializations",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)

	modelScoreDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "neuronexus",
			Subsystem: "model",
			Name:      "score_duration_seconds",
			Help:      "Duration of essay scoring",
			Buckets:   prometheus.DefBuckets,
		},
	)

	modelDownloadBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuronexus",
			Subsystem: "model",
			Name:      "download_bytes_total",
			Help:      "Bytes written to the model cache by file",
		},
		[]string{"file"},
	)
)

func init() {
	prometheus.MustRegister(modelLoadsTotal, modelInitFailuresTotal, modelInitDuration, modelScoreDuration, modelDownloadBytesTotal)
}
