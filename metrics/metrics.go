// Package metrics holds the Prometheus collectors of the batch labeler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "parsedist"

type Metrics struct {
	// SentencesLabeled counts sentences labeled by task
	SentencesLabeled *prometheus.CounterVec

	// LabelErrors counts failed sentences by task and error kind
	LabelErrors *prometheus.CounterVec

	// LabelDuration tracks the time to compute one matrix
	LabelDuration *prometheus.HistogramVec

	// SentenceTokens tracks the length of labeled sentences
	SentenceTokens prometheus.Histogram
}

// New registers the collectors in reg. A nil reg uses a new registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	factory := promauto.With(reg)
	return &Metrics{
		SentencesLabeled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_labeled_total",
			Help:      "Total sentences labeled by task",
		}, []string{"task"}),

		LabelErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "label_errors_total",
			Help:      "Total sentences that could not be labeled by task and error kind",
		}, []string{"task", "kind"}),

		LabelDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "label_duration_seconds",
			Help:      "Time to compute the label matrix of a sentence",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}, []string{"task"}),

		SentenceTokens: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sentence_tokens",
			Help:      "Number of tokens of labeled sentences",
			Buckets:   []float64{5, 10, 20, 30, 50, 80, 120, 200},
		}),
	}
}

// Observe records one labeled sentence.
func (m *Metrics) Observe(task string, tokens int, d time.Duration) {
	m.SentencesLabeled.WithLabelValues(task).Inc()
	m.LabelDuration.WithLabelValues(task).Observe(d.Seconds())
	m.SentenceTokens.Observe(float64(tokens))
}

// Fail records one sentence that failed with an error of the given kind.
func (m *Metrics) Fail(task, kind string) {
	m.LabelErrors.WithLabelValues(task, kind).Inc()
}

// Handler serves the collectors of g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
