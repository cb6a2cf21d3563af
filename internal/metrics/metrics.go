package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tweetsearch/internal/models"
)

var phraseSearchesDesc = prometheus.NewDesc(
	"tweetsearch_phrase_searches_total",
	"Total searches per phrase, read from the search record store",
	[]string{"phrase"},
	nil,
)

// RecordLister is the store query the phrase collector reads on each scrape.
type RecordLister interface {
	ListSearchRecords(ctx context.Context, limit int) ([]models.SearchRecord, error)
}

// PhraseCollector is a custom Prometheus collector that reads search counts
// from the database on each scrape.
type PhraseCollector struct {
	store  RecordLister
	logger *zap.Logger
}

// Describe sends the metric descriptor to the channel.
func (c *PhraseCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- phraseSearchesDesc
}

// Collect queries the store for every record and emits its count.
func (c *PhraseCollector) Collect(ch chan<- prometheus.Metric) {
	records, err := c.store.ListSearchRecords(context.Background(), 0)
	if err != nil {
		c.logger.Error("failed to collect phrase search metrics", zap.Error(err))
		return
	}
	for _, r := range records {
		ch <- prometheus.MustNewConstMetric(
			phraseSearchesDesc,
			prometheus.CounterValue,
			float64(r.Count),
			r.Phrase,
		)
	}
}

// Upstream request outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeAuthError = "auth_error"
	OutcomeQuery     = "query_error"
	OutcomeError     = "error"
)

// Form submission results.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

// Metrics holds the application's Prometheus instruments. A nil *Metrics is a no-op.
type Metrics struct {
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration prometheus.Histogram
	FormSubmissionsTotal    *prometheus.CounterVec
}

// New registers the instruments and the phrase collector with reg.
func New(reg prometheus.Registerer, store RecordLister, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	m := &Metrics{
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tweetsearch_upstream_requests_total",
				Help: "Total number of search API requests by outcome",
			},
			[]string{"outcome"},
		),
		UpstreamRequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tweetsearch_upstream_request_duration_seconds",
				Help:    "Search API request duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),
		FormSubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tweetsearch_form_submissions_total",
				Help: "Total number of search form submissions by validation result",
			},
			[]string{"result"},
		),
	}

	if store != nil {
		reg.MustRegister(&PhraseCollector{store: store, logger: logger})
	}
	return m
}

// ObserveUpstream records one search API call.
func (m *Metrics) ObserveUpstream(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(outcome).Inc()
	m.UpstreamRequestDuration.Observe(d.Seconds())
}

// ObserveSubmission records one form submission.
func (m *Metrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.FormSubmissionsTotal.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler that exposes everything gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
