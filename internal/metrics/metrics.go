package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "journal_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	UnknownCurrencyLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_unknown_currency_lookups_total",
		Help: "Rate lookups that fell back to 1 for an unrecognised currency code",
	}, []string{"currency"})

	RateRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_rate_refreshes_total",
		Help: "Currency rate table refresh attempts",
	}, []string{"status"})

	SnapshotsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_snapshots_ingested_total",
		Help: "Price snapshots consumed from the feed",
	}, []string{"result"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_events_published_total",
		Help: "Trade lifecycle events published",
	}, []string{"event_type", "status"})
)

func RecordHTTPRequest(method, route string, status int) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func RecordUnknownCurrency(code string) {
	UnknownCurrencyLookups.WithLabelValues(code).Inc()
}

func RecordRateRefresh(ok bool) {
	RateRefreshes.WithLabelValues(statusLabel(ok)).Inc()
}

func RecordSnapshot(result string) {
	SnapshotsIngested.WithLabelValues(result).Inc()
}

func RecordEvent(eventType string, ok bool) {
	EventsPublished.WithLabelValues(eventType, statusLabel(ok)).Inc()
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}
