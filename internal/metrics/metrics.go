// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Shortens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlink_shorten_requests_total",
		Help: "Shorten requests by outcome.",
	}, []string{"result"})
	Collisions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_code_collisions_total",
		Help: "Generated codes that were already taken.",
	})
	Redirects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlink_redirect_requests_total",
		Help: "Redirect lookups by outcome.",
	}, []string{"result"})
	ClicksRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_recorded_total",
		Help: "Clicks persisted to the store.",
	})
	ClicksFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_failed_total",
		Help: "Clicks that could not be persisted.",
	})
	ClicksOverflow = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_overflow_total",
		Help: "Clicks recorded outside the worker pool because the queue was full.",
	})
	ClicksDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_clicks_dropped_total",
		Help: "Clicks that arrived after the worker was closed.",
	})
)

func init() {
	prometheus.MustRegister(Shortens, Collisions, Redirects, ClicksRecorded, ClicksFailed, ClicksOverflow, ClicksDropped)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
