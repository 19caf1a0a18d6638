// Package metrics defines the Prometheus collectors for the HTTP surface.
// Standalone package to avoid import cycles between middlewares and router.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clinicbook_http_requests_total",
		Help: "HTTP requests by method, route pattern and status class",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clinicbook_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	AuthFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clinicbook_auth_failures_total",
		Help: "Rejected requests by reason (unauthenticated, forbidden, rate_limited)",
	}, []string{"reason"})
)

// Register registers the collectors on reg (or the default registerer if nil).
// AlreadyRegistered is tolerated so tests can call it repeatedly.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{HTTPRequestsTotal, HTTPRequestDuration, AuthFailuresTotal} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
