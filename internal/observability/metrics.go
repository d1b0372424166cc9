package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dispatch", Name: "requests_created_total", Help: "Ride requests created"})
	RequestsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dispatch", Name: "requests_expired_total", Help: "Ride requests lazily expired"})

	AcceptAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dispatch", Name: "accept_attempts_total", Help: "Accept attempts by outcome"},
		[]string{"outcome"}, // won, conflict, error
	)
	AcceptLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dispatch", Name: "accept_latency_seconds", Help: "Accept transaction latency"})

	NearbyResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dispatch", Name: "nearby_results", Help: "Open requests returned per proximity query",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50}})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dispatch", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dispatch",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
