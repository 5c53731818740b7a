package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paga_client_requests_total",
		Help: "Paga business api calls by operation and outcome",
	}, []string{"operation", "outcome"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paga_client_request_duration_seconds",
		Help:    "Time spent dispatching paga business api calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
