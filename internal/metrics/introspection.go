package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Introspection metrics. Standalone package so controllers and services
// can record without importing each other.

var (
	IntrospectionRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "askjohn_introspection_requests_total",
		Help: "Requests de introspección por resultado (active, inactive, forbidden, unauthorized, error)",
	}, []string{"outcome"})

	IntrospectionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "askjohn_introspection_latency_ms",
		Help:    "Latencia de la decisión de introspección en milisegundos",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})
)

// RegisterIntrospection registers the metrics on the given registry (or
// the default if nil). Double registration is tolerated.
func RegisterIntrospection(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{IntrospectionRequests, IntrospectionLatency} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
