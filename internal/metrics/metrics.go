package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "innkeep",
			Name:      "http_requests_total",
			Help:      "HTTP requests by service and endpoint.",
		},
		[]string{"service", "endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "innkeep",
			Name:      "bookings_created_total",
			Help:      "Hotel bookings successfully created.",
		},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "innkeep",
			Name:      "bookings_cancelled_total",
			Help:      "Hotel bookings cancelled.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingsCancelled)
	})
}

// IncHTTP increments the request counter for a service/endpoint pair.
func IncHTTP(service, endpoint string) {
	httpRequests.WithLabelValues(service, endpoint).Inc()
}

// IncBookingCreated increments the created-bookings counter.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingCancelled increments the cancelled-bookings counter.
func IncBookingCancelled() {
	bookingsCancelled.Inc()
}
