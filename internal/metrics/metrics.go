package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fixly",
			Name:      "api_requests_total",
			Help:      "Outbound API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fixly",
			Name:      "booking_transitions_total",
			Help:      "Acknowledged booking transitions by action.",
		},
		[]string{"action"},
	)

	reviewSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fixly",
			Name:      "review_submissions_total",
			Help:      "Reviews accepted by the server.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, bookingTransitions, reviewSubmissions)
	})
}

// IncAPIRequest counts one outbound request.
func IncAPIRequest(endpoint, outcome string) {
	apiRequests.WithLabelValues(endpoint, outcome).Inc()
}

// IncBookingTransition counts one acknowledged lifecycle transition.
func IncBookingTransition(action string) {
	bookingTransitions.WithLabelValues(action).Inc()
}

// IncReviewSubmission counts one accepted review.
func IncReviewSubmission() {
	reviewSubmissions.Inc()
}
