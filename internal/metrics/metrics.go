package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics are the service counters exposed on /metrics
type CheckoutMetrics struct {
	OrdersSubmitted  *prometheus.CounterVec
	Emails           *prometheus.CounterVec
	SubmitDurationMS prometheus.Histogram
}

func NewCheckoutMetrics() *CheckoutMetrics {
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smokyfish",
		Subsystem: "checkout",
		Name:      "orders_submitted_total",
		Help:      "Order submissions by outcome.",
	}, []string{"outcome"})
	emails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smokyfish",
		Subsystem: "checkout",
		Name:      "emails_total",
		Help:      "Transactional mail outcomes by recipient kind.",
	}, []string{"recipient", "outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "smokyfish",
		Subsystem: "checkout",
		Name:      "submit_duration_ms",
		Help:      "Order submission latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	prometheus.MustRegister(orders, emails, duration)
	return &CheckoutMetrics{
		OrdersSubmitted:  orders,
		Emails:           emails,
		SubmitDurationMS: duration,
	}
}

// Handler returns the scrape endpoint handler
func Handler() http.Handler {
	return promhttp.Handler()
}
