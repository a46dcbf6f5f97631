package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ReconciliationRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscription_reconciliation_runs_total",
			Help: "Number of bulk subscription reconciliation passes",
		},
	)

	SubscriptionDowngrades = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscription_downgrades_total",
			Help: "Number of expired subscriptions downgraded to the basic plan",
		},
	)

	ReconciliationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "subscription_reconciliation_duration_seconds",
			Help: "Time taken by a bulk reconciliation pass",
		},
	)

	PaymentRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_requests_total",
			Help: "Number of payment requests sent to the gateway",
		},
	)

	PaymentVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "Number of gateway callback verifications by outcome",
		},
		[]string{"outcome"},
	)
)

func Register() {
	prometheus.MustRegister(
		ReconciliationRuns,
		SubscriptionDowngrades,
		ReconciliationDuration,
		PaymentRequests,
		PaymentVerifications,
	)
}
