package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records settled and failed checkouts. A nil receiver (or a
// receiver built without a registerer) is a no-op, so the register service
// can run without metrics wired.
type CheckoutMetrics struct {
	transactions prometheus.Counter
	failures     *prometheus.CounterVec
	saleTotal    prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	transactions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_transactions_total",
		Help: "Settled checkout transactions.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_checkout_failures_total",
		Help: "Checkout attempts rejected before settling.",
	}, []string{"code"})
	saleTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_sale_total_dollars",
		Help:    "Receipt totals in dollars.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})
	reg.MustRegister(transactions, failures, saleTotal)
	return &CheckoutMetrics{
		transactions: transactions,
		failures:     failures,
		saleTotal:    saleTotal,
	}
}

// ObserveSale records a settled transaction and its receipt total.
func (c *CheckoutMetrics) ObserveSale(total float64) {
	if c == nil || c.transactions == nil {
		return
	}
	c.transactions.Inc()
	c.saleTotal.Observe(total)
}

// IncFailure increments the failure counter for the given error code.
func (c *CheckoutMetrics) IncFailure(code string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(code string) string {
	if code == "" {
		return "unknown"
	}
	return code
}
