// Package metrics defines and registers all custom Prometheus metrics for the
// shop API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto, and exposed by the /metrics route. Register adds
// them to a custom registry as well.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shop"

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
// Label:
//   - role: "user" or "admin"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "unknown_email" or "bad_password"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// EmailsSentTotal counts password reset emails.
// Label:
//   - result: "sent" or "failed"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of reset emails handed to the mail provider, labelled by result.",
	},
	[]string{"result"},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// StockRejectionsTotal counts cart operations refused for insufficient stock.
// Label:
//   - stage: "add", "update" or "checkout"
var StockRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_rejections_total",
		Help:      "Total number of cart operations rejected because stock was too low.",
	},
	[]string{"stage"},
)

// CartItemsAddedTotal counts units added to carts.
var CartItemsAddedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_items_added_total",
		Help:      "Total number of product units added to carts.",
	},
)

// CheckoutsTotal counts checkout attempts.
// Label:
//   - result: "completed" or "failed"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts, labelled by result.",
	},
	[]string{"result"},
)

// Register adds every metric above to reg. Metrics already present in reg
// are skipped.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		UsersRegisteredTotal,
		LoginsTotal,
		EmailsSentTotal,
		StockRejectionsTotal,
		CartItemsAddedTotal,
		CheckoutsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
