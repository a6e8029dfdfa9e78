// Package metrics defines and registers the custom Prometheus metrics of the
// LIS API. It is the single source of truth for metric names, labels, and
// help strings.
//
// All metrics are registered with the default Prometheus registry at package
// init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lis"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts token requests.
// Label:
//   - result: "success" or "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of token requests, labelled by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account registration attempts.
// Label:
//   - result: "success", "duplicate", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of account registrations, labelled by result.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts requests rejected by the auth middleware chain.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by authentication or role checks.",
	},
	[]string{"reason"},
)

// ── Lab metrics ───────────────────────────────────────────────────────────────

// RecordsCreatedTotal counts persisted lab records.
// Label:
//   - resource: "patient", "order" or "result"
var RecordsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_created_total",
		Help:      "Total number of lab records created, by resource.",
	},
	[]string{"resource"},
)
