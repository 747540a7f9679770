// Package metrics defines and registers all custom Prometheus metrics for the
// realty platform. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at init time;
// the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "realty"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// CSRFRejectionsTotal counts mutating requests rejected by the CSRF check.
var CSRFRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csrf_rejections_total",
		Help:      "Total number of requests rejected for a missing or invalid CSRF token.",
	},
)

// ── Property metrics ──────────────────────────────────────────────────────────

// PropertiesCreatedTotal counts newly created listings.
// Label:
//   - city: the listing's city
var PropertiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "properties_created_total",
		Help:      "Total number of property listings created, by city.",
	},
	[]string{"city"},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditProcessedTotal counts audit events that were persisted.
// Label:
//   - action: the audit action (e.g. "login", "property_created")
var AuditProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_processed_total",
		Help:      "Total number of audit events successfully persisted.",
	},
	[]string{"action"},
)

// AuditErrorsTotal counts audit events that failed persistence.
// Label:
//   - reason: short description of the failure (e.g. "insert_failed", "queue_full")
var AuditErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit events that failed processing.",
	},
	[]string{"reason"},
)

// AuditWriteDuration measures how long persisting one audit event takes.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of audit event persistence from dequeue to insert.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// ProxyAttemptsTotal counts individual forwarding attempts made by the gateway.
// Label:
//   - outcome: "ok", "retry", or "exhausted"
var ProxyAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_attempts_total",
		Help:      "Total number of backend forwarding attempts, labelled by outcome.",
	},
	[]string{"outcome"},
)

// ProxyHandshakeFailuresTotal counts CSRF handshakes the gateway could not
// complete before forwarding a mutating request.
var ProxyHandshakeFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_handshake_failures_total",
		Help:      "Total number of failed CSRF token handshakes at the gateway.",
	},
)
