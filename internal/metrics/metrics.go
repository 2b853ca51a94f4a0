// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PermissionChecks counts enforcement-gate decisions by activity,
	// action and outcome ("allowed" / "denied").
	PermissionChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Name:      "permission_checks_total",
		Help:      "Enforcement gate decisions at the API boundary",
	}, []string{"activity", "action", "decision"})

	// OTPIssued counts password-reset codes issued
	OTPIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crm",
		Name:      "otp_issued_total",
		Help:      "Password reset codes issued",
	})

	// LeadsIndexed counts writes to the lead search index
	LeadsIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crm",
		Name:      "leads_indexed_total",
		Help:      "Lead documents written to the search index",
	})

	// LeadsArchivedBySweep counts leads archived by the nightly sweep
	LeadsArchivedBySweep = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crm",
		Name:      "leads_archived_by_sweep_total",
		Help:      "Stale leads archived by the maintenance job",
	})
)

// Decision converts a gate outcome to the metric label
func Decision(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "denied"
}
