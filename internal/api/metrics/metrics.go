// Package metrics defines and registers all custom Prometheus metrics for
// the account API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "account"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "user_not_found", "password_mismatch", "inactive",
//     "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh-flow invocations by outcome.
// Label:
//   - result: "success", "expired", "wrong_kind", "invalid", or "error"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of token refresh attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account creations by outcome.
// Label:
//   - result: "success", "duplicate", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// AvatarUploadsTotal counts avatar uploads by outcome.
// Label:
//   - result: "success" or "error"
var AvatarUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "avatar_uploads_total",
		Help:      "Total number of avatar upload attempts, labelled by outcome.",
	},
	[]string{"result"},
)
