// Package metrics defines and registers all custom Prometheus metrics for the
// NutritionNest coaching API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto at package load time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nutritionnest"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignInsTotal counts sign-in attempts by outcome.
// Label:
//   - result: "ok", "invalid_credentials", "blocked", or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, labelled by result.",
	},
	[]string{"result"},
)

// AuthEventsTotal counts auth state transitions emitted to subscribers.
// Label:
//   - event: "signed_in", "signed_out", "token_refreshed", "session_expired"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of auth events emitted by the identity backend.",
	},
	[]string{"event"},
)

// SessionsActive tracks the number of sessions currently stored.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of currently live sessions.",
	},
)

// ── Admin action metrics ──────────────────────────────────────────────────────

// AdminActionsTotal counts privileged mutations by action and outcome.
// Labels:
//   - action: "create_user", "update_user", "delete_user", "block_user",
//     "assign_plan", "list_users"
//   - result: "ok", "denied", or "error"
var AdminActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_actions_total",
		Help:      "Total number of privileged admin actions, labelled by action and result.",
	},
	[]string{"action", "result"},
)
