// Package metrics defines and registers all custom Prometheus metrics for the
// chainlance marketplace gateway. It is the single source of truth for metric
// names, labels, and help strings. Registration happens at import time via
// promauto against the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// ChallengesIssuedTotal counts login challenges handed out.
var ChallengesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_challenges_issued_total",
		Help:      "Total number of login challenges issued.",
	},
)

// VerificationsTotal counts challenge redemption attempts.
// Label:
//   - result: "success", "expired", "mismatch", "missing_profile", "error"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_verifications_total",
		Help:      "Total number of signature verification attempts, by result.",
	},
	[]string{"result"},
)

// TokensRefreshedTotal counts successful access-token refreshes.
var TokensRefreshedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_tokens_refreshed_total",
		Help:      "Total number of access tokens minted from refresh tokens.",
	},
)

// ── Job metrics ───────────────────────────────────────────────────────────────

// JobTransitionsTotal counts lifecycle transitions applied to jobs.
// Label:
//   - transition: "create", "assign", "finish"
var JobTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_transitions_total",
		Help:      "Total number of successful job lifecycle transitions.",
	},
	[]string{"transition"},
)

// ── Messaging metrics ─────────────────────────────────────────────────────────

// MessagesStoredTotal counts messages persisted to the store.
var MessagesStoredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_stored_total",
		Help:      "Total number of chat messages persisted.",
	},
)

// WSConnections tracks currently open websocket connections.
var WSConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_connections",
		Help:      "Number of currently open websocket connections.",
	},
)

// RoomMembers tracks the total number of (connection, room) memberships.
var RoomMembers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_room_members",
		Help:      "Current number of room memberships across all connections.",
	},
)
