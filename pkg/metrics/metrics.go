package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result
	// (success|wrong_password|not_found|locked|invalid_email).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mimir_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// Lockouts counts accounts transitioned into the blocked state.
	Lockouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mimir_auth_lockouts_total",
			Help: "Total number of account lockouts",
		},
	)

	// SnapshotSaves counts full snapshot writes by result (ok|error).
	SnapshotSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mimir_snapshot_saves_total",
			Help: "Total number of snapshot persistence writes",
		},
		[]string{"result"},
	)

	// LikeToggles counts like mutations by action (added|removed).
	LikeToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mimir_like_toggles_total",
			Help: "Total number of like toggle operations",
		},
		[]string{"action"},
	)
)
