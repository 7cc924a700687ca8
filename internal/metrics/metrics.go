// Package metrics defines the Prometheus collectors for game events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeAccepted  = "accepted"
	OutcomeDiscarded = "discarded"
	OutcomeAdvanced  = "advanced"
	OutcomeUnchanged = "unchanged"
	OutcomeIgnored   = "ignored"
)

var (
	// GhostSubmissions counts ghost submissions by whether they replaced the stored record
	GhostSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssprint_ghost_submissions_total",
			Help: "Ghost submissions by outcome.",
		},
		[]string{"outcome"},
	)

	// WinReports counts progress win reports by their effect on unlocked_upto
	WinReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssprint_win_reports_total",
			Help: "Level win reports by outcome.",
		},
		[]string{"outcome"},
	)

	// Classifications counts tier results
	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssprint_classifications_total",
			Help: "Tier classifications by resulting tier.",
		},
		[]string{"tier"},
	)

	// Materialized counts reads by where their result came from
	Materialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssprint_reads_total",
			Help: "Reads by entity and source (default, created, stored).",
		},
		[]string{"entity", "source"},
	)

	// Degraded counts operations answered with defaults because the store was unavailable
	Degraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ssprint_degraded_responses_total",
			Help: "Operations served from defaults because the store was unavailable.",
		},
		[]string{"operation"},
	)

	// PanicsRecovered counts handler panics turned into 500 responses
	PanicsRecovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ssprint_http_panics_recovered_total",
			Help: "Handler panics recovered by the HTTP middleware.",
		},
	)
)
