// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackupRuns counts finished backup runs by terminal status.
	BackupRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hometracker",
		Subsystem: "backup",
		Name:      "runs_total",
		Help:      "Backup runs by terminal status.",
	}, []string{"status"})

	// BackupDuration observes how long a full backup run takes.
	BackupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hometracker",
		Subsystem: "backup",
		Name:      "run_duration_seconds",
		Help:      "Duration of backup runs.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	// PrunedArtifacts counts backup files removed by retention cleanup.
	PrunedArtifacts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hometracker",
		Subsystem: "backup",
		Name:      "pruned_artifacts_total",
		Help:      "Backup artifacts deleted by retention cleanup.",
	})

	// RestoreRuns counts restore attempts by terminal status.
	RestoreRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hometracker",
		Subsystem: "restore",
		Name:      "runs_total",
		Help:      "Restore runs by terminal status.",
	}, []string{"status"})

	// AnalysisItems counts processed analysis items by outcome.
	AnalysisItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hometracker",
		Subsystem: "analysis",
		Name:      "items_total",
		Help:      "Analysis items by outcome.",
	}, []string{"outcome"})

	// AnalysisJobs counts finished analysis jobs by terminal status.
	AnalysisJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hometracker",
		Subsystem: "analysis",
		Name:      "jobs_total",
		Help:      "Analysis jobs by terminal status.",
	}, []string{"status"})
)
