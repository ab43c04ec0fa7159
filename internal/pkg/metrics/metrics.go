// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bisafix"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts successful registrations.
// Label:
//   - role: "client", "artisan" or "admin"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of successful user registrations, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Artisan metrics ───────────────────────────────────────────────────────────

// VerificationSubmissionsTotal counts identity verification submissions.
// Label:
//   - id_type: "national_id", "passport" or "drivers_license"
var VerificationSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_submissions_total",
		Help:      "Total number of identity verification submissions, by document type.",
	},
	[]string{"id_type"},
)

// ── Media metrics ─────────────────────────────────────────────────────────────

// MediaOperationsTotal counts media host calls.
// Labels:
//   - op: "upload" or "delete"
//   - result: "ok" or "error"
var MediaOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_operations_total",
		Help:      "Total number of media host operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// MediaUploadDuration measures single-object upload latency against the media host.
var MediaUploadDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "media_upload_duration_seconds",
		Help:      "Duration of a single media upload to the media host.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the fixed-window rate limiter.",
	},
)

// OrphanQueueDepth reports the number of media objects waiting for deletion
// in each sweeper worker channel.
// Label:
//   - worker: worker index
var OrphanQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "orphan_queue_depth",
		Help:      "Current number of orphaned media objects pending deletion in each sweeper worker channel.",
	},
	[]string{"worker"},
)

// OrphansDroppedTotal counts orphaned objects that could not be queued
// because the worker channel was full.
var OrphansDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphans_dropped_total",
		Help:      "Total number of orphaned media objects dropped because the sweeper queue was full.",
	},
)
