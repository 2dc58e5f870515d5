// Package metrics defines and registers the custom Prometheus metrics of the
// engagement ledger. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledger"

// ── Engagement metrics ────────────────────────────────────────────────────────

// PostsCreatedTotal counts created posts.
// Label:
//   - attribution: "attributed" when the author was an ambassador, "orphan" otherwise
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by attribution.",
	},
	[]string{"attribution"},
)

// VotesTotal counts vote toggles.
// Label:
//   - action: "voted", "already-voted", "removed", "not-voted"
var VotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "Total number of vote toggle requests, labelled by outcome.",
	},
	[]string{"action"},
)

// CommentsCreatedTotal counts appended comments.
var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments appended.",
	},
)

// ── Persistence metrics ───────────────────────────────────────────────────────

// PersistenceErrorsTotal counts failed record writes and reads.
// Label:
//   - key: the record key (e.g. "votes")
var PersistenceErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_errors_total",
		Help:      "Total number of record store failures, by record key.",
	},
	[]string{"key"},
)

// RecordsQuarantinedTotal counts stored records dropped at load because they
// were malformed or failed validation.
var RecordsQuarantinedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_quarantined_total",
		Help:      "Total number of stored records dropped at load, by record key.",
	},
	[]string{"key"},
)

// SaveDuration measures a full snapshot flush.
var SaveDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "save_duration_seconds",
		Help:      "Duration of flushing all collections to the record store.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Leaderboard metrics ───────────────────────────────────────────────────────

// LeaderboardCacheTotal counts leaderboard cache lookups.
// Label:
//   - result: "hit" or "miss"
var LeaderboardCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leaderboard_cache_total",
		Help:      "Total number of leaderboard cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
