// Package metrics defines the custom Prometheus metrics for the signal
// tracker API. It is the single source of truth for metric names, labels,
// and help strings; HTTP-level request metrics come from the
// echoprometheus middleware and are not declared here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "signaltracker"

// ReadingsIngestedTotal counts accepted reading uploads.
// Label:
//   - result: "created" (new row) or "replayed" (idempotency key matched an
//     earlier upload)
var ReadingsIngestedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "readings_ingested_total",
		Help:      "Total number of reading uploads accepted, by result.",
	},
	[]string{"result"},
)

// IngestDedupTotal counts idempotency fast-path lookups in Redis.
// Label:
//   - result: "hit" (key already seen) or "miss"
var IngestDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_dedup_total",
		Help:      "Total number of idempotency cache checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// AuthzDenialsTotal counts requests rejected by the authorization evaluator.
// Labels:
//   - method: HTTP method of the denied request
//   - path: the route pattern, not the concrete URL
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of requests denied by the authorization evaluator.",
	},
	[]string{"method", "path"},
)

// CascadeDeletesTotal counts rows removed by cascade deletes.
// Label:
//   - resource: "devices" or "readings"
var CascadeDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_deletes_total",
		Help:      "Total number of dependent rows removed by cascade deletes.",
	},
	[]string{"resource"},
)

// AccountLocksTotal counts login attempts rejected because the account was
// locked by repeated failures.
var AccountLocksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_locks_total",
		Help:      "Total number of login attempts rejected due to an active lock.",
	},
)

// IngestQueueDepth tracks the number of batch readings waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var IngestQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ingest_queue_depth",
		Help:      "Current number of readings pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
