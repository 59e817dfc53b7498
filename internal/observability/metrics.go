package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Domain metrics. HTTP-level metrics live in the middleware package.
var (
	// ReportsSubmitted counts persisted user reports by resolution and by
	// whether a group was known at submission time.
	ReportsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errpage_reports_submitted_total",
			Help: "User reports persisted through the embed endpoint.",
		},
		[]string{"resolution", "linked"},
	)

	// EmbedRejections counts requests the embed endpoint turned away before
	// reaching the form, by reason.
	EmbedRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errpage_embed_rejections_total",
			Help: "Embed requests rejected by precondition checks.",
		},
		[]string{"reason"},
	)

	// ValidationFailures counts POSTs rejected by form validation.
	ValidationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "errpage_report_validation_failures_total",
			Help: "Report submissions rejected by form validation.",
		},
	)

	// KeyCacheLookups counts project key cache lookups by result (hit|miss).
	KeyCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errpage_key_cache_lookups_total",
			Help: "Project key cache lookups.",
		},
		[]string{"result"},
	)

	// BackfillPending is the number of unlinked reports still inside the
	// backfill window after the last pass.
	BackfillPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "errpage_backfill_pending_reports",
			Help: "Unlinked reports inside the backfill window.",
		},
	)

	// BackfillLinked counts reports linked to a group after submission.
	BackfillLinked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "errpage_backfill_linked_total",
			Help: "Reports linked to their group by the backfiller.",
		},
	)
)

// Rejection reasons.
const (
	ReasonMissingEvent   = "missing_event_id"
	ReasonUnknownKey     = "unknown_key"
	ReasonMissingOrigin  = "missing_origin"
	ReasonOriginDisallow = "origin_not_allowed"
)

func init() {
	prometheus.MustRegister(ReportsSubmitted, EmbedRejections, ValidationFailures, KeyCacheLookups, BackfillLinked, BackfillPending)
}
