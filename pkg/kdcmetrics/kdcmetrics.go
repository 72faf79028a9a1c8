// Package kdcmetrics is the Prometheus-backed metrics collaborator for the
// TGS exchange: stage outcomes, replay cache decisions, children-cursor
// traffic and schema registry mutations. A nil *Metrics disables every
// method at zero cost, the same convention the rest of this KDC's
// collaborators use for an absent observer.
package kdcmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the Prometheus implementation of the TGS metrics collaborator.
// All methods are nil-receiver safe: a nil *Metrics is the zero-overhead,
// metrics-disabled case.
type Metrics struct {
	stageOutcomes     *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec
	replayDecisions   *prometheus.CounterVec
	cursorAdvances    *prometheus.CounterVec
	registryMutations *prometheus.CounterVec
	ticketsIssued     *prometheus.CounterVec
	errorsByCode      *prometheus.CounterVec
}

// New builds a Metrics instance registered against reg. Passing a nil
// registerer is not supported; callers that want metrics disabled should
// keep a nil *Metrics instead of calling New.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		stageOutcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kdc_tgs_stage_outcomes_total",
				Help: "Total TGS pipeline stage completions by stage and outcome",
			},
			[]string{"stage", "outcome"}, // outcome: "ok", "error"
		),
		stageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "kdc_tgs_stage_duration_milliseconds",
				Help: "Duration of each TGS pipeline stage in milliseconds",
				Buckets: []float64{
					0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000,
				},
			},
			[]string{"stage"},
		),
		replayDecisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kdc_replay_cache_decisions_total",
				Help: "Replay cache admission decisions by result",
			},
			[]string{"result"}, // "admitted", "replay"
		),
		cursorAdvances: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kdc_directory_cursor_advances_total",
				Help: "Children cursor advances by direction and result",
			},
			[]string{"direction", "result"}, // direction: "next","previous"; result: "hit","exhausted"
		),
		registryMutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kdc_schema_registry_operations_total",
				Help: "Schema object registry operations by kind and outcome",
			},
			[]string{"kind", "outcome"}, // kind: "register","lookup"
		),
		ticketsIssued: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kdc_tickets_issued_total",
				Help: "Service tickets issued by encryption type",
			},
			[]string{"etype"},
		),
		errorsByCode: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kdc_tgs_errors_total",
				Help: "TGS failures by protocol error code",
			},
			[]string{"code"},
		),
	}
}

// RecordStage records one stage's outcome and wall-clock duration.
func (m *Metrics) RecordStage(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.stageOutcomes.WithLabelValues(stage, outcome).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(float64(d.Microseconds()) / 1000.0)
}

// RecordReplayDecision records whether CheckAndInsert admitted the request
// or flagged a replay.
func (m *Metrics) RecordReplayDecision(admitted bool) {
	if m == nil {
		return
	}
	result := "admitted"
	if !admitted {
		result = "replay"
	}
	m.replayDecisions.WithLabelValues(result).Inc()
}

// RecordCursorAdvance records one Next or Previous call against a
// one-level children cursor.
func (m *Metrics) RecordCursorAdvance(direction string, hit bool) {
	if m == nil {
		return
	}
	result := "hit"
	if !hit {
		result = "exhausted"
	}
	m.cursorAdvances.WithLabelValues(direction, result).Inc()
}

// RecordRegistryOperation records a schema object registry Register or
// Lookup call.
func (m *Metrics) RecordRegistryOperation(kind string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.registryMutations.WithLabelValues(kind, outcome).Inc()
}

// RecordTicketIssued records a successfully constructed service ticket.
func (m *Metrics) RecordTicketIssued(etype int32) {
	if m == nil {
		return
	}
	m.ticketsIssued.WithLabelValues(etypeLabel(etype)).Inc()
}

// RecordError records a TGS failure by its protocol error code name.
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.errorsByCode.WithLabelValues(code).Inc()
}

func etypeLabel(etype int32) string {
	switch etype {
	case 18:
		return "aes256-cts-hmac-sha1-96"
	case 17:
		return "aes128-cts-hmac-sha1-96"
	case 23:
		return "rc4-hmac"
	default:
		return "unknown"
	}
}
