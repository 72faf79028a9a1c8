package kdcmetrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordStage(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordStage("verify-ap-req", 2*time.Millisecond, nil)
	m.RecordStage("verify-ap-req", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.stageOutcomes.WithLabelValues("verify-ap-req", "ok")); got != 1 {
		t.Fatalf("expected 1 ok outcome, got %v", got)
	}
	if got := testutil.ToFloat64(m.stageOutcomes.WithLabelValues("verify-ap-req", "error")); got != 1 {
		t.Fatalf("expected 1 error outcome, got %v", got)
	}
}

func TestMetrics_RecordReplayDecision(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordReplayDecision(true)
	m.RecordReplayDecision(false)
	m.RecordReplayDecision(false)

	if got := testutil.ToFloat64(m.replayDecisions.WithLabelValues("replay")); got != 2 {
		t.Fatalf("expected 2 replay decisions, got %v", got)
	}
}

func TestMetrics_NilIsZeroOverhead(t *testing.T) {
	var m *Metrics

	m.RecordStage("configure", time.Microsecond, nil)
	m.RecordReplayDecision(true)
	m.RecordCursorAdvance("next", true)
	m.RecordRegistryOperation("lookup", nil)
	m.RecordTicketIssued(18)
	m.RecordError("KDC_ERR_POLICY")
}

func TestMetrics_RecordTicketIssued_UnknownEtype(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordTicketIssued(9999)

	if got := testutil.ToFloat64(m.ticketsIssued.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected unknown etype to be labeled unknown, got %v", got)
	}
}
