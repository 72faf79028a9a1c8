package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "kdcd", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = false

	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	err = shutdown(ctx)
	assert.NoError(t, err)

	assert.False(t, IsEnabled())
}

func TestTracerReturnsNoOp(t *testing.T) {
	tracer = nil
	enabled = false

	tr := Tracer()
	require.NotNil(t, tr)
}

func TestStartSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartSpan(ctx, "test.operation")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)

	span.End()
}

func TestSpanFromContext(t *testing.T) {
	ctx := context.Background()

	span := SpanFromContext(ctx)
	require.NotNil(t, span)
}

func TestAddEvent(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		AddEvent(ctx, "test.event")
	})
}

func TestRecordError(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		RecordError(ctx, nil)
	})

	require.NotPanics(t, func() {
		RecordError(ctx, errors.New("test error"))
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Ok, "success")
	})

	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Error, "failed")
	})
}

func TestSetAttributes(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		SetAttributes(ctx, ClientIP("192.168.1.1"))
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	traceID := TraceID(ctx)
	assert.Equal(t, "", traceID)
}

func TestSpanID(t *testing.T) {
	ctx := context.Background()

	spanID := SpanID(ctx)
	assert.Equal(t, "", spanID)
}

func TestAttributeHelpers(t *testing.T) {
	t.Run("ClientIP", func(t *testing.T) {
		attr := ClientIP("192.168.1.100")
		assert.Equal(t, AttrClientIP, string(attr.Key))
		assert.Equal(t, "192.168.1.100", attr.Value.AsString())
	})

	t.Run("ClientAddr", func(t *testing.T) {
		attr := ClientAddr("192.168.1.100:12345")
		assert.Equal(t, AttrClientAddr, string(attr.Key))
		assert.Equal(t, "192.168.1.100:12345", attr.Value.AsString())
	})

	t.Run("Stage", func(t *testing.T) {
		attr := Stage("verifyApReq")
		assert.Equal(t, AttrStage, string(attr.Key))
		assert.Equal(t, "verifyApReq", attr.Value.AsString())
	})

	t.Run("Realm", func(t *testing.T) {
		attr := Realm("EXAMPLE.COM")
		assert.Equal(t, AttrRealm, string(attr.Key))
		assert.Equal(t, "EXAMPLE.COM", attr.Value.AsString())
	})

	t.Run("CName", func(t *testing.T) {
		attr := CName("alice")
		assert.Equal(t, AttrCName, string(attr.Key))
		assert.Equal(t, "alice", attr.Value.AsString())
	})

	t.Run("SName", func(t *testing.T) {
		attr := SName("host/server.example.com")
		assert.Equal(t, AttrSName, string(attr.Key))
		assert.Equal(t, "host/server.example.com", attr.Value.AsString())
	})

	t.Run("Etype", func(t *testing.T) {
		attr := Etype(18)
		assert.Equal(t, AttrEtype, string(attr.Key))
		assert.Equal(t, int64(18), attr.Value.AsInt64())
	})

	t.Run("KeyUsage", func(t *testing.T) {
		attr := KeyUsage(8)
		assert.Equal(t, AttrKeyUsage, string(attr.Key))
		assert.Equal(t, int64(8), attr.Value.AsInt64())
	})

	t.Run("KdcOptions", func(t *testing.T) {
		attr := KdcOptions(0x40800000)
		assert.Equal(t, AttrKdcOptions, string(attr.Key))
		assert.Equal(t, int64(0x40800000), attr.Value.AsInt64())
	})

	t.Run("TicketFlags", func(t *testing.T) {
		attr := TicketFlags(0x40810000)
		assert.Equal(t, AttrTicketFlags, string(attr.Key))
		assert.Equal(t, int64(0x40810000), attr.Value.AsInt64())
	})

	t.Run("ErrorCode", func(t *testing.T) {
		attr := ErrorCode(13)
		assert.Equal(t, AttrErrorCode, string(attr.Key))
		assert.Equal(t, int64(13), attr.Value.AsInt64())
	})

	t.Run("ParentID", func(t *testing.T) {
		attr := ParentID("root-entry")
		assert.Equal(t, AttrParentID, string(attr.Key))
		assert.Equal(t, "root-entry", attr.Value.AsString())
	})

	t.Run("Rdn", func(t *testing.T) {
		attr := Rdn("ou=people")
		assert.Equal(t, AttrRdn, string(attr.Key))
		assert.Equal(t, "ou=people", attr.Value.AsString())
	})

	t.Run("Entries", func(t *testing.T) {
		attr := Entries(3)
		assert.Equal(t, AttrEntries, string(attr.Key))
		assert.Equal(t, int64(3), attr.Value.AsInt64())
	})

	t.Run("OID", func(t *testing.T) {
		attr := OID("2.5.4.3")
		assert.Equal(t, AttrOID, string(attr.Key))
		assert.Equal(t, "2.5.4.3", attr.Value.AsString())
	})

	t.Run("Tier", func(t *testing.T) {
		attr := Tier("bootstrap")
		assert.Equal(t, AttrTier, string(attr.Key))
		assert.Equal(t, "bootstrap", attr.Value.AsString())
	})
}

func TestStartStageSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartStageSpan(ctx, SpanStageVerifyApReq, "verifyApReq")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	newCtx2, span2 := StartStageSpan(ctx, SpanStageConstructTicket, "constructTicket", Etype(18), KeyUsage(2))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}

func TestStartCursorSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartCursorSpan(ctx, SpanCursorNext, "root-entry")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	newCtx2, span2 := StartCursorSpan(ctx, SpanCursorGet, "root-entry", Rdn("ou=people"))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}

func TestStartRegistrySpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartRegistrySpan(ctx, SpanRegistryLookup, OID("2.5.4.3"))
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()
}
