package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for TGS exchange spans, following OpenTelemetry semantic
// convention style (dotted namespaces) where applicable.
const (
	// ========================================================================
	// Client attributes
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"

	// ========================================================================
	// Kerberos request attributes
	// ========================================================================
	AttrStage       = "krb5.stage"        // TGS state machine stage name
	AttrRealm       = "krb5.realm"        // request realm
	AttrCName       = "krb5.cname"        // client principal name
	AttrSName       = "krb5.sname"        // requested server principal name
	AttrEtype       = "krb5.etype"        // negotiated encryption type
	AttrKeyUsage    = "krb5.key_usage"    // key usage number for a crypto operation
	AttrKdcOptions  = "krb5.kdc_options"  // raw KDC-OPTIONS bitset
	AttrTicketFlags = "krb5.ticket_flags" // ticket flags on the issued ticket
	AttrErrorCode   = "krb5.error_code"   // numeric Kerberos error code

	// ========================================================================
	// Directory / registry attributes
	// ========================================================================
	AttrParentID = "dir.parent_id"
	AttrRdn      = "dir.rdn"
	AttrEntries  = "dir.entries"
	AttrOID      = "registry.oid"
	AttrTier     = "registry.tier"
)

// Span names for TGS stages and supporting operations.
const (
	SpanTGSRequest = "tgs.request"

	SpanStageSelectEtype      = "tgs.select_etype"
	SpanStageExtractApReq     = "tgs.extract_ap_req"
	SpanStageVerifyTgtRealm   = "tgs.verify_tgt_realm"
	SpanStageResolveTicket    = "tgs.resolve_ticket_principal"
	SpanStageVerifyApReq      = "tgs.verify_ap_req"
	SpanStageVerifyChecksum   = "tgs.verify_body_checksum"
	SpanStageResolveServer    = "tgs.resolve_server"
	SpanStageConstructTicket  = "tgs.construct_ticket"
	SpanStageBuildReply       = "tgs.build_reply"

	SpanCursorNext         = "cursor.next"
	SpanCursorPrevious     = "cursor.previous"
	SpanCursorBeforeFirst  = "cursor.before_first"
	SpanCursorGet          = "cursor.get"
	SpanRegistryRegister   = "registry.register"
	SpanRegistryLookup     = "registry.lookup"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// Stage returns an attribute for the current TGS stage name
func Stage(name string) attribute.KeyValue {
	return attribute.String(AttrStage, name)
}

// Realm returns an attribute for a Kerberos realm
func Realm(realm string) attribute.KeyValue {
	return attribute.String(AttrRealm, realm)
}

// CName returns an attribute for a client principal name
func CName(name string) attribute.KeyValue {
	return attribute.String(AttrCName, name)
}

// SName returns an attribute for a server principal name
func SName(name string) attribute.KeyValue {
	return attribute.String(AttrSName, name)
}

// Etype returns an attribute for a negotiated encryption type
func Etype(etype int32) attribute.KeyValue {
	return attribute.Int64(AttrEtype, int64(etype))
}

// KeyUsage returns an attribute for a key usage number
func KeyUsage(usage int) attribute.KeyValue {
	return attribute.Int(AttrKeyUsage, usage)
}

// KdcOptions returns an attribute for the raw KDC-OPTIONS bitset
func KdcOptions(bits uint32) attribute.KeyValue {
	return attribute.Int64(AttrKdcOptions, int64(bits))
}

// TicketFlags returns an attribute for ticket flags
func TicketFlags(bits uint32) attribute.KeyValue {
	return attribute.Int64(AttrTicketFlags, int64(bits))
}

// ErrorCode returns an attribute for a numeric Kerberos error code
func ErrorCode(code int32) attribute.KeyValue {
	return attribute.Int64(AttrErrorCode, int64(code))
}

// ParentID returns an attribute for a parent entry identifier
func ParentID(id string) attribute.KeyValue {
	return attribute.String(AttrParentID, id)
}

// Rdn returns an attribute for a relative distinguished name
func Rdn(rdn string) attribute.KeyValue {
	return attribute.String(AttrRdn, rdn)
}

// Entries returns an attribute for a number of directory entries
func Entries(n int) attribute.KeyValue {
	return attribute.Int(AttrEntries, n)
}

// OID returns an attribute for a schema object identifier
func OID(oid string) attribute.KeyValue {
	return attribute.String(AttrOID, oid)
}

// Tier returns an attribute for a registry tier name
func Tier(tier string) attribute.KeyValue {
	return attribute.String(AttrTier, tier)
}

// StartStageSpan starts a span for one TGS state machine stage.
func StartStageSpan(ctx context.Context, spanName, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{Stage(stage)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, spanName, trace.WithAttributes(allAttrs...))
}

// StartCursorSpan starts a span for a children-cursor operation.
func StartCursorSpan(ctx context.Context, spanName string, parentID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{ParentID(parentID)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, spanName, trace.WithAttributes(allAttrs...))
}

// StartRegistrySpan starts a span for a schema registry operation.
func StartRegistrySpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, spanName, trace.WithAttributes(attrs...))
}
