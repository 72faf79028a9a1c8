package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation
// and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Kerberos request context
	// ========================================================================
	KeyStage    = "stage"    // TGS state machine stage name
	KeyRealm    = "realm"    // Kerberos realm
	KeyPrincipal = "principal" // client or server principal name
	KeyEtype    = "etype"    // negotiated encryption type
	KeyKeyUsage = "key_usage" // key usage number for a crypto operation

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Numeric Kerberos error code
	KeySource     = "source"      // Data source: registry, principalstore, replaycache
	KeyOperation  = "operation"   // Sub-operation type for complex operations

	// ========================================================================
	// Directory / registry operations
	// ========================================================================
	KeyParentID = "parent_id" // parent entry identifier
	KeyRdn      = "rdn"       // relative distinguished name component
	KeyEntries  = "entries"   // number of entries returned
	KeyOID      = "oid"       // schema object identifier
	KeyTier     = "tier"      // registry tier: bootstrap, overlay

	// ========================================================================
	// Client Identification
	// ========================================================================
	KeyClientIP = "client_ip" // Client IP address
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Stage returns a slog.Attr for the TGS state machine stage name
func Stage(name string) slog.Attr {
	return slog.String(KeyStage, name)
}

// Realm returns a slog.Attr for a Kerberos realm
func Realm(realm string) slog.Attr {
	return slog.String(KeyRealm, realm)
}

// Principal returns a slog.Attr for a principal name
func Principal(name string) slog.Attr {
	return slog.String(KeyPrincipal, name)
}

// Etype returns a slog.Attr for a negotiated encryption type
func Etype(etype int32) slog.Attr {
	return slog.Int64(KeyEtype, int64(etype))
}

// KeyUsageAttr returns a slog.Attr for a key usage number
func KeyUsageAttr(usage int) slog.Attr {
	return slog.Int(KeyKeyUsage, usage)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric Kerberos error code
func ErrorCode(code int32) slog.Attr {
	return slog.Int64(KeyErrorCode, int64(code))
}

// Source returns a slog.Attr for data source
func Source(src string) slog.Attr {
	return slog.String(KeySource, src)
}

// Operation returns a slog.Attr for sub-operation type
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// ParentID returns a slog.Attr for a parent entry identifier
func ParentID(id string) slog.Attr {
	return slog.String(KeyParentID, id)
}

// Rdn returns a slog.Attr for a relative distinguished name
func Rdn(rdn string) slog.Attr {
	return slog.String(KeyRdn, rdn)
}

// Entries returns a slog.Attr for a number of entries
func Entries(n int) slog.Attr {
	return slog.Int(KeyEntries, n)
}

// OID returns a slog.Attr for a schema object identifier
func OID(oid string) slog.Attr {
	return slog.String(KeyOID, oid)
}

// Tier returns a slog.Attr for a registry tier name
func Tier(tier string) slog.Attr {
	return slog.String(KeyTier, tier)
}

// ClientIP returns a slog.Attr for a client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}
