package krb5types

import "time"

// KerberosTime is a point in time expressed as milliseconds since the
// Unix epoch, with Infinity standing in for "no expiration" the way
// RFC 4120's KerberosTime (GeneralizedTime) implementations commonly
// treat year-9999 timestamps.
type KerberosTime int64

// Infinity represents an unbounded time value, used for till/renew-till
// fields that should never expire.
const Infinity KerberosTime = 1<<63 - 1

// FromTime converts a time.Time to a KerberosTime.
func FromTime(t time.Time) KerberosTime {
	if t.IsZero() {
		return 0
	}
	return KerberosTime(t.UnixMilli())
}

// Time converts a KerberosTime back to a time.Time. Infinity maps to a
// far-future instant, 1<<62 milliseconds after the Unix epoch; callers
// that need to render Infinity should check for it explicitly before
// calling Time.
func (t KerberosTime) Time() time.Time {
	if t == Infinity {
		return time.UnixMilli(1 << 62)
	}
	return time.UnixMilli(int64(t))
}

// Before reports whether t is strictly earlier than other.
func (t KerberosTime) Before(other KerberosTime) bool {
	return t < other
}

// After reports whether t is strictly later than other.
func (t KerberosTime) After(other KerberosTime) bool {
	return t > other
}

// Add returns t plus d, saturating at Infinity instead of overflowing.
func (t KerberosTime) Add(d time.Duration) KerberosTime {
	if t == Infinity {
		return Infinity
	}
	ms := d.Milliseconds()
	if ms > 0 && int64(t) > int64(Infinity)-ms {
		return Infinity
	}
	return t + KerberosTime(ms)
}

// Min returns the earlier of two KerberosTime values, treating
// Infinity as the latest possible value.
func Min(a, b KerberosTime) KerberosTime {
	if a < b {
		return a
	}
	return b
}

// WithinSkew reports whether t and other are within the given clock
// skew tolerance of each other, used for authenticator freshness
// checks (RFC 4120 section 5.5.1) and PA-TGS-REQ body validation.
func WithinSkew(t, other KerberosTime, skew time.Duration) bool {
	diff := int64(t) - int64(other)
	if diff < 0 {
		diff = -diff
	}
	return diff <= skew.Milliseconds()
}
