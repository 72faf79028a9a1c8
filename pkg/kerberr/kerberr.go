// Package kerberr defines the Kerberos error taxonomy the TGS state
// machine produces. Cursor and registry errors, which never map onto a
// wire error code, are defined in pkg/cursor and pkg/registry.
package kerberr

import "fmt"

// Code is an RFC 4120 section 7.5.9 error code, restricted to the
// subset this KDC actually produces.
type Code int32

// Error codes the TGS core can return, numbered as in RFC 4120 and
// cross-checked against github.com/jcmturner/gokrb5/v8/iana/errorcode.
const (
	KDC_ERR_BAD_PVNO            Code = 3
	KDC_ERR_ETYPE_NOSUPP        Code = 14
	KDC_ERR_PADATA_TYPE_NOSUPP  Code = 16
	KDC_ERR_S_PRINCIPAL_UNKNOWN Code = 7
	KDC_ERR_POLICY              Code = 12
	KDC_ERR_BADOPTION           Code = 13
	KDC_ERR_CANNOT_POSTDATE     Code = 10
	KDC_ERR_NEVER_VALID         Code = 11
	KDC_ERR_TRTYPE_NOSUPP       Code = 17
	KRB_AP_ERR_NOT_US           Code = 35
	KRB_AP_ERR_INAPP_CKSUM      Code = 50
	KRB_AP_ERR_MODIFIED         Code = 41
	KRB_AP_ERR_BADMATCH         Code = 36
	KRB_AP_ERR_SKEW             Code = 37
	KRB_AP_ERR_REPEAT           Code = 34
	KRB_AP_ERR_BADADDR          Code = 38
	KRB_AP_ERR_TKT_EXPIRED      Code = 32
	KRB_AP_ERR_TKT_NYV          Code = 33
)

var names = map[Code]string{
	KDC_ERR_BAD_PVNO:            "KDC_ERR_BAD_PVNO",
	KDC_ERR_ETYPE_NOSUPP:        "KDC_ERR_ETYPE_NOSUPP",
	KDC_ERR_PADATA_TYPE_NOSUPP:  "KDC_ERR_PADATA_TYPE_NOSUPP",
	KDC_ERR_S_PRINCIPAL_UNKNOWN: "KDC_ERR_S_PRINCIPAL_UNKNOWN",
	KDC_ERR_POLICY:              "KDC_ERR_POLICY",
	KDC_ERR_BADOPTION:           "KDC_ERR_BADOPTION",
	KDC_ERR_CANNOT_POSTDATE:     "KDC_ERR_CANNOT_POSTDATE",
	KDC_ERR_NEVER_VALID:         "KDC_ERR_NEVER_VALID",
	KDC_ERR_TRTYPE_NOSUPP:       "KDC_ERR_TRTYPE_NOSUPP",
	KRB_AP_ERR_NOT_US:           "KRB_AP_ERR_NOT_US",
	KRB_AP_ERR_INAPP_CKSUM:      "KRB_AP_ERR_INAPP_CKSUM",
	KRB_AP_ERR_MODIFIED:         "KRB_AP_ERR_MODIFIED",
	KRB_AP_ERR_BADMATCH:         "KRB_AP_ERR_BADMATCH",
	KRB_AP_ERR_SKEW:             "KRB_AP_ERR_SKEW",
	KRB_AP_ERR_REPEAT:           "KRB_AP_ERR_REPEAT",
	KRB_AP_ERR_BADADDR:          "KRB_AP_ERR_BADADDR",
	KRB_AP_ERR_TKT_EXPIRED:      "KRB_AP_ERR_TKT_EXPIRED",
	KRB_AP_ERR_TKT_NYV:          "KRB_AP_ERR_TKT_NYV",
}

func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_ERROR(%d)", int32(c))
}

// Error is the sum type every TGS stage returns on failure. It carries
// the RFC 4120 error code plus free-form diagnostic text that never
// crosses the wire.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds a KerberosError for the given code with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a KerberosError that records an underlying collaborator
// failure (codec, store, cursor) that is being translated into a wire
// error code per the propagation policy.
func Wrap(code Code, cause error) *Error {
	if cause == nil {
		return &Error{Code: code}
	}
	return &Error{Code: code, Message: cause.Error()}
}

// Is reports whether err is a *Error carrying the given code, for use
// with errors.Is-style call sites in tests and handlers.
func Is(err error, code Code) bool {
	ke, ok := err.(*Error)
	return ok && ke.Code == code
}
