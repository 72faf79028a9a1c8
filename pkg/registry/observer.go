package registry

import "errors"

// Registry error taxonomy. These never map onto a Kerberos error code
// (see pkg/kerberr); they are the registry's own failure domain.
var (
	ErrNotRegistered    = errors.New("registry: not registered")
	ErrAlreadyRegistered = errors.New("registry: already registered")
)

// Observer is notified of every mutating or failing registry
// operation. It is a single interface with a no-op default rather
// than a dynamic proxy wrapper, matching how this KDC keeps
// cross-cutting hooks explicit.
type Observer interface {
	Registered(oid string)
	RegisterFailed(oid string, err error)
	LookedUp(oid string)
	LookupFailed(id string, err error)
}

// NoopObserver discards every notification. It is the Registry's
// default observer.
type NoopObserver struct{}

func (NoopObserver) Registered(string)            {}
func (NoopObserver) RegisterFailed(string, error)  {}
func (NoopObserver) LookedUp(string)               {}
func (NoopObserver) LookupFailed(string, error)    {}
