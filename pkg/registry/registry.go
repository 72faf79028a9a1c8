// Package registry implements the two-tier, OID-keyed schema object
// registry: a process-wide immutable bootstrap layer overlaid by a
// mutable layer, fronted by a name-to-OID alias table. It stands in
// for the several uniform registries (attribute types, matching
// rules, object classes) an LDAP schema subsystem keeps.
package registry

import (
	"fmt"
	"sync"
)

// SchemaObject is one entry in the registry: a schema object
// identified globally by its OID, reachable by any of its aliases.
type SchemaObject struct {
	OID    string
	Names  []string
	Schema string
}

// Registry is the two-tier OID-keyed store. The bootstrap tier is
// populated once at construction and never mutated afterward; Register
// only ever writes to the overlay. A Registry is safe for concurrent
// use: Register is serialized against itself and against Lookup/List
// via a single-writer, many-reader lock, matching the discipline the
// schema registry's concurrency model requires.
type Registry struct {
	mu        sync.RWMutex
	bootstrap map[string]entry
	overlay   map[string]entry
	aliases   map[string]string // name -> oid, across both tiers
	observer  Observer
}

type entry struct {
	schemaName string
	object     SchemaObject
}

// New builds a Registry whose bootstrap tier is seeded from the given
// objects, each registered under schemaName. Bootstrap seeding is
// assumed internally consistent (no duplicate OIDs or aliases); it is
// not re-validated the way Register validates overlay writes.
func New(schemaName string, bootstrapObjects []SchemaObject) *Registry {
	r := &Registry{
		bootstrap: make(map[string]entry, len(bootstrapObjects)),
		overlay:   make(map[string]entry),
		aliases:   make(map[string]string),
		observer:  NoopObserver{},
	}
	for _, obj := range bootstrapObjects {
		r.bootstrap[obj.OID] = entry{schemaName: schemaName, object: obj}
		r.aliases[obj.OID] = obj.OID
		for _, name := range obj.Names {
			r.aliases[name] = obj.OID
		}
	}
	return r
}

// SetObserver replaces the registry's monitor. A nil observer resets
// it to the no-op default.
func (r *Registry) SetObserver(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o == nil {
		o = NoopObserver{}
	}
	r.observer = o
}

// Register inserts obj into the overlay under schemaName, failing if
// obj.OID already exists in either tier. All of obj.Names become
// aliases resolving to obj.OID.
func (r *Registry) Register(schemaName string, obj SchemaObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.overlay[obj.OID]; exists {
		err := fmt.Errorf("%w: %s", ErrAlreadyRegistered, obj.OID)
		r.observer.RegisterFailed(obj.OID, err)
		return err
	}
	if _, exists := r.bootstrap[obj.OID]; exists {
		err := fmt.Errorf("%w: %s", ErrAlreadyRegistered, obj.OID)
		r.observer.RegisterFailed(obj.OID, err)
		return err
	}

	r.overlay[obj.OID] = entry{schemaName: schemaName, object: obj}
	r.aliases[obj.OID] = obj.OID
	for _, name := range obj.Names {
		r.aliases[name] = obj.OID
	}

	r.observer.Registered(obj.OID)
	return nil
}

// normalize resolves id, which may be an OID or an alias, to a
// canonical OID. Unknown ids are returned unchanged so a
// bootstrap/overlay miss is reported as NotRegistered rather than a
// separate alias-miss error.
func (r *Registry) normalize(id string) string {
	if oid, ok := r.aliases[id]; ok {
		return oid
	}
	return id
}

// Lookup resolves id through the alias table and returns the matching
// SchemaObject, preferring an overlay hit over a bootstrap hit.
func (r *Registry) Lookup(id string) (SchemaObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	oid := r.normalize(id)
	if e, ok := r.overlay[oid]; ok {
		r.observer.LookedUp(oid)
		return e.object, nil
	}
	if e, ok := r.bootstrap[oid]; ok {
		r.observer.LookedUp(oid)
		return e.object, nil
	}

	err := fmt.Errorf("%w: %s", ErrNotRegistered, id)
	r.observer.LookupFailed(id, err)
	return SchemaObject{}, err
}

// Has is the non-throwing form of Lookup.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	oid := r.normalize(id)
	if _, ok := r.overlay[oid]; ok {
		return true
	}
	_, ok := r.bootstrap[oid]
	return ok
}

// GetSchemaName resolves id and returns the schema name it was
// registered under, overlay taking precedence over bootstrap.
func (r *Registry) GetSchemaName(id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	oid := r.normalize(id)
	if e, ok := r.overlay[oid]; ok {
		r.observer.LookedUp(oid)
		return e.schemaName, nil
	}
	if e, ok := r.bootstrap[oid]; ok {
		r.observer.LookedUp(oid)
		return e.schemaName, nil
	}

	err := fmt.Errorf("%w: %s", ErrNotRegistered, id)
	r.observer.LookupFailed(id, err)
	return "", err
}

// List yields the union of overlay and bootstrap contents, exactly
// once per OID. Register's already-registered check guarantees the
// two tiers never collide on an OID, so no further de-duplication is
// needed here.
func (r *Registry) List() []SchemaObject {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SchemaObject, 0, len(r.bootstrap)+len(r.overlay))
	for _, e := range r.bootstrap {
		out = append(out, e.object)
	}
	for _, e := range r.overlay {
		out = append(out, e.object)
	}
	return out
}
