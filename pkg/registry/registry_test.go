package registry

import (
	"errors"
	"testing"
)

func TestRegistry_RegisterThenLookup(t *testing.T) {
	r := New("attributeTypes", nil)

	obj := SchemaObject{OID: "2.5.4.3", Names: []string{"cn", "commonName"}, Schema: "cn SYNTAX DirectoryString"}
	if err := r.Register("attributeTypes", obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := r.Lookup("2.5.4.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OID != obj.OID {
		t.Fatalf("expected %s, got %s", obj.OID, got.OID)
	}

	name, err := r.GetSchemaName("2.5.4.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "attributeTypes" {
		t.Fatalf("expected attributeTypes, got %s", name)
	}
}

func TestRegistry_LookupByAlias(t *testing.T) {
	r := New("attributeTypes", nil)
	obj := SchemaObject{OID: "2.5.4.3", Names: []string{"cn", "commonName"}}
	if err := r.Register("attributeTypes", obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := r.Lookup("commonName")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OID != "2.5.4.3" {
		t.Fatalf("expected alias to resolve to 2.5.4.3, got %s", got.OID)
	}
}

func TestRegistry_RegisterDuplicateOIDFails(t *testing.T) {
	r := New("attributeTypes", nil)
	obj := SchemaObject{OID: "2.5.4.3", Names: []string{"cn"}}
	if err := r.Register("attributeTypes", obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.Register("attributeTypes", SchemaObject{OID: "2.5.4.3", Names: []string{"other"}})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	if _, lookupErr := r.Lookup("other"); !errors.Is(lookupErr, ErrNotRegistered) {
		t.Fatalf("overlay should be unchanged after failed register, got %v", lookupErr)
	}
}

func TestRegistry_RegisterCollidesWithBootstrapFails(t *testing.T) {
	r := New("attributeTypes", []SchemaObject{{OID: "2.5.4.3", Names: []string{"cn"}}})

	err := r.Register("attributeTypes", SchemaObject{OID: "2.5.4.3", Names: []string{"cn"}})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered against bootstrap, got %v", err)
	}
}

func TestRegistry_OverlayShadowsNothingSinceOIDsAreUnique(t *testing.T) {
	r := New("attributeTypes", []SchemaObject{{OID: "2.5.4.3", Names: []string{"cn"}}})
	if err := r.Register("attributeTypes", SchemaObject{OID: "2.5.4.4", Names: []string{"sn"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := r.List()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries (1 bootstrap + 1 overlay), got %d", len(all))
	}
}

func TestRegistry_LookupMissingFails(t *testing.T) {
	r := New("attributeTypes", nil)
	if _, err := r.Lookup("2.5.4.99"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestRegistry_Has(t *testing.T) {
	r := New("attributeTypes", []SchemaObject{{OID: "2.5.4.3", Names: []string{"cn"}}})
	if !r.Has("cn") {
		t.Fatal("expected Has to resolve bootstrap alias")
	}
	if r.Has("2.5.4.99") {
		t.Fatal("expected Has to be false for unknown OID")
	}
}

type recordingObserver struct {
	registered     []string
	registerFailed []string
	lookedUp       []string
	lookupFailed   []string
}

func (o *recordingObserver) Registered(oid string)             { o.registered = append(o.registered, oid) }
func (o *recordingObserver) RegisterFailed(oid string, _ error) { o.registerFailed = append(o.registerFailed, oid) }
func (o *recordingObserver) LookedUp(oid string)                { o.lookedUp = append(o.lookedUp, oid) }
func (o *recordingObserver) LookupFailed(id string, _ error)    { o.lookupFailed = append(o.lookupFailed, id) }

func TestRegistry_ObserverNotifiedOnEveryOperation(t *testing.T) {
	r := New("attributeTypes", nil)
	obs := &recordingObserver{}
	r.SetObserver(obs)

	obj := SchemaObject{OID: "2.5.4.3", Names: []string{"cn"}}
	if err := r.Register("attributeTypes", obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Lookup("cn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Lookup("2.5.4.99"); err == nil {
		t.Fatal("expected lookup miss")
	}
	if err := r.Register("attributeTypes", obj); err == nil {
		t.Fatal("expected duplicate register to fail")
	}

	if len(obs.registered) != 1 || len(obs.lookedUp) != 1 || len(obs.lookupFailed) != 1 || len(obs.registerFailed) != 1 {
		t.Fatalf("expected one notification per operation kind, got %+v", obs)
	}
}
