package registry

import (
	"testing"

	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/diagnostics"
	"github.com/funvibe/funherit/internal/token"
)

func record(origin Origin, permitted bool) *Record {
	return &Record{
		Body:              &ast.IntegerLiteral{Value: 1},
		Origin:            origin,
		OverridePermitted: permitted,
	}
}

func mustDeclare(t *testing.T, r *Registry, key Key, rec *Record) {
	t.Helper()
	if d := r.Declare(token.Token{}, key, rec); d != nil {
		t.Fatalf("Declare(%s) failed: %v", key, d)
	}
}

func TestDeclareKeepsInsertionOrder(t *testing.T) {
	r := New("u")
	ks := []Key{{"c", 0}, {"a", 1}, {"b", 2}}
	for _, k := range ks {
		mustDeclare(t, r, k, record(OriginNative, false))
	}
	got := r.Keys()
	for i, k := range ks {
		if got[i] != k {
			t.Fatalf("Keys() = %v, want %v", got, ks)
		}
	}
}

func TestRedeclarationReplacesInPlace(t *testing.T) {
	r := New("u")
	key := Key{"f", 1}
	mustDeclare(t, r, key, record(OriginNative, false))
	mustDeclare(t, r, Key{"g", 0}, record(OriginNative, false))

	replacement := record(OriginNative, true)
	mustDeclare(t, r, key, replacement)

	if got := r.Keys(); got[0] != key {
		t.Errorf("redeclaration moved the key: %v", got)
	}
	rec, _ := r.Lookup(key)
	if rec != replacement {
		t.Errorf("redeclaration did not replace the record")
	}
}

func TestNativeOverInheritedLockedIsInert(t *testing.T) {
	r := New("u")
	key := Key{"g", 0}
	inherited := record(OriginCopied, false)
	mustDeclare(t, r, key, inherited)

	native := record(OriginNative, false)
	d := r.Declare(token.Token{}, key, native)
	if d == nil {
		t.Fatalf("expected an inert-override warning")
	}
	if !d.IsWarning() || d.Code != diagnostics.WarnH010 {
		t.Fatalf("expected warning %s, got %v", diagnostics.WarnH010, d)
	}

	rec, _ := r.Lookup(key)
	if rec != inherited {
		t.Errorf("lookup no longer resolves to the inherited entry")
	}
	if inert, ok := r.Inert(key); !ok || inert != native {
		t.Errorf("inert declaration not retained for tooling")
	}
}

func TestNativeOverInheritedPermittedReplaces(t *testing.T) {
	r := New("u")
	key := Key{"f", 1}
	mustDeclare(t, r, key, record(OriginDelegated, true))

	native := record(OriginNative, false)
	mustDeclare(t, r, key, native)

	rec, _ := r.Lookup(key)
	if rec != native {
		t.Errorf("permitted override did not replace the inherited entry")
	}
}

func TestGrant(t *testing.T) {
	r := New("u")
	key := Key{"f", 1}
	mustDeclare(t, r, key, record(OriginNative, false))

	if !r.Grant(key) {
		t.Fatalf("Grant on an existing key reported false")
	}
	rec, _ := r.Lookup(key)
	if !rec.OverridePermitted {
		t.Errorf("Grant did not set override permission")
	}
	if r.Grant(Key{"missing", 0}) {
		t.Errorf("Grant on a missing key reported true")
	}
}

func TestWithholdRemovesAndBlocks(t *testing.T) {
	r := New("u")
	key := Key{"h", 0}
	mustDeclare(t, r, key, record(OriginNative, false))
	r.Withhold(key)

	if _, ok := r.Lookup(key); ok {
		t.Errorf("withheld key still resolvable")
	}
	if !r.IsWithheld(key) {
		t.Errorf("key not marked withheld")
	}
	for _, k := range r.Keys() {
		if k == key {
			t.Errorf("withheld key still in emission order")
		}
	}

	d := r.Declare(token.Token{}, key, record(OriginNative, false))
	if d == nil || d.IsWarning() || d.Code != diagnostics.ErrH003 {
		t.Errorf("redeclaring a withheld key should fail with %s, got %v", diagnostics.ErrH003, d)
	}
}

func TestSetBaseIsImmutable(t *testing.T) {
	r := New("u")
	if err := r.SetBase("b1"); err != nil {
		t.Fatalf("SetBase: %v", err)
	}
	if err := r.SetBase("b2"); err == nil {
		t.Fatalf("re-parenting was allowed")
	}
}

func TestFieldDefaultsOrder(t *testing.T) {
	r := New("u")
	r.SetFieldDefault("alive", &ast.BooleanLiteral{Value: true})
	r.SetFieldDefault("speed", &ast.IntegerLiteral{Value: 1})
	r.SetFieldDefault("alive", &ast.BooleanLiteral{Value: false}) // override in place

	names := r.FieldNames()
	if len(names) != 2 || names[0] != "alive" || names[1] != "speed" {
		t.Fatalf("FieldNames = %v", names)
	}
	def, _ := r.FieldDefault("alive")
	if b, ok := def.(*ast.BooleanLiteral); !ok || b.Value {
		t.Errorf("override in place did not take, got %v", def)
	}
}

func TestFinalizeLocksRegistry(t *testing.T) {
	r := New("u")
	mustDeclare(t, r, Key{"f", 0}, record(OriginNative, false))
	if err := r.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := r.Finalize(); err == nil {
		t.Errorf("second Finalize succeeded")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("Declare after Finalize did not panic")
		}
	}()
	r.Declare(token.Token{}, Key{"g", 0}, record(OriginNative, false))
}
