package evaluator

import (
	"errors"
	"testing"

	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
	"github.com/funvibe/funherit/internal/resolve"
	"github.com/funvibe/funherit/internal/token"
)

type mapSource map[string]*registry.Registry

func (m mapSource) Registry(id string) (*registry.Registry, bool) {
	r, ok := m[id]
	return r, ok
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Value: name} }

func intLit(v int64) *ast.IntegerLiteral { return &ast.IntegerLiteral{Value: v} }

func param(name string) *ast.Parameter { return &ast.Parameter{Name: ident(name)} }

func infix(l ast.Expression, op string, r ast.Expression) *ast.InfixExpression {
	return &ast.InfixExpression{Left: l, Operator: op, Right: r}
}

func declare(t *testing.T, r *registry.Registry, name string, params []*ast.Parameter, guards []ast.Expression, body ast.Expression) {
	t.Helper()
	key := registry.Key{Name: name, Arity: len(params)}
	d := r.Declare(token.Token{}, key, &registry.Record{
		Params: params,
		Guards: guards,
		Body:   body,
		Origin: registry.OriginNative,
	})
	if d != nil {
		t.Fatalf("Declare(%s): %v", key, d)
	}
}

func finalize(t *testing.T, r *registry.Registry) {
	t.Helper()
	if err := r.Finalize(); err != nil {
		t.Fatalf("Finalize(%s): %v", r.ID(), err)
	}
}

func mustInt(t *testing.T, obj Object, err error, want int64) {
	t.Helper()
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	i, ok := obj.(*Integer)
	if !ok {
		t.Fatalf("result = %s (%s), want integer", obj.Inspect(), obj.Type())
	}
	if i.Value != want {
		t.Fatalf("result = %d, want %d", i.Value, want)
	}
}

func TestBareCallsDispatchThroughCurrentUnit(t *testing.T) {
	// base: double(x) = scale() * x, scale() = 2
	// ext inherits double by copy and overrides scale() = 3.
	base := registry.New("base")
	if d := base.Declare(token.Token{}, registry.Key{Name: "scale", Arity: 0}, &registry.Record{
		Body: intLit(2), Origin: registry.OriginNative, OverridePermitted: true,
	}); d != nil {
		t.Fatalf("Declare(scale): %v", d)
	}
	declare(t, base, "double", []*ast.Parameter{param("x")}, nil,
		infix(&ast.CallExpression{Function: ident("scale")}, "*", ident("x")))
	finalize(t, base)

	ext, _, err := resolve.Resolve("ext", base, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d := ext.Declare(token.Token{}, registry.Key{Name: "scale", Arity: 0}, &registry.Record{
		Body: intLit(3), Origin: registry.OriginNative, OverridePermitted: true,
	}); d != nil {
		t.Fatalf("override declare: %v", d)
	}
	finalize(t, ext)

	ev := New(mapSource{"base": base, "ext": ext})

	got, err := ev.Call("base", "double", &Integer{Value: 10})
	mustInt(t, got, err, 20)

	// The copied body's bare scale() now sees the override.
	got, err = ev.Call("ext", "double", &Integer{Value: 10})
	mustInt(t, got, err, 30)
}

func TestRemoteCallsAreFixed(t *testing.T) {
	// base.tag() = lib.value(); ext overrides value locally, which must not
	// affect the qualified reference.
	lib := registry.New("lib")
	declare(t, lib, "value", nil, nil, intLit(7))
	finalize(t, lib)

	base := registry.New("base")
	declare(t, base, "tag", nil, nil, &ast.RemoteCall{Unit: "lib", Name: "value"})
	declare(t, base, "value", nil, nil, intLit(1))
	finalize(t, base)

	ev := New(mapSource{"lib": lib, "base": base})
	got, err := ev.Call("base", "tag")
	mustInt(t, got, err, 7)
}

func TestDelegatedRoutineRunsInBase(t *testing.T) {
	// secret() is private in base; observe() calls it, so the extension gets
	// a forwarder. The forwarder must reach the base's secret even though the
	// extension never carries it as private.
	base := registry.New("base")
	declare(t, base, "secret", nil, nil, intLit(41))
	base.MarkPrivate(registry.Key{Name: "secret", Arity: 0})
	declare(t, base, "observe", []*ast.Parameter{param("x")}, nil,
		infix(&ast.CallExpression{Function: ident("secret")}, "+", ident("x")))
	finalize(t, base)

	ext, _, err := resolve.Resolve("ext", base, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	finalize(t, ext)

	ev := New(mapSource{"base": base, "ext": ext})
	got, err := ev.Call("ext", "observe", &Integer{Value: 1})
	mustInt(t, got, err, 42)
}

func TestGuardsRejectArguments(t *testing.T) {
	r := registry.New("u")
	declare(t, r, "pos", []*ast.Parameter{param("x")},
		[]ast.Expression{infix(ident("x"), ">", intLit(0))},
		ident("x"))
	finalize(t, r)

	ev := New(mapSource{"u": r})

	got, err := ev.Call("u", "pos", &Integer{Value: 5})
	mustInt(t, got, err, 5)

	_, err = ev.Call("u", "pos", &Integer{Value: -5})
	var ge *GuardError
	if !errors.As(err, &ge) {
		t.Fatalf("err = %v, want GuardError", err)
	}
	if ge.Unit != "u" || ge.Key.Name != "pos" {
		t.Errorf("GuardError = %+v", ge)
	}
}

func TestMissingRoutineError(t *testing.T) {
	r := registry.New("u")
	finalize(t, r)
	ev := New(mapSource{"u": r})

	_, err := ev.Call("u", "gone")
	var nsr *NoSuchRoutineError
	if !errors.As(err, &nsr) {
		t.Fatalf("err = %v, want NoSuchRoutineError", err)
	}

	if _, err := ev.Call("nowhere", "f"); err == nil {
		t.Fatalf("call on an unknown unit succeeded")
	}
}

func TestTupleDestructuring(t *testing.T) {
	r := registry.New("u")
	declare(t, r, "sum", []*ast.Parameter{{
		Pattern: &ast.TuplePattern{Elements: []ast.Pattern{
			&ast.IdentifierPattern{Name: ident("a")},
			&ast.IdentifierPattern{Name: ident("b")},
		}},
	}}, nil, infix(ident("a"), "+", ident("b")))
	finalize(t, r)

	ev := New(mapSource{"u": r})
	got, err := ev.Call("u", "sum", &Tuple{Elements: []Object{&Integer{Value: 2}, &Integer{Value: 3}}})
	mustInt(t, got, err, 5)

	if _, err := ev.Call("u", "sum", &Integer{Value: 2}); err == nil {
		t.Fatalf("destructuring a non-tuple succeeded")
	}
}

func TestExpressionForms(t *testing.T) {
	r := registry.New("u")
	declare(t, r, "abs", []*ast.Parameter{param("x")}, nil,
		&ast.IfExpression{
			Condition:   infix(ident("x"), "<", intLit(0)),
			Consequence: &ast.PrefixExpression{Operator: "-", Right: ident("x")},
			Alternative: ident("x"),
		})
	declare(t, r, "greet", []*ast.Parameter{param("name")}, nil,
		infix(&ast.StringLiteral{Value: "hello "}, "+", ident("name")))
	finalize(t, r)

	ev := New(mapSource{"u": r})

	got, err := ev.Call("u", "abs", &Integer{Value: -4})
	mustInt(t, got, err, 4)

	obj, err := ev.Call("u", "greet", &String{Value: "kim"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if s, ok := obj.(*String); !ok || s.Value != "hello kim" {
		t.Errorf("greet = %s", obj.Inspect())
	}
}

func TestDivisionByZero(t *testing.T) {
	r := registry.New("u")
	declare(t, r, "ratio", []*ast.Parameter{param("a"), param("b")}, nil,
		infix(ident("a"), "/", ident("b")))
	finalize(t, r)

	ev := New(mapSource{"u": r})
	if _, err := ev.Call("u", "ratio", &Integer{Value: 1}, &Integer{Value: 0}); err == nil {
		t.Fatalf("division by zero succeeded")
	}
}
