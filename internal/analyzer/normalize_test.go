package analyzer

import (
	"testing"

	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
)

func simpleParam(name string) *ast.Parameter {
	return &ast.Parameter{Name: ident(name)}
}

func tupleParam(names ...string) *ast.Parameter {
	pat := &ast.TuplePattern{}
	for _, n := range names {
		pat.Elements = append(pat.Elements, &ast.IdentifierPattern{Name: ident(n)})
	}
	return &ast.Parameter{Pattern: pat}
}

func TestNormalizeStripsDefaultsKeepsIdentity(t *testing.T) {
	params := []*ast.Parameter{
		simpleParam("x"),
		{Name: ident("y"), Default: intLit(10)},
	}
	got := Normalize(params, nil)

	if got[0].Name.Value != "x" || got[1].Name.Value != "y" {
		t.Fatalf("parameter identity not preserved: %v, %v", got[0].Name, got[1].Name)
	}
	if got[1].Default != nil {
		t.Errorf("default-value sugar not stripped")
	}
	// The originals must be untouched.
	if params[1].Default == nil {
		t.Errorf("Normalize mutated its input")
	}
}

func TestForwardingParamsFlattensPatterns(t *testing.T) {
	params := []*ast.Parameter{
		simpleParam("x"),
		tupleParam("a", "b"),
		{Pattern: &ast.WildcardPattern{}},
	}
	fparams, fargs := ForwardingParams(params, nil)

	if len(fparams) != 3 || len(fargs) != 3 {
		t.Fatalf("expected 3 params and 3 args, got %d and %d", len(fparams), len(fargs))
	}
	for i, p := range fparams {
		if !p.IsSimple() {
			t.Errorf("forwarding param %d is not a simple binding", i)
		}
		arg, ok := fargs[i].(*ast.Identifier)
		if !ok || arg.Value != p.Name.Value {
			t.Errorf("forwarding arg %d does not reference its param binding", i)
		}
	}
}

func TestForwardingParamsKeepsGuardReferencedNames(t *testing.T) {
	params := []*ast.Parameter{simpleParam("x"), simpleParam("unused")}
	guards := []ast.Expression{
		&ast.InfixExpression{Left: ident("x"), Operator: ">", Right: intLit(0)},
	}
	fparams, _ := ForwardingParams(params, guards)

	if fparams[0].Name.Value != "x" {
		t.Errorf("guard-referenced binding renamed to %s", fparams[0].Name.Value)
	}
	if fparams[1].Name.Value == "unused" {
		t.Errorf("binding no guard references kept its name")
	}
}

func TestExpandDefaultsContributesTwoArities(t *testing.T) {
	// fun pad(x, y = 10) { x + y }
	params := []*ast.Parameter{
		simpleParam("x"),
		{Name: ident("y"), Default: intLit(10)},
	}
	body := &ast.InfixExpression{Left: ident("x"), Operator: "+", Right: ident("y")}

	expanded := ExpandDefaults("pad", params, nil, body)
	if len(expanded) != 2 {
		t.Fatalf("expected 2 arities, got %d", len(expanded))
	}

	full, stub := expanded[0], expanded[1]
	if full.Key != (registry.Key{Name: "pad", Arity: 2}) {
		t.Errorf("full arity key = %s", full.Key)
	}
	if stub.Key != (registry.Key{Name: "pad", Arity: 1}) {
		t.Errorf("reduced arity key = %s", stub.Key)
	}
	if !ast.Equal(full.Body, body) {
		t.Errorf("full arity body changed")
	}

	fwd, ok := stub.Body.(*ast.CallExpression)
	if !ok || fwd.Function.Value != "pad" || len(fwd.Arguments) != 2 {
		t.Fatalf("reduced arity body is not a 2-argument self call: %T", stub.Body)
	}
	if !ast.Equal(fwd.Arguments[1], intLit(10)) {
		t.Errorf("default value not filled into the forwarding self call")
	}
}

func TestExpandDefaultsTrailingRun(t *testing.T) {
	// fun f(a, b = 1, c = 2) — three arities: 3, 2, 1.
	params := []*ast.Parameter{
		simpleParam("a"),
		{Name: ident("b"), Default: intLit(1)},
		{Name: ident("c"), Default: intLit(2)},
	}
	expanded := ExpandDefaults("f", params, nil, ident("a"))

	arities := map[int]bool{}
	for _, e := range expanded {
		arities[e.Key.Arity] = true
	}
	for _, want := range []int{3, 2, 1} {
		if !arities[want] {
			t.Errorf("missing arity %d (got %v)", want, arities)
		}
	}
}

func TestExpandDefaultsNoDefaults(t *testing.T) {
	expanded := ExpandDefaults("f", []*ast.Parameter{simpleParam("x")}, nil, ident("x"))
	if len(expanded) != 1 {
		t.Fatalf("expected a single arity, got %d", len(expanded))
	}
}
