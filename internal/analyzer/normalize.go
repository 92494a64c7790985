package analyzer

import (
	"fmt"

	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
)

// Normalize produces the canonical parameter list for re-emitting a copied
// routine. Parameter identity is preserved exactly — the copied body still
// references these bindings — but default-value sugar is stripped, because
// arity expansion (ExpandDefaults) has already split the declaration into
// one entry per arity.
func Normalize(params []*ast.Parameter, guards []ast.Expression) []*ast.Parameter {
	out := make([]*ast.Parameter, len(params))
	for i, p := range params {
		c := ast.CloneParameter(p)
		c.Default = nil
		out[i] = c
	}
	return out
}

// ForwardingParams produces the flat parameter list and matching argument
// expressions for a delegated routine. A forwarding call passes a flat
// ordered sequence of values, so composite patterns are linearized into a
// synthetic positional binding for the whole argument. Simple bindings that
// a guard references keep their name, so the re-emitted guards still
// resolve; bindings no guard mentions are renamed positionally.
func ForwardingParams(params []*ast.Parameter, guards []ast.Expression) ([]*ast.Parameter, []ast.Expression) {
	refs := guardRefs(guards)
	outParams := make([]*ast.Parameter, len(params))
	outArgs := make([]ast.Expression, len(params))
	for i, p := range params {
		name := synthName(i)
		if p.IsSimple() && refs[p.Name.Value] {
			name = p.Name.Value
		}
		ident := &ast.Identifier{Token: p.Token, Value: name}
		outParams[i] = &ast.Parameter{Token: p.Token, Name: ident}
		outArgs[i] = &ast.Identifier{Token: p.Token, Value: name}
	}
	return outParams, outArgs
}

func synthName(i int) string { return fmt.Sprintf("a%d", i) }

// guardRefs collects every identifier name referenced by the guard list.
func guardRefs(guards []ast.Expression) map[string]bool {
	refs := make(map[string]bool)
	for _, g := range guards {
		ast.Walk(g, func(e ast.Expression) bool {
			if id, ok := e.(*ast.Identifier); ok {
				refs[id.Value] = true
			}
			return true
		})
	}
	return refs
}

// Expanded is one arity's worth of a declaration after default-value
// expansion.
type Expanded struct {
	Key    registry.Key
	Params []*ast.Parameter
	Guards []ast.Expression
	Body   ast.Expression
}

// ExpandDefaults splits a declaration with defaulted trailing parameters
// into independent per-arity declarations. The full arity keeps the
// declared body and guards. Each reduced arity gets a stub that calls the
// full-arity routine with the omitted defaults filled in; guards stay on
// the full arity only, so an argument list is checked exactly once.
//
// Every returned key must be tracked independently in all registry
// operations: withholding or granting one arity does not touch the other.
func ExpandDefaults(name string, params []*ast.Parameter, guards []ast.Expression, body ast.Expression) []Expanded {
	full := Expanded{
		Key:    registry.Key{Name: name, Arity: len(params)},
		Params: Normalize(params, guards),
		Guards: guards,
		Body:   body,
	}
	out := []Expanded{full}

	// Defaults are only meaningful on a trailing run of parameters.
	firstDefault := len(params)
	for i := len(params) - 1; i >= 0; i-- {
		if params[i].Default == nil {
			break
		}
		firstDefault = i
	}

	for keep := len(params) - 1; keep >= firstDefault; keep-- {
		stubParams := make([]*ast.Parameter, keep)
		args := make([]ast.Expression, 0, len(params))
		for i := 0; i < keep; i++ {
			p := params[i]
			pname := synthName(i)
			if p.IsSimple() {
				pname = p.Name.Value
			}
			ident := &ast.Identifier{Token: p.Token, Value: pname}
			stubParams[i] = &ast.Parameter{Token: p.Token, Name: ident}
			args = append(args, &ast.Identifier{Token: p.Token, Value: pname})
		}
		for i := keep; i < len(params); i++ {
			args = append(args, ast.Clone(params[i].Default))
		}
		out = append(out, Expanded{
			Key:    registry.Key{Name: name, Arity: keep},
			Params: stubParams,
			Body: &ast.CallExpression{
				Token:     body.GetToken(),
				Function:  &ast.Identifier{Token: body.GetToken(), Value: name},
				Arguments: args,
			},
		})
	}
	return out
}
