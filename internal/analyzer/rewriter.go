package analyzer

import (
	"sort"

	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
)

// QualifyRemote rewrites every bare call in body that resolves to an
// imported unit into an explicitly qualified RemoteCall, and reports each
// referenced unit identity. The imports table maps name/arity keys to the
// identity of the unit that exports them; bare calls not in the table are
// left alone (they resolve within the declaring unit). The input tree is
// not mutated.
func QualifyRemote(body ast.Expression, imports map[registry.Key]string) (ast.Expression, []string) {
	if len(imports) == 0 {
		return body, nil
	}
	units := make(map[string]bool)
	rewritten := rewrite(body, func(e ast.Expression) ast.Expression {
		call, ok := e.(*ast.CallExpression)
		if !ok {
			return e
		}
		unit, ok := imports[registry.Key{Name: call.Function.Value, Arity: call.Arity()}]
		if !ok {
			return e
		}
		units[unit] = true
		return &ast.RemoteCall{
			Token:     call.Token,
			Unit:      unit,
			Name:      call.Function.Value,
			Arguments: call.Arguments,
		}
	})
	return rewritten, sortedUnits(units)
}

// BindBase rewrites every base-qualified call into a RemoteCall bound to
// the concrete base identity in scope right now. The binding is static: a
// body copied into a descendant later keeps calling this unit, not
// whichever base the descendant happens to have.
func BindBase(body ast.Expression, baseID string) ast.Expression {
	return rewrite(body, func(e ast.Expression) ast.Expression {
		bc, ok := e.(*ast.BaseCall)
		if !ok {
			return e
		}
		return &ast.RemoteCall{
			Token:     bc.Token,
			Unit:      baseID,
			Name:      bc.Name,
			Arguments: bc.Arguments,
		}
	})
}

// RemoteUnits collects the unit identities of every qualified call in body,
// sorted. The engine runs this over each copied body so the extension's
// dependency set covers everything the copy references.
func RemoteUnits(body ast.Expression) []string {
	units := make(map[string]bool)
	ast.Walk(body, func(e ast.Expression) bool {
		if rc, ok := e.(*ast.RemoteCall); ok {
			units[rc.Unit] = true
		}
		return true
	})
	return sortedUnits(units)
}

func sortedUnits(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// rewrite rebuilds expr bottom-up, applying fn to every node. fn receives a
// node whose children are already rewritten and returns its replacement
// (or the node itself).
func rewrite(expr ast.Expression, fn func(ast.Expression) ast.Expression) ast.Expression {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *ast.TupleLiteral:
		c := *e
		c.Elements = rewriteAll(e.Elements, fn)
		return fn(&c)
	case *ast.CallExpression:
		c := *e
		c.Arguments = rewriteAll(e.Arguments, fn)
		return fn(&c)
	case *ast.BaseCall:
		c := *e
		c.Arguments = rewriteAll(e.Arguments, fn)
		return fn(&c)
	case *ast.RemoteCall:
		c := *e
		c.Arguments = rewriteAll(e.Arguments, fn)
		return fn(&c)
	case *ast.PrefixExpression:
		c := *e
		c.Right = rewrite(e.Right, fn)
		return fn(&c)
	case *ast.InfixExpression:
		c := *e
		c.Left = rewrite(e.Left, fn)
		c.Right = rewrite(e.Right, fn)
		return fn(&c)
	case *ast.IfExpression:
		c := *e
		c.Condition = rewrite(e.Condition, fn)
		c.Consequence = rewrite(e.Consequence, fn)
		c.Alternative = rewrite(e.Alternative, fn)
		return fn(&c)
	default:
		return fn(expr)
	}
}

func rewriteAll(exprs []ast.Expression, fn func(ast.Expression) ast.Expression) []ast.Expression {
	if exprs == nil {
		return nil
	}
	out := make([]ast.Expression, len(exprs))
	for i, e := range exprs {
		out[i] = rewrite(e, fn)
	}
	return out
}
