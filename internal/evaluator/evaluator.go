// Package evaluator implements a small big-step evaluator over finalized
// unit registries. It exists to give resolved declarations observable
// behavior: a routine call dispatches through a unit identity exactly the
// way the emitted code would, so copy, delegation and override semantics
// can be exercised without a host language attached.
package evaluator

import (
	"fmt"

	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
)

// Source resolves a unit identity to its finalized registry. The store
// package satisfies this; tests may use a plain map.
type Source interface {
	Registry(id string) (*registry.Registry, bool)
}

// NoSuchRoutineError is the runtime-visible face of withholding: a key that
// was never emitted on a unit simply does not exist at the point of use.
type NoSuchRoutineError struct {
	Unit string
	Key  registry.Key
}

func (e *NoSuchRoutineError) Error() string {
	return fmt.Sprintf("no such routine %s on unit %s", e.Key, e.Unit)
}

// GuardError reports an argument list rejected by a routine's guards.
type GuardError struct {
	Unit string
	Key  registry.Key
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("guards of %s on unit %s rejected the arguments", e.Key, e.Unit)
}

type Evaluator struct {
	source Source
}

func New(source Source) *Evaluator {
	return &Evaluator{source: source}
}

// frame is one routine activation: the unit identity bare calls dispatch
// through, plus the parameter bindings.
type frame struct {
	unit string
	env  map[string]Object
}

// Call invokes (name, len(args)) on the given unit identity.
func (e *Evaluator) Call(unitID, name string, args ...Object) (Object, error) {
	key := registry.Key{Name: name, Arity: len(args)}
	reg, ok := e.source.Registry(unitID)
	if !ok {
		return nil, fmt.Errorf("unknown unit %s", unitID)
	}
	rec, ok := reg.Lookup(key)
	if !ok {
		return nil, &NoSuchRoutineError{Unit: unitID, Key: key}
	}

	env := make(map[string]Object, len(args))
	for i, p := range rec.Params {
		if err := bindParam(p, args[i], env); err != nil {
			return nil, fmt.Errorf("%s on %s: %w", key, unitID, err)
		}
	}

	f := &frame{unit: unitID, env: env}
	for _, g := range rec.Guards {
		v, err := e.eval(f, g)
		if err != nil {
			return nil, err
		}
		if !isTruthy(v) {
			return nil, &GuardError{Unit: unitID, Key: key}
		}
	}
	return e.eval(f, rec.Body)
}

func bindParam(p *ast.Parameter, arg Object, env map[string]Object) error {
	if p.IsSimple() {
		env[p.Name.Value] = arg
		return nil
	}
	return bindPattern(p.Pattern, arg, env)
}

func bindPattern(pat ast.Pattern, arg Object, env map[string]Object) error {
	switch pt := pat.(type) {
	case *ast.WildcardPattern:
		return nil
	case *ast.IdentifierPattern:
		env[pt.Name.Value] = arg
		return nil
	case *ast.TuplePattern:
		tup, ok := arg.(*Tuple)
		if !ok {
			return fmt.Errorf("cannot destructure %s as a tuple", arg.Type())
		}
		if len(tup.Elements) != len(pt.Elements) {
			return fmt.Errorf("tuple pattern expects %d elements, got %d", len(pt.Elements), len(tup.Elements))
		}
		for i, el := range pt.Elements {
			if err := bindPattern(el, tup.Elements[i], env); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported pattern %T", pat)
	}
}

func (e *Evaluator) eval(f *frame, expr ast.Expression) (Object, error) {
	switch node := expr.(type) {
	case *ast.Identifier:
		if v, ok := f.env[node.Value]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("unbound identifier %s in unit %s", node.Value, f.unit)
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}, nil
	case *ast.StringLiteral:
		return &String{Value: node.Value}, nil
	case *ast.BooleanLiteral:
		return nativeBool(node.Value), nil
	case *ast.NilLiteral:
		return NIL, nil
	case *ast.TupleLiteral:
		elems := make([]Object, len(node.Elements))
		for i, el := range node.Elements {
			v, err := e.eval(f, el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &Tuple{Elements: elems}, nil
	case *ast.CallExpression:
		// Bare calls dispatch through the identity the body is being
		// evaluated on: a copied body running on an extension sees the
		// extension's routine set, overrides included.
		args, err := e.evalArgs(f, node.Arguments)
		if err != nil {
			return nil, err
		}
		return e.Call(f.unit, node.Function.Value, args...)
	case *ast.RemoteCall:
		// Qualified calls reach the implementation in effect at the named
		// unit, never the caller's.
		args, err := e.evalArgs(f, node.Arguments)
		if err != nil {
			return nil, err
		}
		return e.Call(node.Unit, node.Name, args...)
	case *ast.BaseCall:
		return nil, fmt.Errorf("unbound base call %s in unit %s: body was never compiled", node.Name, f.unit)
	case *ast.PrefixExpression:
		return e.evalPrefix(f, node)
	case *ast.InfixExpression:
		return e.evalInfix(f, node)
	case *ast.IfExpression:
		cond, err := e.eval(f, node.Condition)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return e.eval(f, node.Consequence)
		}
		if node.Alternative != nil {
			return e.eval(f, node.Alternative)
		}
		return NIL, nil
	default:
		return nil, fmt.Errorf("cannot evaluate %T", expr)
	}
}

func (e *Evaluator) evalArgs(f *frame, exprs []ast.Expression) ([]Object, error) {
	args := make([]Object, len(exprs))
	for i, a := range exprs {
		v, err := e.eval(f, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (e *Evaluator) evalPrefix(f *frame, node *ast.PrefixExpression) (Object, error) {
	right, err := e.eval(f, node.Right)
	if err != nil {
		return nil, err
	}
	switch node.Operator {
	case "-":
		i, ok := right.(*Integer)
		if !ok {
			return nil, fmt.Errorf("operator - expects an integer, got %s", right.Type())
		}
		return &Integer{Value: -i.Value}, nil
	case "!":
		return nativeBool(!isTruthy(right)), nil
	default:
		return nil, fmt.Errorf("unknown prefix operator %s", node.Operator)
	}
}

func (e *Evaluator) evalInfix(f *frame, node *ast.InfixExpression) (Object, error) {
	// Short-circuit operators evaluate the right side lazily.
	if node.Operator == "&&" || node.Operator == "||" {
		left, err := e.eval(f, node.Left)
		if err != nil {
			return nil, err
		}
		if node.Operator == "&&" && !isTruthy(left) {
			return FALSE, nil
		}
		if node.Operator == "||" && isTruthy(left) {
			return TRUE, nil
		}
		right, err := e.eval(f, node.Right)
		if err != nil {
			return nil, err
		}
		return nativeBool(isTruthy(right)), nil
	}

	left, err := e.eval(f, node.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(f, node.Right)
	if err != nil {
		return nil, err
	}

	if li, ok := left.(*Integer); ok {
		if ri, ok := right.(*Integer); ok {
			return evalIntegerInfix(node.Operator, li, ri)
		}
	}
	if ls, ok := left.(*String); ok {
		if rs, ok := right.(*String); ok {
			return evalStringInfix(node.Operator, ls, rs)
		}
	}
	switch node.Operator {
	case "==":
		return nativeBool(objectsEqual(left, right)), nil
	case "!=":
		return nativeBool(!objectsEqual(left, right)), nil
	}
	return nil, fmt.Errorf("operator %s not defined on %s and %s", node.Operator, left.Type(), right.Type())
}

func evalIntegerInfix(op string, l, r *Integer) (Object, error) {
	switch op {
	case "+":
		return &Integer{Value: l.Value + r.Value}, nil
	case "-":
		return &Integer{Value: l.Value - r.Value}, nil
	case "*":
		return &Integer{Value: l.Value * r.Value}, nil
	case "/":
		if r.Value == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return &Integer{Value: l.Value / r.Value}, nil
	case "%":
		if r.Value == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return &Integer{Value: l.Value % r.Value}, nil
	case "==":
		return nativeBool(l.Value == r.Value), nil
	case "!=":
		return nativeBool(l.Value != r.Value), nil
	case "<":
		return nativeBool(l.Value < r.Value), nil
	case ">":
		return nativeBool(l.Value > r.Value), nil
	case "<=":
		return nativeBool(l.Value <= r.Value), nil
	case ">=":
		return nativeBool(l.Value >= r.Value), nil
	default:
		return nil, fmt.Errorf("unknown integer operator %s", op)
	}
}

func evalStringInfix(op string, l, r *String) (Object, error) {
	switch op {
	case "+":
		return &String{Value: l.Value + r.Value}, nil
	case "==":
		return nativeBool(l.Value == r.Value), nil
	case "!=":
		return nativeBool(l.Value != r.Value), nil
	default:
		return nil, fmt.Errorf("unknown string operator %s", op)
	}
}

func objectsEqual(a, b Object) bool {
	switch av := a.(type) {
	case *Integer:
		bv, ok := b.(*Integer)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !objectsEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
