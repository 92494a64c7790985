package ast

import (
	"github.com/funvibe/funherit/internal/token"
)

// Node is the base interface for all body-tree nodes. Bodies stored in a
// unit registry are immutable by convention: passes that change a tree
// (the remote-reference rewriter, base binding) build a new tree and leave
// the original untouched.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Expression is a Node that produces a value.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Pattern is a parameter-position binding form. Simple names bind directly;
// composite patterns are linearized by the argument normalizer before a
// routine can be forwarded.
type Pattern interface {
	Node
	patternNode()
	GetToken() token.Token
}

// Visitor visits every concrete node kind.
type Visitor interface {
	VisitIdentifier(*Identifier)
	VisitIntegerLiteral(*IntegerLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitBooleanLiteral(*BooleanLiteral)
	VisitNilLiteral(*NilLiteral)
	VisitTupleLiteral(*TupleLiteral)
	VisitCallExpression(*CallExpression)
	VisitBaseCall(*BaseCall)
	VisitRemoteCall(*RemoteCall)
	VisitPrefixExpression(*PrefixExpression)
	VisitInfixExpression(*InfixExpression)
	VisitIfExpression(*IfExpression)
	VisitWildcardPattern(*WildcardPattern)
	VisitIdentifierPattern(*IdentifierPattern)
	VisitTuplePattern(*TuplePattern)
}

// Parameter is one declared parameter: either a simple binding name or a
// composite pattern (mutually exclusive), with an optional default value.
// A defaulted parameter makes its routine contribute two arities; the
// normalizer expands that before the registry ever sees the declaration.
type Parameter struct {
	Token   token.Token
	Name    *Identifier // Simple binding: x (nil when Pattern is set)
	Pattern Pattern     // Composite binding: (a, b) (nil when Name is set)
	Default Expression  // Optional default value
}

// IsSimple reports whether the parameter is a plain binding name.
func (p *Parameter) IsSimple() bool { return p != nil && p.Name != nil }

// BindingName returns the simple binding name, or "" for composite patterns.
func (p *Parameter) BindingName() string {
	if p.IsSimple() {
		return p.Name.Value
	}
	return ""
}

// Walk traverses expr depth-first, calling fn for every expression node.
// Traversal stops early when fn returns false. Patterns are not visited:
// the passes that use Walk (private-dependency scan, remote-reference
// collection) only care about call positions, which cannot occur inside a
// pattern.
func Walk(expr Expression, fn func(Expression) bool) bool {
	if expr == nil {
		return true
	}
	if !fn(expr) {
		return false
	}
	switch e := expr.(type) {
	case *TupleLiteral:
		for _, el := range e.Elements {
			if !Walk(el, fn) {
				return false
			}
		}
	case *CallExpression:
		for _, a := range e.Arguments {
			if !Walk(a, fn) {
				return false
			}
		}
	case *BaseCall:
		for _, a := range e.Arguments {
			if !Walk(a, fn) {
				return false
			}
		}
	case *RemoteCall:
		for _, a := range e.Arguments {
			if !Walk(a, fn) {
				return false
			}
		}
	case *PrefixExpression:
		if !Walk(e.Right, fn) {
			return false
		}
	case *InfixExpression:
		if !Walk(e.Left, fn) {
			return false
		}
		if !Walk(e.Right, fn) {
			return false
		}
	case *IfExpression:
		if !Walk(e.Condition, fn) {
			return false
		}
		if !Walk(e.Consequence, fn) {
			return false
		}
		if !Walk(e.Alternative, fn) {
			return false
		}
	}
	return true
}
