package ast

import (
	"github.com/funvibe/funherit/internal/token"
)

// Identifier represents a binding reference, e.g. a parameter name.
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) Accept(v Visitor)     { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// IntegerLiteral represents an integer literal.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) Accept(v Visitor)     { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}

// StringLiteral represents a string, e.g. "hello"
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) Accept(v Visitor)     { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}

// BooleanLiteral represents boolean literals true/false.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) Accept(v Visitor)     { v.VisitBooleanLiteral(b) }
func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Lexeme }
func (b *BooleanLiteral) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// NilLiteral represents the nil literal.
type NilLiteral struct {
	Token token.Token
}

func (n *NilLiteral) Accept(v Visitor)     { v.VisitNilLiteral(n) }
func (n *NilLiteral) expressionNode()      {}
func (n *NilLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *NilLiteral) GetToken() token.Token {
	if n == nil {
		return token.Token{}
	}
	return n.Token
}

// TupleLiteral represents a tuple, e.g. (1, "hello", true)
type TupleLiteral struct {
	Token    token.Token // The '(' token
	Elements []Expression
}

func (tl *TupleLiteral) Accept(v Visitor)     { v.VisitTupleLiteral(tl) }
func (tl *TupleLiteral) expressionNode()      {}
func (tl *TupleLiteral) TokenLiteral() string { return tl.Token.Lexeme }
func (tl *TupleLiteral) GetToken() token.Token {
	if tl == nil {
		return token.Token{}
	}
	return tl.Token
}

// CallExpression represents a bare (unqualified) call: f(a, b).
// The callee is a plain name; resolution happens against the registry of
// whichever unit the enclosing body is evaluated on.
type CallExpression struct {
	Token     token.Token // The '(' token
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) Accept(v Visitor)     { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}

// Arity returns the argument count of the call.
func (ce *CallExpression) Arity() int { return len(ce.Arguments) }

// BaseCall represents a call to the immediate base's version of a routine,
// e.g. base.f(x) in surface syntax. It exists only in freshly declared
// bodies: compiling a unit binds every BaseCall to the concrete base unit
// in scope at that moment, replacing it with a RemoteCall. A BaseCall must
// never survive into a finalized registry.
type BaseCall struct {
	Token     token.Token
	Name      string
	Arguments []Expression
}

func (bc *BaseCall) Accept(v Visitor)     { v.VisitBaseCall(bc) }
func (bc *BaseCall) expressionNode()      {}
func (bc *BaseCall) TokenLiteral() string { return bc.Token.Lexeme }
func (bc *BaseCall) GetToken() token.Token {
	if bc == nil {
		return token.Token{}
	}
	return bc.Token
}

// RemoteCall represents a call qualified with an explicit unit identity:
// unit::f(a, b). The target is fixed at the time the enclosing body was
// compiled; it is never rebound, no matter where the body is re-emitted.
type RemoteCall struct {
	Token     token.Token
	Unit      string // target unit identity
	Name      string
	Arguments []Expression
}

func (rc *RemoteCall) Accept(v Visitor)     { v.VisitRemoteCall(rc) }
func (rc *RemoteCall) expressionNode()      {}
func (rc *RemoteCall) TokenLiteral() string { return rc.Token.Lexeme }
func (rc *RemoteCall) GetToken() token.Token {
	if rc == nil {
		return token.Token{}
	}
	return rc.Token
}

// PrefixExpression represents a prefix operator application, e.g. -x or !b.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Accept(v Visitor)     { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}

// InfixExpression represents a binary operator application, e.g. x + y.
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) Accept(v Visitor)     { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}

// IfExpression represents a conditional expression.
type IfExpression struct {
	Token       token.Token // if
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ife *IfExpression) Accept(v Visitor)     { v.VisitIfExpression(ife) }
func (ife *IfExpression) expressionNode()      {}
func (ife *IfExpression) TokenLiteral() string { return ife.Token.Lexeme }
func (ife *IfExpression) GetToken() token.Token {
	if ife == nil {
		return token.Token{}
	}
	return ife.Token
}
