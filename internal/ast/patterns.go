package ast

import (
	"github.com/funvibe/funherit/internal/token"
)

// WildcardPattern matches anything and binds nothing: _
type WildcardPattern struct {
	Token token.Token
}

func (wp *WildcardPattern) Accept(v Visitor)     { v.VisitWildcardPattern(wp) }
func (wp *WildcardPattern) patternNode()         {}
func (wp *WildcardPattern) TokenLiteral() string { return wp.Token.Lexeme }
func (wp *WildcardPattern) GetToken() token.Token {
	if wp == nil {
		return token.Token{}
	}
	return wp.Token
}

// IdentifierPattern binds the whole argument to a name.
type IdentifierPattern struct {
	Token token.Token
	Name  *Identifier
}

func (ip *IdentifierPattern) Accept(v Visitor)     { v.VisitIdentifierPattern(ip) }
func (ip *IdentifierPattern) patternNode()         {}
func (ip *IdentifierPattern) TokenLiteral() string { return ip.Token.Lexeme }
func (ip *IdentifierPattern) GetToken() token.Token {
	if ip == nil {
		return token.Token{}
	}
	return ip.Token
}

// TuplePattern destructures a tuple argument: (a, b)
type TuplePattern struct {
	Token    token.Token // The '(' token
	Elements []Pattern
}

func (tp *TuplePattern) Accept(v Visitor)     { v.VisitTuplePattern(tp) }
func (tp *TuplePattern) patternNode()         {}
func (tp *TuplePattern) TokenLiteral() string { return tp.Token.Lexeme }
func (tp *TuplePattern) GetToken() token.Token {
	if tp == nil {
		return token.Token{}
	}
	return tp.Token
}

// BoundNames returns every binding name introduced by the pattern, in
// left-to-right order.
func BoundNames(p Pattern) []string {
	switch pt := p.(type) {
	case *IdentifierPattern:
		return []string{pt.Name.Value}
	case *TuplePattern:
		var names []string
		for _, el := range pt.Elements {
			names = append(names, BoundNames(el)...)
		}
		return names
	default:
		return nil
	}
}
