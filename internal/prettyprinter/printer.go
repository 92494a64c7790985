// Package prettyprinter renders body trees back to readable surface
// syntax. The inspector command and test failure messages use it; nothing
// in the resolution pass depends on the rendered form.
package prettyprinter

import (
	"fmt"
	"strings"

	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
)

// Printer renders AST nodes via the visitor interface.
type Printer struct {
	sb strings.Builder
}

// Print renders a single expression.
func Print(expr ast.Expression) string {
	if expr == nil {
		return ""
	}
	p := &Printer{}
	expr.Accept(p)
	return p.sb.String()
}

// PrintPattern renders a parameter pattern.
func PrintPattern(pat ast.Pattern) string {
	p := &Printer{}
	pat.Accept(p)
	return p.sb.String()
}

// PrintParams renders a parameter list, parenthesized.
func PrintParams(params []*ast.Parameter) string {
	parts := make([]string, len(params))
	for i, prm := range params {
		switch {
		case prm.IsSimple() && prm.Default != nil:
			parts[i] = prm.Name.Value + " = " + Print(prm.Default)
		case prm.IsSimple():
			parts[i] = prm.Name.Value
		default:
			parts[i] = PrintPattern(prm.Pattern)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// PrintRoutine renders a full routine signature with guards and body.
func PrintRoutine(key registry.Key, rec *registry.Record) string {
	var sb strings.Builder
	sb.WriteString("fun ")
	sb.WriteString(key.Name)
	sb.WriteString(PrintParams(rec.Params))
	for _, g := range rec.Guards {
		sb.WriteString(" if ")
		sb.WriteString(Print(g))
	}
	sb.WriteString(" { ")
	sb.WriteString(Print(rec.Body))
	sb.WriteString(" }")
	return sb.String()
}

func (p *Printer) emit(e ast.Expression) {
	if e == nil {
		p.sb.WriteString("nil")
		return
	}
	e.Accept(p)
}

func (p *Printer) emitList(exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.emit(e)
	}
}

func (p *Printer) VisitIdentifier(n *ast.Identifier) { p.sb.WriteString(n.Value) }

func (p *Printer) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	fmt.Fprintf(&p.sb, "%d", n.Value)
}

func (p *Printer) VisitStringLiteral(n *ast.StringLiteral) {
	fmt.Fprintf(&p.sb, "%q", n.Value)
}

func (p *Printer) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	fmt.Fprintf(&p.sb, "%t", n.Value)
}

func (p *Printer) VisitNilLiteral(*ast.NilLiteral) { p.sb.WriteString("nil") }

func (p *Printer) VisitTupleLiteral(n *ast.TupleLiteral) {
	p.sb.WriteString("(")
	p.emitList(n.Elements)
	p.sb.WriteString(")")
}

func (p *Printer) VisitCallExpression(n *ast.CallExpression) {
	p.sb.WriteString(n.Function.Value)
	p.sb.WriteString("(")
	p.emitList(n.Arguments)
	p.sb.WriteString(")")
}

func (p *Printer) VisitBaseCall(n *ast.BaseCall) {
	p.sb.WriteString("base.")
	p.sb.WriteString(n.Name)
	p.sb.WriteString("(")
	p.emitList(n.Arguments)
	p.sb.WriteString(")")
}

func (p *Printer) VisitRemoteCall(n *ast.RemoteCall) {
	p.sb.WriteString(n.Unit)
	p.sb.WriteString("::")
	p.sb.WriteString(n.Name)
	p.sb.WriteString("(")
	p.emitList(n.Arguments)
	p.sb.WriteString(")")
}

func (p *Printer) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.sb.WriteString("(")
	p.sb.WriteString(n.Operator)
	p.emit(n.Right)
	p.sb.WriteString(")")
}

func (p *Printer) VisitInfixExpression(n *ast.InfixExpression) {
	p.sb.WriteString("(")
	p.emit(n.Left)
	p.sb.WriteString(" ")
	p.sb.WriteString(n.Operator)
	p.sb.WriteString(" ")
	p.emit(n.Right)
	p.sb.WriteString(")")
}

func (p *Printer) VisitIfExpression(n *ast.IfExpression) {
	p.sb.WriteString("if ")
	p.emit(n.Condition)
	p.sb.WriteString(" { ")
	p.emit(n.Consequence)
	p.sb.WriteString(" }")
	if n.Alternative != nil {
		p.sb.WriteString(" else { ")
		p.emit(n.Alternative)
		p.sb.WriteString(" }")
	}
}

func (p *Printer) VisitWildcardPattern(*ast.WildcardPattern) { p.sb.WriteString("_") }

func (p *Printer) VisitIdentifierPattern(n *ast.IdentifierPattern) {
	p.sb.WriteString(n.Name.Value)
}

func (p *Printer) VisitTuplePattern(n *ast.TuplePattern) {
	p.sb.WriteString("(")
	for i, el := range n.Elements {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		el.Accept(p)
	}
	p.sb.WriteString(")")
}
