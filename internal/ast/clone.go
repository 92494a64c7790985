package ast

// Clone returns a deep copy of expr. Registries hand out records whose
// bodies are shared; any pass that needs to transform a body clones first.
func Clone(expr Expression) Expression {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *Identifier:
		c := *e
		return &c
	case *IntegerLiteral:
		c := *e
		return &c
	case *StringLiteral:
		c := *e
		return &c
	case *BooleanLiteral:
		c := *e
		return &c
	case *NilLiteral:
		c := *e
		return &c
	case *TupleLiteral:
		c := *e
		c.Elements = cloneAll(e.Elements)
		return &c
	case *CallExpression:
		c := *e
		if e.Function != nil {
			f := *e.Function
			c.Function = &f
		}
		c.Arguments = cloneAll(e.Arguments)
		return &c
	case *BaseCall:
		c := *e
		c.Arguments = cloneAll(e.Arguments)
		return &c
	case *RemoteCall:
		c := *e
		c.Arguments = cloneAll(e.Arguments)
		return &c
	case *PrefixExpression:
		c := *e
		c.Right = Clone(e.Right)
		return &c
	case *InfixExpression:
		c := *e
		c.Left = Clone(e.Left)
		c.Right = Clone(e.Right)
		return &c
	case *IfExpression:
		c := *e
		c.Condition = Clone(e.Condition)
		c.Consequence = Clone(e.Consequence)
		c.Alternative = Clone(e.Alternative)
		return &c
	default:
		return expr
	}
}

func cloneAll(exprs []Expression) []Expression {
	if exprs == nil {
		return nil
	}
	out := make([]Expression, len(exprs))
	for i, e := range exprs {
		out[i] = Clone(e)
	}
	return out
}

// ClonePattern returns a deep copy of a pattern.
func ClonePattern(p Pattern) Pattern {
	switch pt := p.(type) {
	case *WildcardPattern:
		c := *pt
		return &c
	case *IdentifierPattern:
		c := *pt
		if pt.Name != nil {
			n := *pt.Name
			c.Name = &n
		}
		return &c
	case *TuplePattern:
		c := *pt
		c.Elements = make([]Pattern, len(pt.Elements))
		for i, el := range pt.Elements {
			c.Elements[i] = ClonePattern(el)
		}
		return &c
	default:
		return p
	}
}

// CloneParameter returns a deep copy of a parameter.
func CloneParameter(p *Parameter) *Parameter {
	if p == nil {
		return nil
	}
	c := *p
	if p.Name != nil {
		n := *p.Name
		c.Name = &n
	}
	if p.Pattern != nil {
		c.Pattern = ClonePattern(p.Pattern)
	}
	if p.Default != nil {
		c.Default = Clone(p.Default)
	}
	return &c
}

// Equal reports structural equality of two expressions. Token positions are
// ignored: a copied body re-emitted in an extension compares equal to the
// base's original.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch ae := a.(type) {
	case *Identifier:
		be, ok := b.(*Identifier)
		return ok && ae.Value == be.Value
	case *IntegerLiteral:
		be, ok := b.(*IntegerLiteral)
		return ok && ae.Value == be.Value
	case *StringLiteral:
		be, ok := b.(*StringLiteral)
		return ok && ae.Value == be.Value
	case *BooleanLiteral:
		be, ok := b.(*BooleanLiteral)
		return ok && ae.Value == be.Value
	case *NilLiteral:
		_, ok := b.(*NilLiteral)
		return ok
	case *TupleLiteral:
		be, ok := b.(*TupleLiteral)
		return ok && equalAll(ae.Elements, be.Elements)
	case *CallExpression:
		be, ok := b.(*CallExpression)
		return ok && ae.Function.Value == be.Function.Value && equalAll(ae.Arguments, be.Arguments)
	case *BaseCall:
		be, ok := b.(*BaseCall)
		return ok && ae.Name == be.Name && equalAll(ae.Arguments, be.Arguments)
	case *RemoteCall:
		be, ok := b.(*RemoteCall)
		return ok && ae.Unit == be.Unit && ae.Name == be.Name && equalAll(ae.Arguments, be.Arguments)
	case *PrefixExpression:
		be, ok := b.(*PrefixExpression)
		return ok && ae.Operator == be.Operator && Equal(ae.Right, be.Right)
	case *InfixExpression:
		be, ok := b.(*InfixExpression)
		return ok && ae.Operator == be.Operator && Equal(ae.Left, be.Left) && Equal(ae.Right, be.Right)
	case *IfExpression:
		be, ok := b.(*IfExpression)
		return ok && Equal(ae.Condition, be.Condition) &&
			Equal(ae.Consequence, be.Consequence) && Equal(ae.Alternative, be.Alternative)
	default:
		return false
	}
}

func equalAll(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// EqualPattern reports structural equality of two patterns.
func EqualPattern(a, b Pattern) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch ap := a.(type) {
	case *WildcardPattern:
		_, ok := b.(*WildcardPattern)
		return ok
	case *IdentifierPattern:
		bp, ok := b.(*IdentifierPattern)
		return ok && ap.Name.Value == bp.Name.Value
	case *TuplePattern:
		bp, ok := b.(*TuplePattern)
		if !ok || len(ap.Elements) != len(bp.Elements) {
			return false
		}
		for i := range ap.Elements {
			if !EqualPattern(ap.Elements[i], bp.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
