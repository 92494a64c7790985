// Package analyzer implements the static passes the resolution engine runs
// over routine bodies: the private-dependency scanner, the argument
// normalizer and the remote-reference rewriter. All passes are pure tree
// walks; none of them mutates its input.
package analyzer

import (
	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
)

// ScanPrivate reports whether body contains a bare call to any routine in
// the private set. Qualified calls never match: a RemoteCall names its
// target unit explicitly and a private routine is not reachable that way in
// the first place. Forwarding bodies synthesized by the engine contain only
// a single RemoteCall, so they are never re-scanned.
func ScanPrivate(body ast.Expression, private map[registry.Key]bool) bool {
	if len(private) == 0 {
		return false
	}
	found := false
	ast.Walk(body, func(e ast.Expression) bool {
		call, ok := e.(*ast.CallExpression)
		if !ok {
			return true
		}
		if private[registry.Key{Name: call.Function.Value, Arity: call.Arity()}] {
			found = true
			return false
		}
		return true
	})
	return found
}
