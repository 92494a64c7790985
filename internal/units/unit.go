// Package units drives the compilation of declaration units: it replays a
// unit's recorded declarations into a fresh registry, runs inheritance
// resolution when the unit names a base, and publishes the finalized
// registry through the store.
package units

import (
	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
	"github.com/funvibe/funherit/internal/resolve"
	"github.com/funvibe/funherit/internal/token"
)

// RoutineDecl is one routine declaration inside a unit, in source order.
type RoutineDecl struct {
	Token  token.Token
	Name   string
	Params []*ast.Parameter
	Guards []ast.Expression
	Body   ast.Expression

	// Private restricts the routine to this unit. Private keys feed the
	// scanner and never propagate.
	Private bool

	// Overridable grants override permission at declaration time. The
	// ledger's Grant can also set it later, before the unit finalizes.
	Overridable bool
}

// Unit is the build-system-facing description of one compilation unit: its
// identity, its optional base, and everything it declares. The driver
// replays this into a registry; the order of the slices is the declaration
// order.
type Unit struct {
	ID   string
	Base string // "" for a root unit

	// Fields are the unit's own field defaults. For an extension they are
	// the new_fields list handed to the resolution engine.
	Fields []resolve.FieldUpdate

	// Imports maps bare routine names to the external unit exporting them.
	// The remote-reference rewriter qualifies matching calls and records
	// the unit as a dependency.
	Imports map[registry.Key]string

	Routines []RoutineDecl

	// Grants and Withholds are applied after all routine declarations,
	// before the registry finalizes.
	Grants    []registry.Key
	Withholds []registry.Key

	// PreHook/PostHook, when set, each replace the corresponding hook
	// inherited from the base; the other slot keeps the inherited fragment.
	// They are opaque fragments spliced around the emissions of any unit
	// extending this one.
	PreHook  ast.Expression
	PostHook ast.Expression
}
