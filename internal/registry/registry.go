// Package registry implements the per-unit declaration registry: the
// persistent record of a unit's routines, field defaults, visibility and
// propagation rules that the resolution engine reads when another unit
// extends it.
//
// A registry is write-once-then-read-only. All mutation happens while its
// own unit compiles; Finalize flips it to read-only, after which it is safe
// for concurrent readers without locking.
package registry

import (
	"fmt"

	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/diagnostics"
	"github.com/funvibe/funherit/internal/token"
)

// Key identifies a routine inside a unit: name plus arity. A declaration
// with a defaulted parameter contributes two keys, one per arity.
type Key struct {
	Name  string
	Arity int
}

func (k Key) String() string { return fmt.Sprintf("%s/%d", k.Name, k.Arity) }

// Origin records how a routine entered a registry.
type Origin int

const (
	OriginNative    Origin = iota // declared directly in the unit
	OriginCopied                  // body copied verbatim from the base
	OriginDelegated               // forwarding stub invoking the base
)

func (o Origin) String() string {
	switch o {
	case OriginNative:
		return "native"
	case OriginCopied:
		return "copied"
	case OriginDelegated:
		return "delegated"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// Record is one routine's registry entry.
type Record struct {
	Params            []*ast.Parameter
	Guards            []ast.Expression // ordered guard expressions, all must hold
	Body              ast.Expression
	Origin            Origin
	OverridePermitted bool
}

// Registry is one unit's declaration record. The zero value is not usable;
// construct with New.
type Registry struct {
	id   string
	base string // "" marks a root unit

	order    []Key
	routines map[Key]*Record

	// Native declarations accepted at locked keys. They are kept so tooling
	// can report them, but they are never reachable through lookup.
	inert map[Key]*Record

	private  map[Key]bool
	withheld map[Key]bool

	fieldOrder    []string
	fieldDefaults map[string]ast.Expression

	deps map[string]bool

	preHook  ast.Expression // opaque, spliced verbatim, never inspected
	postHook ast.Expression

	finalized bool
}

// New creates an empty registry for the given unit identity.
func New(id string) *Registry {
	return &Registry{
		id:            id,
		routines:      make(map[Key]*Record),
		inert:         make(map[Key]*Record),
		private:       make(map[Key]bool),
		withheld:      make(map[Key]bool),
		fieldDefaults: make(map[string]ast.Expression),
		deps:          make(map[string]bool),
	}
}

// ID returns the unit identity the registry belongs to.
func (r *Registry) ID() string { return r.id }

// Base returns the base unit identity, or "" for a root unit.
func (r *Registry) Base() string { return r.base }

// SetBase records the base identity. A base, once set, is immutable.
func (r *Registry) SetBase(base string) error {
	r.mustBeOpen("SetBase")
	if r.base != "" {
		return fmt.Errorf("unit %s: base already set to %s, re-parenting to %s is not allowed", r.id, r.base, base)
	}
	r.base = base
	return nil
}

// Finalized reports whether the registry has been published and is now
// read-only.
func (r *Registry) Finalized() bool { return r.finalized }

func (r *Registry) mustBeOpen(op string) {
	if r.finalized {
		panic(fmt.Sprintf("registry %s: %s after Finalize", r.id, op))
	}
}

// Declare records a routine under key, replacing any earlier declaration
// for the same key (redeclaration semantics), with one exception: a native
// declaration at a key inherited without override permission is accepted
// but never becomes reachable. In that case Declare stores the record in
// the inert set and returns a warning diagnostic; the inherited entry keeps
// winning every lookup.
//
// Declaring at a key the unit has withheld is rejected: withholding removes
// the key for good.
func (r *Registry) Declare(tok token.Token, key Key, rec *Record) *diagnostics.DiagnosticError {
	r.mustBeOpen("Declare")
	if r.withheld[key] {
		return diagnostics.NewError(diagnostics.ErrH003, tok,
			fmt.Sprintf("routine %s was withheld in unit %s and cannot be redeclared", key, r.id))
	}
	if prev, ok := r.routines[key]; ok {
		if rec.Origin == OriginNative && prev.Origin != OriginNative && !prev.OverridePermitted {
			r.inert[key] = rec
			return diagnostics.NewWarning(diagnostics.WarnH010, tok,
				fmt.Sprintf("routine %s is inherited without override permission; this declaration is accepted but unreachable", key))
		}
		// Replacement keeps the key's original emission position.
		r.routines[key] = rec
		return nil
	}
	r.order = append(r.order, key)
	r.routines[key] = rec
	return nil
}

// Lookup returns the reachable record for key. Inert native declarations
// are invisible here.
func (r *Registry) Lookup(key Key) (*Record, bool) {
	rec, ok := r.routines[key]
	return rec, ok
}

// Inert returns the accepted-but-unreachable native declaration at key, if
// one exists. Used by diagnostics and the inspector only.
func (r *Registry) Inert(key Key) (*Record, bool) {
	rec, ok := r.inert[key]
	return rec, ok
}

// Keys returns every routine key in insertion order. This is the stable
// enumeration order the emission sink receives.
func (r *Registry) Keys() []Key {
	out := make([]Key, len(r.order))
	copy(out, r.order)
	return out
}

// MarkPrivate records key as restricted to this unit. Private keys feed the
// private-dependency scanner and are never propagated.
func (r *Registry) MarkPrivate(key Key) {
	r.mustBeOpen("MarkPrivate")
	r.private[key] = true
}

// IsPrivate reports whether key has restricted visibility in this unit.
func (r *Registry) IsPrivate(key Key) bool { return r.private[key] }

// PrivateNames returns the private key set. The returned map is shared;
// callers must not mutate it.
func (r *Registry) PrivateNames() map[Key]bool { return r.private }

// IsWithheld reports whether key is excluded from propagation.
func (r *Registry) IsWithheld(key Key) bool { return r.withheld[key] }

// WithheldKeys returns the withheld key set. Shared; read-only for callers.
func (r *Registry) WithheldKeys() map[Key]bool { return r.withheld }

// SetFieldDefault records a field default. An existing field keeps its
// position and gets the new default; a new field is appended.
func (r *Registry) SetFieldDefault(name string, def ast.Expression) {
	r.mustBeOpen("SetFieldDefault")
	if _, ok := r.fieldDefaults[name]; !ok {
		r.fieldOrder = append(r.fieldOrder, name)
	}
	r.fieldDefaults[name] = def
}

// FieldNames returns field names in declaration order.
func (r *Registry) FieldNames() []string {
	out := make([]string, len(r.fieldOrder))
	copy(out, r.fieldOrder)
	return out
}

// FieldDefault returns the default expression for a field.
func (r *Registry) FieldDefault(name string) (ast.Expression, bool) {
	def, ok := r.fieldDefaults[name]
	return def, ok
}

// AddDependency records an external unit identity that re-emitted bodies
// reference.
func (r *Registry) AddDependency(unit string) {
	r.mustBeOpen("AddDependency")
	if unit != "" && unit != r.id {
		r.deps[unit] = true
	}
}

// Dependencies returns the dependency set. Shared; read-only for callers.
func (r *Registry) Dependencies() map[string]bool { return r.deps }

// SetHooks records the opaque pre/post fragments spliced around the routine
// emissions of any unit that extends this one. Either may be nil.
func (r *Registry) SetHooks(pre, post ast.Expression) {
	r.mustBeOpen("SetHooks")
	r.preHook = pre
	r.postHook = post
}

// Hooks returns the pre/post splice fragments.
func (r *Registry) Hooks() (pre, post ast.Expression) { return r.preHook, r.postHook }

// Finalize flips the registry to read-only. It verifies that no key is both
// declared and withheld. Finalizing twice is a programming error.
func (r *Registry) Finalize() error {
	if r.finalized {
		return fmt.Errorf("unit %s: registry already finalized", r.id)
	}
	for key := range r.routines {
		if r.withheld[key] {
			return fmt.Errorf("unit %s: routine %s is both declared and withheld", r.id, key)
		}
	}
	r.finalized = true
	return nil
}
