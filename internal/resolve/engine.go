// Package resolve implements the inheritance resolution pass: given a base
// unit's finalized registry and the field updates an extension supplies, it
// computes the extension's starting registry and the ordered list of
// declaration emissions to materialize in it.
//
// Resolution runs exactly once, at the moment a unit declares its base and
// before any of the unit's own declarations are processed. Transitivity
// needs no ancestor walk: the base's registry was itself produced by this
// pass (or is all-native for a root), so it already holds the flattened,
// classified routine set of the whole lineage.
package resolve

import (
	"fmt"

	"github.com/funvibe/funherit/internal/analyzer"
	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
)

// FieldUpdate is one field the extension supplies: it either overrides an
// inherited default in place or appends a new field.
type FieldUpdate struct {
	Name    string
	Default ast.Expression
}

// EmissionKind discriminates the entries of an emission list.
type EmissionKind int

const (
	EmitRoutine EmissionKind = iota
	EmitPreHook
	EmitPostHook
)

// Emission is one instruction for the host declaration facility. Routine
// emissions appear in the base's insertion order; a pre-hook fragment, if
// any, precedes them all and a post-hook fragment follows them all.
type Emission struct {
	Kind EmissionKind

	// Routine emissions.
	Key               registry.Key
	Params            []*ast.Parameter
	Guards            []ast.Expression
	Body              ast.Expression
	OverridePermitted bool

	// Hook emissions. The fragment is opaque: spliced verbatim, never
	// inspected.
	Fragment ast.Expression
}

// Resolve computes the extension registry and emission list for extID
// extending base. The base must be finalized; the compile driver is
// responsible for mapping a violation to the proper diagnostic (missing
// registry vs. still-compiling base).
//
// The returned registry is open: the extension's own declarations are
// applied to it afterwards, and the caller finalizes it when the unit's
// compilation completes.
func Resolve(extID string, base *registry.Registry, fields []FieldUpdate) (*registry.Registry, []Emission, error) {
	if base == nil {
		return nil, nil, fmt.Errorf("resolve %s: no base registry", extID)
	}
	if !base.Finalized() {
		return nil, nil, fmt.Errorf("resolve %s: base %s is not finalized", extID, base.ID())
	}

	ext := registry.New(extID)
	if err := ext.SetBase(base.ID()); err != nil {
		return nil, nil, err
	}

	// Field merge: inherited defaults first, in the base's order; updates
	// override in place or append in the order given.
	for _, name := range base.FieldNames() {
		def, _ := base.FieldDefault(name)
		ext.SetFieldDefault(name, def)
	}
	for _, f := range fields {
		ext.SetFieldDefault(f.Name, f.Default)
	}

	// Dependency carry-forward; grows below as copied bodies are scanned.
	for dep := range base.Dependencies() {
		ext.AddDependency(dep)
	}

	// Withholding is permanent across the whole lineage, so the withheld
	// set travels too: a grandchild resolving against ext must keep
	// filtering the same keys, and a native redeclaration here stays
	// blocked.
	for key := range base.WithheldKeys() {
		ext.Withhold(key)
	}

	var emissions []Emission
	preHook, postHook := base.Hooks()
	if preHook != nil {
		emissions = append(emissions, Emission{Kind: EmitPreHook, Fragment: preHook})
	}

	private := base.PrivateNames()
	for _, key := range base.Keys() {
		if base.IsWithheld(key) {
			continue
		}
		if private[key] {
			// Private routines stay encapsulated in their declaring unit.
			// Routines that call them are delegated below, so the helper
			// remains reachable only through the base.
			continue
		}
		rec, ok := base.Lookup(key)
		if !ok {
			continue
		}
		var out *registry.Record
		if !analyzer.ScanPrivate(rec.Body, private) {
			// Copy: re-emit the identical guards and body. Whatever the
			// body references by explicit qualification must stay
			// resolvable in its new home.
			body := ast.Clone(rec.Body)
			for _, unit := range analyzer.RemoteUnits(body) {
				ext.AddDependency(unit)
			}
			out = &registry.Record{
				Params:            analyzer.Normalize(rec.Params, rec.Guards),
				Guards:            rec.Guards,
				Body:              body,
				Origin:            registry.OriginCopied,
				OverridePermitted: rec.OverridePermitted,
			}
		} else {
			// Delegate: the body touches a private helper that stays
			// encapsulated in the base, so synthesize a forwarder with the
			// same guards and a flat identical-arity parameter list. The
			// forwarding body is a single qualified call; it has no bare
			// calls, so it is never re-scanned.
			params, args := analyzer.ForwardingParams(rec.Params, rec.Guards)
			ext.AddDependency(base.ID())
			out = &registry.Record{
				Params: params,
				Guards: rec.Guards,
				Body: &ast.RemoteCall{
					Unit:      base.ID(),
					Name:      key.Name,
					Arguments: args,
				},
				Origin:            registry.OriginDelegated,
				OverridePermitted: rec.OverridePermitted,
			}
		}
		if d := ext.Declare(rec.Body.GetToken(), key, out); d != nil {
			// Cannot happen: ext starts empty and base keys are unique.
			return nil, nil, fmt.Errorf("resolve %s: %s", extID, d.Error())
		}
		emissions = append(emissions, Emission{
			Kind:              EmitRoutine,
			Key:               key,
			Params:            out.Params,
			Guards:            out.Guards,
			Body:              out.Body,
			OverridePermitted: out.OverridePermitted,
		})
	}

	if postHook != nil {
		emissions = append(emissions, Emission{Kind: EmitPostHook, Fragment: postHook})
	}

	// Cross-cutting setup propagates unchanged to every descendant: the
	// extension re-publishes the same fragments unless it installs its own.
	ext.SetHooks(preHook, postHook)

	return ext, emissions, nil
}
