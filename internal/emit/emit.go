// Package emit defines the opaque routine-emission surface: the boundary
// between the resolution engine and the host language's own declaration
// facility. The engine produces an ordered emission list; Replay feeds it
// to whatever sink the build embeds this system into.
package emit

import (
	"fmt"

	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/registry"
	"github.com/funvibe/funherit/internal/resolve"
)

// HookPos says where a hook fragment is spliced relative to the routine
// emissions of a unit.
type HookPos int

const (
	HookBefore HookPos = iota
	HookAfter
)

// Sink receives resolved declarations in emission order. Implementations
// are expected to be cheap and must not retain the parameter or guard
// slices beyond the call.
type Sink interface {
	EmitRoutine(key registry.Key, params []*ast.Parameter, guards []ast.Expression, body ast.Expression, overridePermitted bool) error
	SpliceHook(pos HookPos, fragment ast.Expression) error
}

// Replay sends an emission list to a sink, preserving order.
func Replay(emissions []resolve.Emission, sink Sink) error {
	for _, em := range emissions {
		var err error
		switch em.Kind {
		case resolve.EmitRoutine:
			err = sink.EmitRoutine(em.Key, em.Params, em.Guards, em.Body, em.OverridePermitted)
		case resolve.EmitPreHook:
			err = sink.SpliceHook(HookBefore, em.Fragment)
		case resolve.EmitPostHook:
			err = sink.SpliceHook(HookAfter, em.Fragment)
		default:
			err = fmt.Errorf("emit: unknown emission kind %d", em.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RecordedRoutine is one routine the Recorder saw.
type RecordedRoutine struct {
	Key               registry.Key
	Params            []*ast.Parameter
	Guards            []ast.Expression
	Body              ast.Expression
	OverridePermitted bool
}

// RecordedHook is one hook fragment the Recorder saw.
type RecordedHook struct {
	Pos      HookPos
	Fragment ast.Expression
}

// Recorder is a Sink that remembers everything, in order. Tests and the
// inspector use it in place of a real host facility.
type Recorder struct {
	Routines []RecordedRoutine
	Hooks    []RecordedHook
	order    []string
}

func (r *Recorder) EmitRoutine(key registry.Key, params []*ast.Parameter, guards []ast.Expression, body ast.Expression, overridePermitted bool) error {
	r.Routines = append(r.Routines, RecordedRoutine{
		Key:               key,
		Params:            params,
		Guards:            guards,
		Body:              body,
		OverridePermitted: overridePermitted,
	})
	r.order = append(r.order, key.String())
	return nil
}

func (r *Recorder) SpliceHook(pos HookPos, fragment ast.Expression) error {
	r.Hooks = append(r.Hooks, RecordedHook{Pos: pos, Fragment: fragment})
	if pos == HookBefore {
		r.order = append(r.order, "<pre-hook>")
	} else {
		r.order = append(r.order, "<post-hook>")
	}
	return nil
}

// Order returns a readable trace of everything emitted, in order.
func (r *Recorder) Order() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
