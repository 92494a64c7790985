package units

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/funvibe/funherit/internal/analyzer"
	"github.com/funvibe/funherit/internal/ast"
	"github.com/funvibe/funherit/internal/diagnostics"
	"github.com/funvibe/funherit/internal/emit"
	"github.com/funvibe/funherit/internal/registry"
	"github.com/funvibe/funherit/internal/resolve"
	"github.com/funvibe/funherit/internal/store"
	"github.com/funvibe/funherit/internal/token"
)

// Options configures a build session.
type Options struct {
	// Strict escalates the inert-override warning to a fatal error.
	Strict bool

	// Logger receives progress and warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// SinkFor supplies the emission sink per unit. Defaults to a throwaway
	// recorder per unit, retrievable via Session.Recorder.
	SinkFor func(unitID string) emit.Sink
}

// Session compiles a set of units against a registry store. Units whose
// bases are finalized compile concurrently; an extension never starts
// before its base has published. A failed unit aborts only itself (and
// anything that declared it as a base); siblings keep compiling.
type Session struct {
	id     string
	store  store.Store
	strict bool
	log    *slog.Logger
	sink   func(unitID string) emit.Sink

	mu        sync.Mutex
	diags     map[string][]*diagnostics.DiagnosticError
	failed    map[string]error
	recorders map[string]*emit.Recorder
}

// NewSession creates a build session over the given store.
func NewSession(st store.Store, opts Options) *Session {
	s := &Session{
		id:        uuid.New().String(),
		store:     st,
		strict:    opts.Strict,
		log:       opts.Logger,
		sink:      opts.SinkFor,
		diags:     make(map[string][]*diagnostics.DiagnosticError),
		failed:    make(map[string]error),
		recorders: make(map[string]*emit.Recorder),
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.sink == nil {
		s.sink = func(unitID string) emit.Sink {
			rec := &emit.Recorder{}
			s.mu.Lock()
			s.recorders[unitID] = rec
			s.mu.Unlock()
			return rec
		}
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Diagnostics returns the diagnostics recorded for a unit, warnings
// included, in the order they were produced.
func (s *Session) Diagnostics(unitID string) []*diagnostics.DiagnosticError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diags[unitID]
}

// Err returns the fatal error that aborted a unit's compilation, or nil.
func (s *Session) Err(unitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed[unitID]
}

// Recorder returns the default recording sink for a unit, when no custom
// sink was configured.
func (s *Session) Recorder(unitID string) *emit.Recorder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorders[unitID]
}

// Compile compiles the given units, honoring the base-before-extension
// ordering edge. It returns the joined fatal errors of every failed unit;
// successfully compiled siblings are published regardless.
func (s *Session) Compile(units []*Unit) error {
	pending := make(map[string]*Unit, len(units))
	for _, u := range units {
		pending[u.ID] = u
	}
	s.log.Debug("session start", "session", s.id, "units", len(units))

	for len(pending) > 0 {
		wave := s.readyWave(pending)
		if len(wave) == 0 {
			// No unit can make progress: every remaining base is either
			// missing or part of a cycle within this session. Classify every
			// stalled unit against a snapshot of the whole stalled set, so
			// draining one cycle member does not turn its partner's base
			// into a "missing" base.
			stalled := make(map[string]*Unit, len(pending))
			for id, u := range pending {
				stalled[id] = u
			}
			for _, u := range stalled {
				s.failUnresolvedBase(u, stalled)
				delete(pending, u.ID)
			}
			break
		}
		var wg sync.WaitGroup
		for _, u := range wave {
			delete(pending, u.ID)
			wg.Add(1)
			go func(u *Unit) {
				defer wg.Done()
				s.compileOne(u)
			}(u)
		}
		wg.Wait()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for id, err := range s.failed {
		errs = append(errs, fmt.Errorf("unit %s: %w", id, err))
	}
	return errors.Join(errs...)
}

// readyWave collects the pending units whose base is already published (or
// who have no base). A unit whose base failed in this session is failed
// immediately rather than left to starve.
func (s *Session) readyWave(pending map[string]*Unit) []*Unit {
	var wave []*Unit
	for _, u := range pending {
		if u.Base == "" {
			wave = append(wave, u)
			continue
		}
		if s.Err(u.Base) != nil {
			s.fail(u, diagnostics.NewError(diagnostics.ErrH001, u.firstToken(),
				fmt.Sprintf("base %s failed to compile", u.Base)))
			delete(pending, u.ID)
			continue
		}
		if _, ok := pending[u.Base]; ok {
			continue // base compiles later in this session
		}
		wave = append(wave, u)
	}
	return wave
}

func (s *Session) failUnresolvedBase(u *Unit, pending map[string]*Unit) {
	if _, ok := pending[u.Base]; ok {
		// Forward reference inside a dependency cycle: the base never
		// finalizes, so the private set needed for classification never
		// becomes known.
		s.fail(u, diagnostics.NewError(diagnostics.ErrH002, u.firstToken(),
			fmt.Sprintf("base %s has not finished compiling (dependency cycle?)", u.Base)))
		return
	}
	s.fail(u, diagnostics.NewError(diagnostics.ErrH001, u.firstToken(),
		fmt.Sprintf("base %s is not in the registry store", u.Base)))
}

func (u *Unit) firstToken() token.Token {
	if len(u.Routines) > 0 {
		return u.Routines[0].Token
	}
	return token.Token{}
}

func (s *Session) record(unitID string, d *diagnostics.DiagnosticError) {
	d.File = unitID
	s.mu.Lock()
	s.diags[unitID] = append(s.diags[unitID], d)
	s.mu.Unlock()
}

func (s *Session) fail(u *Unit, d *diagnostics.DiagnosticError) {
	s.record(u.ID, d)
	s.mu.Lock()
	s.failed[u.ID] = d
	s.mu.Unlock()
	s.log.Error("unit failed", "session", s.id, "unit", u.ID, "code", string(d.Code), "err", d.Message)
}

func (s *Session) compileOne(u *Unit) {
	s.log.Debug("compiling unit", "session", s.id, "unit", u.ID, "base", u.Base)
	sink := s.sink(u.ID)

	var reg *registry.Registry
	if u.Base == "" {
		reg = registry.New(u.ID)
		for _, f := range u.Fields {
			reg.SetFieldDefault(f.Name, f.Default)
		}
	} else {
		base, ok, err := s.store.Get(u.Base)
		if err != nil {
			s.fail(u, diagnostics.NewError(diagnostics.ErrH001, u.firstToken(),
				fmt.Sprintf("reading base %s: %v", u.Base, err)))
			return
		}
		if !ok {
			s.failUnresolvedBase(u, nil)
			return
		}
		ext, emissions, err := resolve.Resolve(u.ID, base, u.Fields)
		if err != nil {
			s.fail(u, diagnostics.NewError(diagnostics.ErrH002, u.firstToken(), err.Error()))
			return
		}
		if err := emit.Replay(emissions, sink); err != nil {
			s.fail(u, diagnostics.NewError(diagnostics.ErrH001, u.firstToken(),
				fmt.Sprintf("emission sink: %v", err)))
			return
		}
		reg = ext
	}

	if u.PreHook != nil || u.PostHook != nil {
		pre, post := reg.Hooks()
		if u.PreHook != nil {
			pre = u.PreHook
		}
		if u.PostHook != nil {
			post = u.PostHook
		}
		reg.SetHooks(pre, post)
	}

	if !s.declareRoutines(u, reg, sink) {
		return
	}

	for _, key := range u.Grants {
		if !reg.Grant(key) {
			s.record(u.ID, diagnostics.NewWarning(diagnostics.WarnH011, u.firstToken(),
				fmt.Sprintf("grant names routine %s, which unit %s does not have", key, u.ID)))
			s.log.Warn("grant without target", "session", s.id, "unit", u.ID, "routine", key.String())
		}
	}
	for _, key := range u.Withholds {
		reg.Withhold(key)
	}

	if err := reg.Finalize(); err != nil {
		s.fail(u, diagnostics.NewError(diagnostics.ErrH002, u.firstToken(), err.Error()))
		return
	}
	if err := s.store.Finalize(u.ID, reg); err != nil {
		s.fail(u, diagnostics.NewError(diagnostics.ErrH001, u.firstToken(),
			fmt.Sprintf("publishing registry: %v", err)))
		return
	}
	s.log.Debug("unit finalized", "session", s.id, "unit", u.ID)
}

// declareRoutines replays the unit's own declarations into reg, emitting
// each one that lands. Reports false when the unit must abort.
func (s *Session) declareRoutines(u *Unit, reg *registry.Registry, sink emit.Sink) bool {
	for _, decl := range u.Routines {
		body := decl.Body
		guards := decl.Guards

		if u.Base != "" {
			// Base-qualified calls bind to the concrete base in scope
			// right now; they are never rebound later.
			body = analyzer.BindBase(body, u.Base)
			guards = bindGuards(guards, u.Base)
		} else if hasBaseCall(body) {
			s.fail(u, diagnostics.NewError(diagnostics.ErrH001, decl.Token,
				fmt.Sprintf("routine %s uses a base call but unit %s has no base", decl.Name, u.ID)))
			return false
		}

		var depUnits []string
		body, depUnits = analyzer.QualifyRemote(body, u.Imports)
		for _, dep := range depUnits {
			reg.AddDependency(dep)
		}
		if len(guards) > 0 {
			qualified := make([]ast.Expression, len(guards))
			for i, g := range guards {
				var gdeps []string
				qualified[i], gdeps = analyzer.QualifyRemote(g, u.Imports)
				for _, dep := range gdeps {
					reg.AddDependency(dep)
				}
			}
			guards = qualified
		}

		for _, exp := range analyzer.ExpandDefaults(decl.Name, decl.Params, guards, body) {
			rec := &registry.Record{
				Params:            exp.Params,
				Guards:            exp.Guards,
				Body:              exp.Body,
				Origin:            registry.OriginNative,
				OverridePermitted: decl.Overridable,
			}
			d := reg.Declare(decl.Token, exp.Key, rec)
			if d != nil {
				if !d.IsWarning() {
					s.fail(u, d)
					return false
				}
				if s.strict {
					d.Severity = diagnostics.SeverityError
					s.fail(u, d)
					return false
				}
				s.record(u.ID, d)
				s.log.Warn("inert override", "session", s.id, "unit", u.ID, "routine", exp.Key.String())
				continue // inert: nothing to emit
			}
			if decl.Private {
				reg.MarkPrivate(exp.Key)
			}
			if err := sink.EmitRoutine(exp.Key, exp.Params, exp.Guards, exp.Body, decl.Overridable); err != nil {
				s.fail(u, diagnostics.NewError(diagnostics.ErrH001, decl.Token,
					fmt.Sprintf("emission sink: %v", err)))
				return false
			}
		}
	}
	return true
}

func bindGuards(guards []ast.Expression, baseID string) []ast.Expression {
	if len(guards) == 0 {
		return guards
	}
	out := make([]ast.Expression, len(guards))
	for i, g := range guards {
		out[i] = analyzer.BindBase(g, baseID)
	}
	return out
}

func hasBaseCall(body ast.Expression) bool {
	found := false
	ast.Walk(body, func(e ast.Expression) bool {
		if _, ok := e.(*ast.BaseCall); ok {
			found = true
			return false
		}
		return true
	})
	return found
}
