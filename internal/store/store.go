// Package store implements the finalize-once registry store: the boundary
// that lets a unit's finalized registry outlive its own compilation and be
// read by later (or concurrent) compilations of other units.
//
// Published entries are immutable. Finalize succeeds exactly once per unit
// identity; Get never observes a partially written registry.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/funvibe/funherit/internal/registry"
)

// ErrAlreadyFinalized is returned on a second Finalize for the same unit.
var ErrAlreadyFinalized = errors.New("store: unit already finalized")

// Store is the registry read/write surface keyed by unit identity.
type Store interface {
	// Get returns the finalized registry for a unit, with ok=false when the
	// unit has never been finalized.
	Get(unitID string) (*registry.Registry, bool, error)

	// Finalize publishes a finalized registry under the unit's identity.
	// Exactly one call per identity may succeed.
	Finalize(unitID string, reg *registry.Registry) error
}

// MemStore keeps registries for the duration of one build process.
type MemStore struct {
	mu   sync.RWMutex
	regs map[string]*registry.Registry
}

func NewMemStore() *MemStore {
	return &MemStore{regs: make(map[string]*registry.Registry)}
}

func (s *MemStore) Get(unitID string) (*registry.Registry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.regs[unitID]
	return reg, ok, nil
}

func (s *MemStore) Finalize(unitID string, reg *registry.Registry) error {
	if !reg.Finalized() {
		return fmt.Errorf("store: registry for %s is not finalized", unitID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.regs[unitID]; ok {
		return ErrAlreadyFinalized
	}
	s.regs[unitID] = reg
	return nil
}

// Registry adapts the store to the evaluator's Source interface.
func (s *MemStore) Registry(id string) (*registry.Registry, bool) {
	reg, ok, _ := s.Get(id)
	return reg, ok
}
