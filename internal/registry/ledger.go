package registry

// The override/withholding ledger. Both calls only have effect while the
// unit is still compiling: permission granted after Finalize would never be
// visible to an extension, so mutation after Finalize panics like every
// other write.

// Grant sets override permission for key so that descendants may replace
// the routine. Reports false if no routine exists at key.
func (r *Registry) Grant(key Key) bool {
	r.mustBeOpen("Grant")
	rec, ok := r.routines[key]
	if !ok {
		return false
	}
	rec.OverridePermitted = true
	return true
}

// Withhold removes key from the routine set entirely and marks it withheld.
// Once withheld at any level, no descendant registry will ever contain the
// key again: the resolution engine filters on the withheld set, and Declare
// rejects re-declarations for the rest of this unit's compilation.
func (r *Registry) Withhold(key Key) {
	r.mustBeOpen("Withhold")
	if _, ok := r.routines[key]; ok {
		delete(r.routines, key)
		for i, k := range r.order {
			if k == key {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	delete(r.inert, key)
	r.withheld[key] = true
}
