package symbols

import "sync/atomic"

// Table holds the current symbol snapshot. Writers swap in a fully built
// slice, so readers see either the old or the new snapshot, never a mix.
// Snapshots are shared and must not be modified by callers.
type Table struct {
	current atomic.Pointer[[]Symbol]
}

// NewTable returns an empty Table.
func NewTable() *Table {
	t := &Table{}
	t.Replace(nil)
	return t
}

// Replace installs syms as the current snapshot.
func (t *Table) Replace(syms []Symbol) {
	t.current.Store(&syms)
}

// Symbols returns the current snapshot.
func (t *Table) Symbols() []Symbol {
	p := t.current.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Len returns the size of the current snapshot.
func (t *Table) Len() int {
	return len(t.Symbols())
}

// Clear drops every symbol.
func (t *Table) Clear() {
	t.Replace(nil)
}

// Remove drops every symbol called name, whatever its kind, and returns how
// many were removed.
func (t *Table) Remove(name string) int {
	for {
		old := t.current.Load()
		var syms []Symbol
		if old != nil {
			syms = *old
		}

		kept := make([]Symbol, 0, len(syms))
		for _, s := range syms {
			if s.Name != name {
				kept = append(kept, s)
			}
		}
		removed := len(syms) - len(kept)
		if removed == 0 {
			return 0
		}
		if t.current.CompareAndSwap(old, &kept) {
			return removed
		}
	}
}
