package render

import (
	"slices"
	"sync"
)

// SelectFunc receives the checkbox id of a hit whose selection was toggled.
type SelectFunc func(checkboxID string)

// CollapseState tracks the expanded/collapsed flag of each hit by identifier.
// Hits start expanded.
type CollapseState struct {
	mu        sync.RWMutex
	collapsed map[string]bool
}

// NewCollapseState creates an empty tracker.
func NewCollapseState() *CollapseState {
	return &CollapseState{collapsed: make(map[string]bool)}
}

// Collapsed reports the flag of id.
func (c *CollapseState) Collapsed(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collapsed[id]
}

// Toggle flips the flag of id and returns the new value.
func (c *CollapseState) Toggle(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := !c.collapsed[id]
	if v {
		c.collapsed[id] = true
	} else {
		delete(c.collapsed, id)
	}
	return v
}

// Set forces the flag of id.
func (c *CollapseState) Set(id string, collapsed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if collapsed {
		c.collapsed[id] = true
		return
	}
	delete(c.collapsed, id)
}

// SelectionSet is the set of selected checkbox ids, kept in selection order.
type SelectionSet struct {
	mu    sync.RWMutex
	order []string
}

// NewSelectionSet creates an empty set.
func NewSelectionSet() *SelectionSet { return &SelectionSet{} }

// Toggle adds or removes id and reports whether it is now selected.
func (s *SelectionSet) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
		return false
	}
	s.order = append(s.order, id)
	return true
}

// Selected reports whether id is in the set.
func (s *SelectionSet) Selected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.order, id)
}

// List returns the selected ids in selection order.
func (s *SelectionSet) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Clear empties the set.
func (s *SelectionSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
}
