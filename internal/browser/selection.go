package browser

import "strings"

// Selection is the set of remote paths marked for download. It keeps
// insertion order so downloads are queued in the order they were picked.
// Membership does not depend on what is currently listed.
type Selection struct {
	order []string
	set   map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{set: make(map[string]struct{})}
}

// Toggle adds p if absent and removes it otherwise. It reports whether p
// is selected afterwards.
func (s *Selection) Toggle(p string) bool {
	if s.Has(p) {
		s.Remove(p)
		return false
	}
	s.set[p] = struct{}{}
	s.order = append(s.order, p)
	return true
}

// Has reports whether p is selected.
func (s *Selection) Has(p string) bool {
	_, ok := s.set[p]
	return ok
}

// Remove unselects p.
func (s *Selection) Remove(p string) {
	if _, ok := s.set[p]; !ok {
		return
	}
	delete(s.set, p)
	for i, q := range s.order {
		if q == p {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len is the number of selected paths.
func (s *Selection) Len() int { return len(s.order) }

// Paths returns the selected paths in the order they were selected.
func (s *Selection) Paths() []string {
	return append([]string(nil), s.order...)
}

// Roots returns Paths without entries already covered by a selected
// ancestor directory, since downloading the ancestor brings them along.
func (s *Selection) Roots() []string {
	var roots []string
	for _, p := range s.order {
		if !s.coveredByAncestor(p) {
			roots = append(roots, p)
		}
	}
	return roots
}

func (s *Selection) coveredByAncestor(p string) bool {
	for q := range s.set {
		if q != p && strings.HasPrefix(p, strings.TrimSuffix(q, "/")+"/") {
			return true
		}
	}
	return false
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.order = nil
	s.set = make(map[string]struct{})
}
