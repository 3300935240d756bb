// Package screening holds the small pieces of logic the pipeline screens
// apply to result sets: selection sets, threshold filters and summary
// aggregates.
package screening

// Selection is an ordered set of ids.  The zero value is empty and ready to
// use.
type Selection struct {
	ids   []string
	index map[string]int
}

// NewSelection returns a selection holding ids, duplicates dropped.
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add selects id.  It reports whether id was newly added.
func (s *Selection) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

// Remove deselects id.  It reports whether id was present.
func (s *Selection) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
	return true
}

// Toggle flips id and returns whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	return append([]string{}, s.ids...)
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }
