package slides

// Selection tracks toggled optional slides in the order they were picked.
type Selection struct {
	keys []string
}

// NewSelection seeds a selection, keeping first occurrences only.
func NewSelection(keys ...string) *Selection {
	s := &Selection{}
	for _, key := range keys {
		if !s.Has(key) {
			s.keys = append(s.keys, key)
		}
	}
	return s
}

// Toggle adds key when absent and removes it otherwise. It reports whether
// key is selected afterwards.
func (s *Selection) Toggle(key string) bool {
	for i, existing := range s.keys {
		if existing == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			return false
		}
	}
	s.keys = append(s.keys, key)
	return true
}

// Has reports whether key is selected.
func (s *Selection) Has(key string) bool {
	for _, existing := range s.keys {
		if existing == key {
			return true
		}
	}
	return false
}

// Keys returns the selected keys in pick order.
func (s *Selection) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of selected keys.
func (s *Selection) Len() int {
	return len(s.keys)
}
