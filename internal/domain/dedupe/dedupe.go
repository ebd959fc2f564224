// Package dedupe tracks first-seen keys in insertion order.
package dedupe

// Set records keys once and remembers the order they were first seen in.
// It is not safe for concurrent use; engine passes own their Set.
type Set struct {
	index map[string]int
	keys  []string
}

// New creates a Set sized for about capacity keys.
func New(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{
		index: make(map[string]int, capacity),
		keys:  make([]string, 0, capacity),
	}
}

// Of builds a Set from keys, keeping the first occurrence of each.
func Of(keys ...string) *Set {
	s := New(len(keys))
	for _, k := range keys {
		s.SeenAndRecord(k)
	}
	return s
}

// SeenAndRecord reports whether key was already recorded and records it if not.
func (s *Set) SeenAndRecord(key string) bool {
	if _, ok := s.index[key]; ok {
		return true
	}
	s.index[key] = len(s.keys)
	s.keys = append(s.keys, key)
	return false
}

// Index returns the first-seen position of key.
func (s *Set) Index(key string) (int, bool) {
	i, ok := s.index[key]
	return i, ok
}

// Contains reports whether key was recorded. A nil Set contains nothing.
func (s *Set) Contains(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[key]
	return ok
}

// Keys returns recorded keys in first-seen order.
func (s *Set) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Size returns the number of distinct keys.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}
