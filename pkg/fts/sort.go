package fts

import "slices"

// CompareFunc orders sibling entries. It returns a negative number when a
// sorts before b, a positive number when after, and zero when equal.
type CompareFunc func(a, b *Entry) int

// sort orders the n-entry sibling list starting at head and returns the
// new head. Equal entries keep their enumeration order.
func (s *Stream) sort(head *Entry, n int) *Entry {
	if n > cap(s.array) {
		s.array = make([]*Entry, 0, n+sortSlack)
	}
	a := s.array[:0]
	for p := head; p != nil; p = p.link {
		a = append(a, p)
	}
	slices.SortStableFunc(a, s.compare)
	for i := 0; i < len(a)-1; i++ {
		a[i].link = a[i+1]
	}
	a[len(a)-1].link = nil
	s.array = a
	return a[0]
}
