package fts

// LiveEntries reports how many entries the stream has allocated and not
// yet released.
func LiveEntries(s *Stream) int { return s.live }

// PathCap reports the current path buffer size.
func PathCap(s *Stream) int { return s.path.cap() }

// SetLevel overrides the level of an entry.
func SetLevel(e *Entry, level int) { e.level = level }
