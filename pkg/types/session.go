package types

// Session is the ordered sequence of entries recorded in one .spool
// file, with Entries[0] always the distinguished session header.
type Session struct {
	Entries []*Entry
}

// NewSession wraps entries as a Session without copying.
func NewSession(entries []*Entry) *Session {
	return &Session{Entries: entries}
}

// Header returns the session header entry (index 0) and its payload,
// or nil, nil if the session is empty or malformed. Callers that need
// to enforce the header's presence should use the Validator instead —
// this accessor is for code that already knows the session is valid.
func (s *Session) Header() (*Entry, *SessionHeader) {
	if len(s.Entries) == 0 {
		return nil, nil
	}
	e := s.Entries[0]
	if e.Type != TagSession || e.Session == nil {
		return nil, nil
	}
	return e, e.Session
}

// ByID returns the first entry with the given id, and whether it was
// found. A duplicate id always resolves to the first match in
// insertion order.
func (s *Session) ByID(id string) (*Entry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// IndexOf returns the index of the first entry with the given id, or
// -1 if none matches.
func (s *Session) IndexOf(id string) int {
	for i, e := range s.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a Session with its own Entries slice (entry pointers
// are shared; mutation operations replace entries rather than editing
// them in place, so this is enough for value-semantics callers).
func (s *Session) Clone() *Session {
	out := make([]*Entry, len(s.Entries))
	copy(out, s.Entries)
	return &Session{Entries: out}
}
