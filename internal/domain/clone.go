package domain

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := &Session{
		Questions: make([]Question, len(s.Questions)),
		Index:     s.Index,
		Results:   make([]Result, len(s.Results)),
	}
	for i, q := range s.Questions {
		q.Options = append([]string(nil), q.Options...)
		cp.Questions[i] = q
	}
	for i, r := range s.Results {
		if r.ChosenIndex != nil {
			chosen := *r.ChosenIndex
			r.ChosenIndex = &chosen
		}
		cp.Results[i] = r
	}
	return cp
}

// Clone returns a deep copy of the user record. In-memory store
// implementations hand out clones so callers cannot mutate shared state
// outside the store's locking discipline.
func (u *UserRecord) Clone() *UserRecord {
	if u == nil {
		return nil
	}
	cp := *u
	cp.History = append([]HistoryEntry(nil), u.History...)
	cp.CurrentSession = u.CurrentSession.Clone()
	return &cp
}
