package player

import "sync"

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// listenerSet is the registration table shared by Handle implementations.
type listenerSet struct {
	mu     sync.Mutex
	nextID ListenerID
	byKind map[EventKind][]listenerEntry
}

func (s *listenerSet) add(kind EventKind, fn Listener) ListenerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byKind == nil {
		s.byKind = make(map[EventKind][]listenerEntry)
	}
	s.nextID++
	s.byKind[kind] = append(s.byKind[kind], listenerEntry{id: s.nextID, fn: fn})
	return s.nextID
}

func (s *listenerSet) remove(kind EventKind, id ListenerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.byKind[kind]
	for i, e := range entries {
		if e.id == id {
			s.byKind[kind] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(s.byKind[kind]) == 0 {
		delete(s.byKind, kind)
	}
}

func (s *listenerSet) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, entries := range s.byKind {
		n += len(entries)
	}
	return n
}

// dispatch calls every listener registered for ev.Kind. The table is
// snapshotted first so listeners can add or remove registrations.
func (s *listenerSet) dispatch(ev Event) {
	s.mu.Lock()
	entries := append([]listenerEntry(nil), s.byKind[ev.Kind]...)
	s.mu.Unlock()

	for _, e := range entries {
		e.fn(ev)
	}
}
