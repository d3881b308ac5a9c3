package light

import "sync"

// Store owns the fixed table of four light records. It is the single piece
// of mutable shared state in the system. All mutation goes through update,
// which holds the lock for the whole critical section so a manual command
// and a concurrent automatic pass can never interleave into a torn record.
type Store struct {
	mu    sync.Mutex
	table [NumLights]Record
}

// NewStore creates the table with all lights OFF and zero readings.
// Records live for the process lifetime and are mutated in place.
func NewStore() *Store {
	s := &Store{}
	for i := range s.table {
		s.table[i] = Record{ID: i + 1, Relay: StateOff}
	}
	return s
}

// Snapshot returns a copy of the table taken under the lock.
// The copy is a value type, safe to use after the lock is released.
func (s *Store) Snapshot() [NumLights]Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// update runs fn with exclusive access to the table.
func (s *Store) update(fn func(table *[NumLights]Record)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.table)
}
