package hw

import (
	"math/rand"
	"sync"
	"time"
)

// Simulator is an Adapter that runs without hardware. Ambient readings are
// uniformly random dark/bright per call; SetRelay only records the
// commanded state.
type Simulator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	relays [NumChannels]bool
}

// NewSimulator creates a simulator seeded from the clock.
func NewSimulator() *Simulator {
	return NewSimulatorSeeded(time.Now().UnixNano())
}

// NewSimulatorSeeded creates a simulator with a fixed seed, for tests.
func NewSimulatorSeeded(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// ReadAmbient returns a random dark/bright result.
func (s *Simulator) ReadAmbient(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(2) == 0
}

// SetRelay records the commanded state.
func (s *Simulator) SetRelay(index int, on bool) error {
	if index < 0 || index >= NumChannels {
		return nil
	}
	s.mu.Lock()
	s.relays[index] = on
	s.mu.Unlock()
	return nil
}

// Relay reports the last commanded state for the given channel.
func (s *Simulator) Relay(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.relays[index]
}

// Close is a no-op.
func (s *Simulator) Close() error {
	return nil
}
