package hw

import "sync"

// Fake is a test double with scripted ambient readings and recorded relay
// commands. Safe for concurrent use so interleaving tests can share it.
type Fake struct {
	mu sync.Mutex

	// dark holds the scripted ambient reading per channel.
	dark [NumChannels]bool

	// relays holds the last commanded state per channel.
	relays [NumChannels]bool

	// SetRelayErr, if set, is returned by every SetRelay call.
	SetRelayErr error

	// Closed tracks whether Close was called.
	Closed bool

	readCalls int
	setCalls  int
}

// NewFake creates a Fake with every channel reading bright.
func NewFake() *Fake {
	return &Fake{}
}

// SetDark scripts the ambient reading for one channel.
func (f *Fake) SetDark(index int, dark bool) {
	f.mu.Lock()
	f.dark[index] = dark
	f.mu.Unlock()
}

// SetAllDark scripts the same ambient reading for every channel.
func (f *Fake) SetAllDark(dark bool) {
	f.mu.Lock()
	for i := range f.dark {
		f.dark[i] = dark
	}
	f.mu.Unlock()
}

// ReadAmbient returns the scripted reading.
func (f *Fake) ReadAmbient(index int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls++
	if index < 0 || index >= NumChannels {
		return false
	}
	return f.dark[index]
}

// SetRelay records the commanded state.
func (f *Fake) SetRelay(index int, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.SetRelayErr != nil {
		return f.SetRelayErr
	}
	if index >= 0 && index < NumChannels {
		f.relays[index] = on
	}
	return nil
}

// Relay reports the last commanded state for the given channel.
func (f *Fake) Relay(index int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.relays[index]
}

// ReadCalls reports how many ambient reads were made.
func (f *Fake) ReadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readCalls
}

// SetCalls reports how many relay commands were issued.
func (f *Fake) SetCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls
}

// Close marks the adapter as closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
