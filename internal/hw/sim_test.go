package hw

import "testing"

func TestSimulatorAmbientVaries(t *testing.T) {
	s := NewSimulatorSeeded(1)

	seenDark, seenBright := false, false
	for i := 0; i < 100; i++ {
		if s.ReadAmbient(0) {
			seenDark = true
		} else {
			seenBright = true
		}
	}
	if !seenDark || !seenBright {
		t.Errorf("100 simulated readings never varied: dark=%v bright=%v", seenDark, seenBright)
	}
}

func TestSimulatorRelayBookkeeping(t *testing.T) {
	s := NewSimulatorSeeded(1)

	if err := s.SetRelay(2, true); err != nil {
		t.Fatalf("SetRelay: %v", err)
	}
	if !s.Relay(2) {
		t.Error("relay 2: want ON")
	}
	if s.Relay(0) {
		t.Error("relay 0: want OFF")
	}

	if err := s.SetRelay(2, false); err != nil {
		t.Fatalf("SetRelay: %v", err)
	}
	if s.Relay(2) {
		t.Error("relay 2: want OFF")
	}
}

func TestSimulatorClose(t *testing.T) {
	s := NewSimulator()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
