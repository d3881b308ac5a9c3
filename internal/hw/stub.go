//go:build !linux

package hw

import "errors"

// Real is not available on non-Linux platforms. Use the simulator.
type Real struct{}

// NewReal returns an error on non-Linux platforms.
func NewReal(chip string, relayPins, ldrPins [NumChannels]int) (*Real, error) {
	return nil, errors.New("hw: not supported on this platform (requires Linux)")
}

// ReadAmbient is not implemented on non-Linux platforms.
func (r *Real) ReadAmbient(index int) bool {
	return false
}

// SetRelay is not implemented on non-Linux platforms.
func (r *Real) SetRelay(index int, on bool) error {
	return errors.New("hw: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *Real) Close() error {
	return nil
}
