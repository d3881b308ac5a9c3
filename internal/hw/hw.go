// Package hw abstracts the ambient-light sensors and relay outputs.
// The real implementation uses the Linux GPIO character device.
// The simulator runs without hardware; the fake allows scripted tests.
package hw

// NumChannels is the number of light channels the adapter drives.
const NumChannels = 4

// Adapter reads one ambient-light detector and drives one relay per light.
// Implementations recover hardware read errors internally: ReadAmbient
// degrades to a bright (false) reading rather than propagating, so callers
// never crash on a transient sensor fault.
type Adapter interface {
	// ReadAmbient reports whether it is dark at the given light index.
	ReadAmbient(index int) bool

	// SetRelay drives the relay for the given light index to the logical
	// ON/OFF state. Electrical polarity is an implementation detail.
	SetRelay(index int, on bool) error

	// Close releases hardware resources, driving all relays OFF.
	Close() error
}

// Default BCM pin assignments for the 4-channel relay board and LDR inputs.
var (
	DefaultRelayPins = [NumChannels]int{17, 18, 27, 22}
	DefaultLDRPins   = [NumChannels]int{5, 6, 13, 19}
)

// DefaultChip is the GPIO character device for Raspberry Pi boards.
const DefaultChip = "gpiochip0"
