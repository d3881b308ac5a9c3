//go:build linux

package hw

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/warthog618/go-gpiocdev"
)

// Real drives actual hardware through the Linux GPIO character device.
// The relay board is active-low: logical ON asserts electrical 0. That
// inversion lives entirely inside this type; callers only see logical state.
type Real struct {
	chip   *gpiocdev.Chip
	relays [NumChannels]*gpiocdev.Line
	ldrs   [NumChannels]*gpiocdev.Line
}

// NewReal opens the GPIO chip and requests one relay output and one LDR
// input line per light. Relays start OFF (electrical high).
func NewReal(chip string, relayPins, ldrPins [NumChannels]int) (*Real, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &Real{chip: c}
	for i, pin := range relayPins {
		// Initial value 1 = electrically high = relay released = light OFF.
		line, err := c.RequestLine(pin, gpiocdev.AsOutput(1))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request relay pin %d: %w", pin, err)
		}
		r.relays[i] = line
	}

	for i, pin := range ldrPins {
		// Pull-down matches Pi boot defaults and the LDR module's open state.
		line, err := c.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request ldr pin %d: %w", pin, err)
		}
		r.ldrs[i] = line
	}

	return r, nil
}

// ReadAmbient reports darkness at the given light. Raw 1 = bright, 0 = dark.
// Read errors degrade to bright (false) so the caller sees a zeroed reading
// instead of a crash.
func (r *Real) ReadAmbient(index int) bool {
	if index < 0 || index >= NumChannels || r.ldrs[index] == nil {
		return false
	}
	raw, err := r.ldrs[index].Value()
	if err != nil {
		log.Warn().Err(err).Int("light", index+1).Msg("ldr read failed, treating as bright")
		return false
	}
	return raw == 0
}

// SetRelay drives the relay for the given light. Active-low: ON writes 0.
func (r *Real) SetRelay(index int, on bool) error {
	if index < 0 || index >= NumChannels || r.relays[index] == nil {
		return fmt.Errorf("relay %d: no such channel", index)
	}
	val := 1
	if on {
		val = 0
	}
	if err := r.relays[index].SetValue(val); err != nil {
		return fmt.Errorf("set relay %d: %w", index+1, err)
	}
	return nil
}

// Close drives every relay OFF, then releases all lines and the chip.
// Collects errors instead of stopping at the first so every resource gets
// a release attempt.
func (r *Real) Close() error {
	var errs []error

	for i, line := range r.relays {
		if line == nil {
			continue
		}
		if err := line.SetValue(1); err != nil { // released = OFF
			errs = append(errs, fmt.Errorf("release relay %d: %w", i+1, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close relay line %d: %w", i+1, err))
		}
	}
	for i, line := range r.ldrs {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close ldr line %d: %w", i+1, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
