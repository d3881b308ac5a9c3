package light

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/streetlight/internal/hw"
)

// Engine reconciles the light table against ambient sensing and applies
// manual override commands. Each operation runs as one critical section
// over the whole table, adapter calls included; transition events are
// delivered after the lock is released.
type Engine struct {
	store   *Store
	adapter hw.Adapter

	rngMu sync.Mutex
	rng   *rand.Rand

	now    func() time.Time
	notify func(Event)
}

// NewEngine creates an engine over the given store and adapter.
func NewEngine(store *Store, adapter hw.Adapter) *Engine {
	return &Engine{
		store:   store,
		adapter: adapter,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// SetNotify registers a callback invoked on every relay state transition.
// Must be called before the engine is shared between goroutines.
func (e *Engine) SetNotify(fn func(Event)) {
	e.notify = fn
}

// SetClock overrides the transition timestamp source, for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Snapshot returns a copy of the current table.
func (e *Engine) Snapshot() [NumLights]Record {
	return e.store.Snapshot()
}

// ReconcileAll derives every light's state in index order. The fault light
// unconditionally gets its sentinel values and its relay is not touched;
// the others follow the ambient reading: dark commands the relay ON with
// fresh electrical samples, bright commands it OFF with zeroed readings.
// Returns the resulting table snapshot.
func (e *Engine) ReconcileAll() [NumLights]Record {
	var snap [NumLights]Record
	var events []Event
	e.store.update(func(table *[NumLights]Record) {
		for i := range table {
			if i == FaultIndex {
				table[i].Voltage = 0
				table[i].Current = 0
				table[i].Lux = FaultLux
				continue
			}
			dark := e.adapter.ReadAmbient(i)
			if ev, changed := e.apply(&table[i], i, dark, SourceAuto); changed {
				events = append(events, ev)
			}
		}
		snap = *table
	})
	e.emit(events)
	return snap
}

// SetManual commands one light directly, bypassing ambient sensing for this
// call. The path is uniform across all four lights, fault light included.
// It is not sticky: the next ReconcileAll overrides non-fault lights from
// fresh sensing. Invalid input leaves the table unmodified.
func (e *Engine) SetManual(lightID int, action string) (Record, error) {
	if lightID < 1 || lightID > NumLights {
		return Record{}, fmt.Errorf("%w: light_id must be 1..%d, got %d", ErrInvalidInput, NumLights, lightID)
	}

	var on bool
	switch strings.ToLower(action) {
	case "on":
		on = true
	case "off":
		on = false
	default:
		return Record{}, fmt.Errorf("%w: action must be %q or %q, got %q", ErrInvalidInput, "on", "off", action)
	}

	var rec Record
	var events []Event
	e.store.update(func(table *[NumLights]Record) {
		idx := lightID - 1
		if ev, changed := e.apply(&table[idx], idx, on, SourceManual); changed {
			events = append(events, ev)
		}
		rec = table[idx]
	})
	e.emit(events)
	return rec, nil
}

// apply commands the relay and writes the record for one light. Called with
// the table lock held. Relay write failures are logged and the record is
// still written: the table reflects the commanded state and the invariant
// coupling between relay state and electrical readings always holds.
// Reports the transition event, if any; the caller delivers it after the
// lock is released.
func (e *Engine) apply(rec *Record, index int, on bool, src Source) (Event, bool) {
	prev := rec.Relay

	if err := e.adapter.SetRelay(index, on); err != nil {
		log.Warn().Err(err).Int("light", rec.ID).Msg("relay write failed")
	}

	if on {
		rec.Relay = StateOn
		rec.Voltage = round2(e.uniform(VoltageMin, VoltageMax))
		rec.Current = round2(e.uniform(CurrentMin, CurrentMax))
		rec.Lux = e.intn(DarkLuxMax + 1)
	} else {
		rec.Relay = StateOff
		rec.Voltage = 0
		rec.Current = 0
		rec.Lux = BrightLuxMin + e.intn(BrightLuxMax-BrightLuxMin+1)
	}

	if rec.Relay == prev {
		return Event{}, false
	}
	log.Info().Int("light", rec.ID).Str("state", string(rec.Relay)).Str("source", string(src)).Msg("relay transition")
	return Event{
		Timestamp: e.now(),
		LightID:   rec.ID,
		Relay:     rec.Relay,
		Source:    src,
	}, true
}

// emit delivers transition events outside the table critical section. A slow
// notifier (e.g. a publisher waiting on a broker) must never stall readers.
func (e *Engine) emit(events []Event) {
	if e.notify == nil {
		return
	}
	for _, ev := range events {
		e.notify(ev)
	}
}

func (e *Engine) uniform(lo, hi float64) float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return lo + e.rng.Float64()*(hi-lo)
}

func (e *Engine) intn(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
