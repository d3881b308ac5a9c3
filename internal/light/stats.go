package light

import "math"

// ComputeStats reduces a table snapshot to system-wide totals. Pure
// function: no side effects, no failure modes. An all-OFF table yields the
// zero totals with StatusOK.
//
// TotalVoltage is the constant bus voltage whenever any light is ON, not a
// sum. TotalCurrent is rounded to one decimal; the warning compares the
// rounded value against warnThreshold (<= 0 selects the default).
func ComputeStats(table [NumLights]Record, warnThreshold float64) Stats {
	if warnThreshold <= 0 {
		warnThreshold = DefaultWarnThreshold
	}

	var (
		anyOn   bool
		current float64
		lux     int
	)
	for _, r := range table {
		if r.Relay != StateOn {
			continue
		}
		anyOn = true
		current += r.Current
		lux += r.Lux
	}

	s := Stats{
		TotalCurrent: math.Round(current*10) / 10,
		TotalLux:     lux,
		SystemStatus: StatusOK,
	}
	if anyOn {
		s.TotalVoltage = BusVoltage
	}
	if s.TotalCurrent > warnThreshold {
		s.SystemStatus = StatusHighCurrent
	}
	return s
}
