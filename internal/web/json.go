package web

import (
	"math"
	"math/rand"
	"time"

	"github.com/sweeney/streetlight/internal/light"
)

// historyPoints is the length of the synthesized chart series.
const historyPoints = 6

// LightJSON is the wire representation of one light. The field names are
// the stable contract with the dashboard and must not change.
type LightJSON struct {
	ID         int     `json:"id"`
	RelayState string  `json:"relay_state"`
	Voltage    float64 `json:"voltage"`
	Current    float64 `json:"current"`
	Lux        int     `json:"lux"`
}

// StatsJSON is the wire representation of the system aggregate.
type StatsJSON struct {
	TotalVoltage float64 `json:"total_voltage"`
	TotalCurrent float64 `json:"total_current"`
	TotalLux     int     `json:"total_lux"`
	SystemStatus string  `json:"system_status"`
}

// SeriesJSON is one chart series: labels paired with samples.
type SeriesJSON struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// ChartsJSON holds the synthesized trend series.
type ChartsJSON struct {
	Voltage SeriesJSON `json:"voltage"`
	Current SeriesJSON `json:"current"`
}

// DataResponse is the GET /api/data payload.
type DataResponse struct {
	Success bool        `json:"success"`
	Lights  []LightJSON `json:"lights"`
	Stats   StatsJSON   `json:"stats"`
	Charts  ChartsJSON  `json:"charts"`
	Time    string      `json:"time"`
}

// ControlRequest is the POST /control payload.
type ControlRequest struct {
	LightID int    `json:"light_id"`
	Action  string `json:"action"`
}

// ControlResponse is the POST /control reply.
type ControlResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Light   *LightJSON `json:"light,omitempty"`
}

// LoginRequest is the POST /login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StatusResponse is the generic success/message envelope.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func lightJSON(r light.Record) LightJSON {
	return LightJSON{
		ID:         r.ID,
		RelayState: string(r.Relay),
		Voltage:    r.Voltage,
		Current:    r.Current,
		Lux:        r.Lux,
	}
}

func lightsJSON(table [light.NumLights]light.Record) []LightJSON {
	out := make([]LightJSON, 0, len(table))
	for _, r := range table {
		out = append(out, lightJSON(r))
	}
	return out
}

func statsJSON(s light.Stats) StatsJSON {
	return StatsJSON{
		TotalVoltage: s.TotalVoltage,
		TotalCurrent: s.TotalCurrent,
		TotalLux:     s.TotalLux,
		SystemStatus: s.SystemStatus,
	}
}

// synthesizeCharts builds the short trend series returned with every data
// fetch. History is not persisted anywhere; the values are illustrative
// samples in the live reading ranges, labelled with the preceding hours.
func synthesizeCharts(now time.Time, rng *rand.Rand, onCount int) ChartsJSON {
	labels := make([]string, historyPoints)
	voltage := make([]float64, historyPoints)
	current := make([]float64, historyPoints)

	for i := 0; i < historyPoints; i++ {
		labels[i] = now.Add(-time.Duration(historyPoints-1-i) * time.Hour).Format("15:04")
		if onCount > 0 {
			voltage[i] = round1(light.VoltageMin + rng.Float64()*(light.VoltageMax-light.VoltageMin))
			current[i] = round1(float64(onCount) * (light.CurrentMin + rng.Float64()*(light.CurrentMax-light.CurrentMin)))
		}
	}

	return ChartsJSON{
		Voltage: SeriesJSON{Labels: labels, Data: voltage},
		Current: SeriesJSON{Labels: labels, Data: current},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
