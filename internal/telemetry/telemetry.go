// Package telemetry publishes light and system lifecycle events over MQTT,
// with abstraction for testing.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/sweeney/streetlight/internal/light"
)

// TopicLights is the MQTT topic for relay transition events.
const TopicLights = "streetlight/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "streetlight/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishLight sends a relay transition event to the broker.
	// Returns error if publishing fails (must not crash the process).
	PublishLight(event light.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event.
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN"
	Reason    string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Retained  bool   // Whether the message should be retained by the broker
}

// Payload is the MQTT message payload for a relay transition.
type Payload struct {
	Light LightPayload `json:"light"`
}

// LightPayload contains the transition details.
type LightPayload struct {
	Timestamp  string `json:"timestamp"`
	ID         int    `json:"id"`
	RelayState string `json:"relay_state"`
	Source     string `json:"source"`
}

// FormatPayload creates the JSON payload for a relay transition event.
func FormatPayload(event light.Event) ([]byte, error) {
	payload := Payload{
		Light: LightPayload{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			ID:         event.LightID,
			RelayState: string(event.Relay),
			Source:     string(event.Source),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
