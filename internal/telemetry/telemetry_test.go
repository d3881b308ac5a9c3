package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/streetlight/internal/light"
)

func TestFormatPayload(t *testing.T) {
	event := light.Event{
		Timestamp: time.Date(2026, 3, 1, 21, 30, 0, 0, time.UTC),
		LightID:   2,
		Relay:     light.StateOn,
		Source:    light.SourceManual,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	want := `{"light":{"timestamp":"2026-03-01T21:30:00Z","id":2,"relay_state":"ON","source":"manual"}}`
	if string(payload) != want {
		t.Errorf("payload:\ngot  %s\nwant %s", payload, want)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 1, 21, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	want := `{"system":{"timestamp":"2026-03-01T21:30:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != want {
		t.Errorf("payload:\ngot  %s\nwant %s", payload, want)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 1, 21, 30, 0, 0, time.UTC),
		Event:     "STARTUP",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["system"]["reason"]; ok {
		t.Error("empty reason should be omitted")
	}
}

func TestFakePublisherRecordsEvents(t *testing.T) {
	f := NewFakePublisher()

	event := light.Event{
		Timestamp: time.Date(2026, 3, 1, 21, 30, 0, 0, time.UTC),
		LightID:   1,
		Relay:     light.StateOff,
		Source:    light.SourceAuto,
	}
	if err := f.PublishLight(event); err != nil {
		t.Fatalf("PublishLight: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}

	events := f.LightEvents()
	if len(events) != 1 || events[0].LightID != 1 {
		t.Errorf("recorded events: %+v", events)
	}
	if len(f.SystemEvents) != 1 || f.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("recorded system events: %+v", f.SystemEvents)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("recorded payloads: %d, want 1", len(f.Payloads))
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed {
		t.Error("Closed not set")
	}
}
