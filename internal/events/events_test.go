package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/eightytwo/idspispopd/internal/config"
)

func TestBuildEvent_WireFormat(t *testing.T) {
	event := BuildEvent{
		BuildID:    "b-123",
		Outcome:    "success",
		Pages:      4,
		Items:      3,
		DurationMS: 250,
		Trigger:    "file_event",
		Timestamp:  time.Date(2024, time.July, 1, 8, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["build_id"] != "b-123" {
		t.Fatalf("build_id = %v", got["build_id"])
	}
	if got["trigger"] != "file_event" {
		t.Fatalf("trigger = %v", got["trigger"])
	}
	if got["duration_ms"] != float64(250) {
		t.Fatalf("duration_ms = %v", got["duration_ms"])
	}
}

func TestNoopPublisher_SafeToCall(t *testing.T) {
	var p Publisher = NoopPublisher{}
	if err := p.PublishBuild(context.Background(), &BuildEvent{BuildID: "x"}); err != nil {
		t.Fatalf("PublishBuild: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewNATSPublisher_RequiresConfiguration(t *testing.T) {
	if _, err := NewNATSPublisher(config.EventsConfig{}); err == nil {
		t.Fatalf("expected error for unconfigured publisher")
	}
	if _, err := NewNATSPublisher(config.EventsConfig{URL: "nats://localhost:4222"}); err == nil {
		t.Fatalf("expected error when subject is missing")
	}
}
