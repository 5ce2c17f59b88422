package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestWriteEmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	Warn("resume.extraction", map[string]any{"resume_id": "r1", "err": errors.New("empty text"), "level": "spoofed"})

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if got["level"] != "warn" {
		t.Fatalf("expected level warn, got %v", got["level"])
	}
	if got["msg"] != "resume.extraction" {
		t.Fatalf("unexpected msg %v", got["msg"])
	}
	if got["err"] != "empty text" {
		t.Fatalf("expected error rendered as string, got %v", got["err"])
	}
	if got["resume_id"] != "r1" {
		t.Fatalf("missing field resume_id")
	}
}
