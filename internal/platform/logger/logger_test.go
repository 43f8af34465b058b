package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriterTagsService(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter(&buf, "quakeboard-api", zerolog.InfoLevel)

	lg.Debug().Msg("hidden")
	lg.Error().Stack().Err(errors.New("boom")).Msg("visible")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "quakeboard-api" || entry["message"] != "visible" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Errorf("missing timestamp: %v", entry)
	}
	if _, ok := entry["stack"]; !ok {
		t.Errorf("missing stack: %v", entry)
	}
}
