package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf))

	l.Error("bulk write failed",
		Err(errors.New("boom")),
		Int("records", 50),
		String("index", "api-2023.06.15"),
		Duration("took", 2*time.Second),
		Bool("retry", false),
	)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got["message"] != "bulk write failed" {
		t.Errorf("message = %v", got["message"])
	}
	if got["level"] != "error" {
		t.Errorf("level = %v", got["level"])
	}
	if got["error"] != "boom" {
		t.Errorf("error = %v", got["error"])
	}
	if got["records"] != float64(50) {
		t.Errorf("records = %v", got["records"])
	}
	if got["index"] != "api-2023.06.15" {
		t.Errorf("index = %v", got["index"])
	}
	if got["retry"] != false {
		t.Errorf("retry = %v", got["retry"])
	}
}

func TestZerologAdapter_DisabledLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	l.Debug("hidden", String("k", "v"))
	if buf.Len() != 0 {
		t.Errorf("debug line written at info level: %q", buf.String())
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x", Err(errors.New("y")))
}
