package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "grove.log")

	log, closer, err := New("info", path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Info().Str("goal", "g1").Msg("created")
	closer()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"goal":"g1"`) {
		t.Fatalf("log line missing field: %s", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New("loud", filepath.Join(t.TempDir(), "grove.log"))
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
}
