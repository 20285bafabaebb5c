package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/localnerve/storefront/internal/config"
)

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&config.Config{LogLevel: "loud"}); err == nil {
		t.Fatal("Expected error for unknown log level")
	}
}

func TestNewWritesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "storefront.log")

	log, err := New(&config.Config{LogLevel: "info", LogFile: logFile})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info("hello from test")
	_ = log.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected log file to contain the entry")
	}
}
