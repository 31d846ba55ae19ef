package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Mode: ModeCLI, Console: &buf})

	logger.Info().Str("file", "a.csv").Msg("uploaded")

	out := buf.String()
	if !strings.Contains(out, "uploaded") {
		t.Errorf("Expected message in output, got %q", out)
	}
	if !strings.Contains(out, "a.csv") {
		t.Errorf("Expected field in output, got %q", out)
	}
}

func TestNewLogger_TUIModeIsSilent(t *testing.T) {
	logger := NewLogger(Options{Mode: ModeTUI})
	if logger.Output() == nil {
		t.Fatal("Output should never be nil")
	}
	// Must not panic or write to the terminal.
	logger.Info().Msg("hidden")
	if logger.Mode() != ModeTUI {
		t.Errorf("Expected mode tui, got %s", logger.Mode())
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csvdesk.log")
	logger := NewLogger(Options{Mode: ModeTUI, LogFile: path})

	logger.Warn().Msg("written to file")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"written to file"`) {
		t.Errorf("Expected JSON log line, got %q", string(data))
	}
}

func TestSetVerbose(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	logger := NewLogger(Options{Console: &buf})

	logger.Debugf("hidden %d", 1)
	if strings.Contains(buf.String(), "hidden") {
		t.Error("Debug output should be suppressed at info level")
	}

	SetVerbose(true)
	logger.Debugf("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") {
		t.Errorf("Expected debug output in verbose mode, got %q", buf.String())
	}
}
