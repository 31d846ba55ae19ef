package notify

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/csvdesk/csvdesk/internal/events"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Enabled {
		t.Error("Expected Enabled to be true by default")
	}
	if cfg.Desktop {
		t.Error("Expected Desktop to be false by default")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a long string", 10, "this is..."},
		{"", 10, ""},
		{"abc", 3, "abc"},
		{"abcd", 3, "..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
		}
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("é", 150)

	result := truncate(s, 200)
	if !utf8.ValidString(result) {
		t.Fatalf("truncate produced invalid UTF-8: %q", result)
	}
	if len(result) > 200 {
		t.Errorf("len = %d, want at most 200", len(result))
	}
	if !strings.HasSuffix(result, "...") || !strings.HasPrefix(s, strings.TrimSuffix(result, "...")) {
		t.Errorf("unexpected truncation %q", result)
	}
}

func TestNotifier_DesktopMessageIsValidUTF8(t *testing.T) {
	n := NewNotifier(&Config{Enabled: true, Desktop: true}, nil, nil)

	var sent []string
	n.send = func(title, message string) error {
		sent = append(sent, message)
		return nil
	}
	n.Notify(Info, "Uploaded "+strings.Repeat("日本", 60)+".csv")

	if len(sent) != 1 || !utf8.ValidString(sent[0]) || len(sent[0]) > 200 {
		t.Errorf("desktop message not cut cleanly: %q", sent)
	}
}

func TestShortenPath(t *testing.T) {
	tests := []struct {
		input string
		short bool
	}{
		{"/short/path", false},
		{"/a/very/long/path/that/exceeds/the/maximum/length/for/notification/display/file.csv", true},
	}

	for _, tt := range tests {
		result := ShortenPath(tt.input)
		if tt.short && len(result) >= len(tt.input) {
			t.Errorf("ShortenPath(%q) was not shortened: %q", tt.input, result)
		}
		if !tt.short && result != tt.input {
			t.Errorf("ShortenPath(%q) = %q, want unchanged", tt.input, result)
		}
	}
}

func TestNewNotifier(t *testing.T) {
	n := NewNotifier(nil, nil, nil)
	if n == nil {
		t.Fatal("NewNotifier returned nil")
	}
	if !n.enabled || n.desktop {
		t.Error("Expected default notifier to be enabled without desktop delivery")
	}

	n2 := NewNotifier(&Config{Enabled: false, Desktop: true}, nil, nil)
	if n2.enabled || !n2.desktop {
		t.Error("Expected notifier to follow its config")
	}
}

func TestNotifier_PublishesToBus(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(events.EventNotification)

	n := NewNotifier(nil, bus, nil)
	n.Notify(Success, "File deleted")

	select {
	case ev := <-ch:
		ne := ev.(*events.NotificationEvent)
		if ne.Message != "File deleted" || ne.Severity != Success {
			t.Errorf("Unexpected event: %+v", ne)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for notification event")
	}
}

func TestNotifier_DisabledSkipsBus(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(events.EventNotification)

	n := NewNotifier(&Config{Enabled: false}, bus, nil)
	n.Notify(Error, "Delete failed")

	select {
	case <-ch:
		t.Error("Disabled notifier should not publish")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotifier_Desktop(t *testing.T) {
	n := NewNotifier(&Config{Enabled: true, Desktop: true}, nil, nil)

	var sent, alerted []string
	n.send = func(title, message string) error {
		sent = append(sent, message)
		return nil
	}
	n.alert = func(title, message string) error {
		alerted = append(alerted, message)
		return errors.New("alert unsupported")
	}

	n.Notify(Success, "File uploaded successfully!")
	n.Notify(Error, "Upload failed: bad header")

	if len(alerted) != 1 || alerted[0] != "Upload failed: bad header" {
		t.Errorf("Expected one alert attempt for the error, got %v", alerted)
	}
	// Success goes straight to send; the failed alert falls back to send.
	if len(sent) != 2 {
		t.Fatalf("Expected 2 desktop notifications, got %v", sent)
	}
	if sent[0] != "File uploaded successfully!" {
		t.Errorf("Unexpected first notification %q", sent[0])
	}
}

func TestMulti(t *testing.T) {
	var got []string
	rec := SinkFunc(func(level Level, message string) {
		got = append(got, level.String()+":"+message)
	})

	Multi{rec, nil, rec}.Notify(Info, "hello")

	if len(got) != 2 || got[0] != "info:hello" {
		t.Errorf("Unexpected fan-out result: %v", got)
	}
}
