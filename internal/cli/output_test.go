package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/csvdesk/csvdesk/internal/models"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"table", false},
		{"csv", false},
		{"json", false},
		{"yaml", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestWriteCSV_EscapesFormulas(t *testing.T) {
	records := []models.FileRecord{
		{ID: "1", Filename: "=cmd().csv", Status: "done", RecordsCount: 3, Fields: []string{"a", "b"}},
		{ID: "2", Filename: "plain.csv", Status: "done", RecordsCount: 0},
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, records, true); err != nil {
		t.Fatalf("writeCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "id,filename,status,records_count,fields" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "1,'=cmd().csv,done,3,a;b" {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, nil); err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestWriteTable_Wide(t *testing.T) {
	records := []models.FileRecord{{ID: "abc", Filename: "x.csv", Status: "done", RecordsCount: 1200, Fields: []string{"id", "name"}}}

	var buf bytes.Buffer
	if err := writeTable(&buf, records, true); err != nil {
		t.Fatalf("writeTable failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"FIELDS", "x.csv", "1,200", "id, name"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"y", true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got, err := promptYesNo(bufio.NewReader(strings.NewReader(tt.input)), &out, "Are you sure?")
		if err != nil {
			t.Errorf("promptYesNo(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("promptYesNo(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if out.String() != "Are you sure? [y/N]: " {
			t.Errorf("unexpected prompt %q", out.String())
		}
	}
}

func TestPromptString_Default(t *testing.T) {
	var out bytes.Buffer
	got := promptString(bufio.NewReader(strings.NewReader("\n")), &out, "Proxy port", "8080")
	if got != "8080" {
		t.Errorf("expected default 8080, got %q", got)
	}
}

func TestStdinConfirmer(t *testing.T) {
	t.Run("assume yes", func(t *testing.T) {
		c := &stdinConfirmer{assumeYes: true}
		if !<-c.Confirm(context.Background(), "Are you sure?") {
			t.Error("expected yes")
		}
	})

	t.Run("not interactive", func(t *testing.T) {
		var out bytes.Buffer
		c := &stdinConfirmer{out: &out}
		if <-c.Confirm(context.Background(), "Are you sure?") {
			t.Error("expected no")
		}
		if !strings.Contains(out.String(), "--yes") {
			t.Errorf("expected hint about --yes, got %q", out.String())
		}
	})

	t.Run("interactive", func(t *testing.T) {
		var out bytes.Buffer
		c := &stdinConfirmer{in: bufio.NewReader(strings.NewReader("y\n")), out: &out, interactive: true}
		if !<-c.Confirm(context.Background(), "Are you sure?") {
			t.Error("expected yes")
		}
	})

	t.Run("answers typed ahead", func(t *testing.T) {
		var out bytes.Buffer
		c := &stdinConfirmer{in: bufio.NewReader(strings.NewReader("y\ny\n")), out: &out, interactive: true}
		for i := 0; i < 2; i++ {
			if !<-c.Confirm(context.Background(), "Are you sure?") {
				t.Errorf("prompt %d: expected yes", i+1)
			}
		}
		if got := strings.Count(out.String(), "Are you sure? [y/N]"); got != 2 {
			t.Errorf("expected 2 prompts, got %d", got)
		}
	})
}
