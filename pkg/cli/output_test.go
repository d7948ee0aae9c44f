package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type soundRows [][]string

func (r soundRows) Header() []string { return []string{"CATEGORY", "FILE"} }
func (r soundRows) Rows() [][]string { return r }

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer

	data := map[string]any{
		"category": "enter-down",
		"frames":   2400,
	}

	err := Output(data, OutputOptions{
		Format: FormatJSON,
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if result["category"] != "enter-down" {
		t.Errorf("category = %v, want %q", result["category"], "enter-down")
	}
}

func TestOutput_YAMLDefault(t *testing.T) {
	for _, format := range []OutputFormat{FormatYAML, ""} {
		var buf bytes.Buffer
		err := Output(map[string]string{"source": "evdev"}, OutputOptions{
			Format: format,
			Writer: &buf,
		})
		if err != nil {
			t.Fatalf("Output(%q) error: %v", format, err)
		}
		if !strings.Contains(buf.String(), "source: evdev") {
			t.Errorf("Output(%q) should be YAML, got: %s", format, buf.String())
		}
	}
}

func TestOutput_Table(t *testing.T) {
	var buf bytes.Buffer

	rows := soundRows{
		{"enter-down", "enter.wav"},
		{"space-down", "spacebar.wav"},
	}
	if err := Output(rows, OutputOptions{Format: FormatTable, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"CATEGORY", "FILE", "enter-down", "spacebar.wav"} {
		if !strings.Contains(out, want) {
			t.Errorf("table should contain %q, got:\n%s", want, out)
		}
	}
	if strings.Index(out, "enter.wav") > strings.Index(out, "spacebar.wav") {
		t.Errorf("rows out of order:\n%s", out)
	}
}

func TestOutput_TableFallsBackToYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(map[string]int{"voices": 3}, OutputOptions{Format: FormatTable, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "voices: 3") {
		t.Errorf("non-tabular result should print as YAML, got: %s", buf.String())
	}
}

func TestOutput_Raw(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"bytes", []byte("raw bytes"), "raw bytes"},
		{"string", "raw string", "raw string"},
		{"other", map[string]int{"count": 42}, "count: 42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Output(tt.data, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
				t.Fatalf("Output error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Output("data", OutputOptions{Format: "invalid", Writer: &buf})
	if err == nil {
		t.Error("Output should fail for unsupported format")
	}
}

func TestOutput_ToFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "stats.json")

	err := Output(map[string]string{"session": "abc"}, OutputOptions{
		Format: FormatJSON,
		File:   filePath,
		Indent: "    ",
	})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.Contains(string(content), `    "session": "abc"`) {
		t.Errorf("file content = %s", content)
	}
}
