package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"

	"rtable/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Editor.MultiCellSelection {
		t.Error("MultiCellSelection should be off by default")
	}
	if cfg.Editor.DefaultRows != 2 || cfg.Editor.DefaultColumns != 2 {
		t.Errorf("default table size = %dx%d, want 2x2", cfg.Editor.DefaultRows, cfg.Editor.DefaultColumns)
	}
	if cfg.Editor.ColumnResize.MinWidth != 5 {
		t.Errorf("MinWidth = %v, want 5", cfg.Editor.ColumnResize.MinWidth)
	}
	if cfg.Input.Encoding != "" {
		t.Errorf("Encoding = %q, want detection", cfg.Input.Encoding)
	}
	if cfg.Output.Format != common.OutputFmtHtml {
		t.Errorf("Format = %s, want html", cfg.Output.Format)
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("Indent = %d, want 2", cfg.Output.Indent)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" || cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("logging levels = %q/%q", cfg.Logging.ConsoleLogger.Level, cfg.Logging.FileLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
editor:
  multi_cell_selection: true
  default_rows: 3
  default_columns: 4
  heading_rows: 1
  column_resize:
    min_width: 10
input:
  encoding: windows-1251
output:
  format: model
  indent: -1
logging:
  console:
    level: debug
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
reporting:
  destination: /tmp/test-report.zip
`)
	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if !cfg.Editor.MultiCellSelection {
		t.Error("Expected MultiCellSelection to be true")
	}
	if cfg.Editor.DefaultRows != 3 || cfg.Editor.DefaultColumns != 4 || cfg.Editor.HeadingRows != 1 {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Editor.ColumnResize.MinWidth != 10 {
		t.Errorf("MinWidth = %v, want 10", cfg.Editor.ColumnResize.MinWidth)
	}
	if cfg.Input.Encoding != "windows-1251" {
		t.Errorf("Encoding = %q", cfg.Input.Encoding)
	}
	if cfg.Output.Format != common.OutputFmtModel || cfg.Output.Indent != -1 {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("Mode = %q, want append", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	path := writeConfig(t, `version: 1
output:
  format: model
`)
	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Output.Format != common.OutputFmtModel {
		t.Errorf("Format = %s, want model", cfg.Output.Format)
	}
	// values not in the file come from template
	if cfg.Output.Indent != 2 || cfg.Editor.DefaultRows != 2 {
		t.Errorf("defaults lost: %+v %+v", cfg.Output, cfg.Editor)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "version: 1\neditor:\n  default_rows: 2\n  invalid indent\n"},
		{name: "unknown field", content: "version: 1\nunknown_field: value\n"},
		{name: "version", content: "version: 2\n"},
		{name: "format", content: "version: 1\noutput:\n  format: pdf\n"},
		{name: "min width", content: "version: 1\neditor:\n  column_resize:\n    min_width: 60\n"},
		{name: "heading rows", content: "version: 1\neditor:\n  default_rows: 2\n  heading_rows: 3\n"},
		{name: "indent", content: "version: 1\noutput:\n  indent: 20\n"},
		{name: "log level", content: "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	called := false
	option := func(opts *gencfg.ProcessingOptions) {
		called = true
	}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if !called {
		t.Error("option was not applied")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Output.Format = common.OutputFmtModel

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	for _, want := range []string{"version: 1", "format: model", "multi_cell_selection: false"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Dump() output does not contain %q:\n%s", want, data)
		}
	}

	// dumped configuration loads back
	back, err := LoadConfiguration(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("LoadConfiguration() of dumped config error = %v", err)
	}
	if back.Output.Format != common.OutputFmtModel {
		t.Errorf("Format = %s after reload", back.Output.Format)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}
