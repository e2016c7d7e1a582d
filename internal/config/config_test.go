package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jacoelho/pathwatch/internal/exit"
	"github.com/jacoelho/pathwatch/internal/output"
)

func writeScenario(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	first := writeScenario(t, dir, "first.yaml")
	second := writeScenario(t, dir, "second.yaml")

	tests := []struct {
		name string
		args []string
		want *Config
	}{
		{
			name: "defaults",
			args: []string{"pathwatch", first},
			want: &Config{ScenarioFiles: []string{first}, OutputFormat: output.FormatText},
		},
		{
			name: "all_flags",
			args: []string{
				"pathwatch", "-debug", "-repeat", "3", "-rate-limit", "2.5", "-output", "json",
				"-set", "$.A.B=1", "-set", "$.C= spaced ", first, second,
			},
			want: &Config{
				ScenarioFiles: []string{first, second},
				Debug:         true,
				Repeat:        3,
				RateLimit:     2.5,
				OutputFormat:  output.FormatJSON,
				Overrides:     []Override{{Path: "$.A.B", Value: "1"}, {Path: "$.C", Value: " spaced "}},
			},
		},
		{
			name: "value_with_equals",
			args: []string{"pathwatch", "--set", "$.A=x=y", first},
			want: &Config{
				ScenarioFiles: []string{first},
				OutputFormat:  output.FormatText,
				Overrides:     []Override{{Path: "$.A", Value: "x=y"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, result := Parse(tt.args)
			if result != nil {
				t.Fatalf("Parse() exit result = %q", result.Message)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	dir := t.TempDir()
	file := writeScenario(t, dir, "ok.yaml")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantMsg  string
	}{
		{name: "no_arguments", args: nil, wantCode: exit.CodeFailure, wantMsg: ErrNoArguments.Error()},
		{name: "no_files", args: []string{"pathwatch"}, wantCode: exit.CodeFailure, wantMsg: ErrNoScenarioFiles.Error()},
		{name: "missing_file", args: []string{"pathwatch", filepath.Join(dir, "nope.yaml")}, wantCode: exit.CodeFailure, wantMsg: "not found"},
		{name: "unknown_flag", args: []string{"pathwatch", "-verbose", file}, wantCode: exit.CodeFailure, wantMsg: "failed to parse arguments"},
		{name: "bad_override", args: []string{"pathwatch", "-set", "novalue", file}, wantCode: exit.CodeFailure, wantMsg: ErrInvalidSetFormat.Error()},
		{name: "empty_override_path", args: []string{"pathwatch", "-set", " =1", file}, wantCode: exit.CodeFailure, wantMsg: ErrEmptySetPath.Error()},
		{name: "negative_rate", args: []string{"pathwatch", "-rate-limit", "-1", file}, wantCode: exit.CodeFailure, wantMsg: ErrNegativeRateLimit.Error()},
		{name: "bad_output", args: []string{"pathwatch", "-output", "xml", file}, wantCode: exit.CodeFailure, wantMsg: ErrInvalidOutputFormat.Error()},
		{name: "help", args: []string{"pathwatch", "-h"}, wantCode: exit.CodeOK, wantMsg: "Usage: pathwatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, result := Parse(tt.args)
			if cfg != nil {
				t.Fatalf("Parse() config = %+v, want nil", cfg)
			}
			if result == nil {
				t.Fatal("Parse() exit result = nil")
			}
			if result.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, tt.wantCode)
			}
			if !strings.Contains(result.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", result.Message, tt.wantMsg)
			}
		})
	}
}
