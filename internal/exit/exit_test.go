package exit

import (
	"bytes"
	"os"
	"testing"
)

func TestResults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   *Result
		wantCode int
		wantOut  *os.File
	}{
		{name: "success", result: Success("usage"), wantCode: CodeOK, wantOut: os.Stdout},
		{name: "error", result: Error("boom"), wantCode: CodeFailure, wantOut: os.Stderr},
		{name: "errorf", result: Errorf("bad %s", "flag"), wantCode: CodeFailure, wantOut: os.Stderr},
	}

	for _, tt := range tests {
		if tt.result.ExitCode != tt.wantCode {
			t.Errorf("%s: ExitCode = %d, want %d", tt.name, tt.result.ExitCode, tt.wantCode)
		}
		if tt.result.Output != tt.wantOut {
			t.Errorf("%s: Output = %v, want %v", tt.name, tt.result.Output, tt.wantOut)
		}
	}

	if got := Errorf("bad %s", "flag").Message; got != "bad flag" {
		t.Errorf("Errorf() message = %q, want %q", got, "bad flag")
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		want    string
	}{
		{message: "done", want: "done\n"},
		{message: "done\n", want: "done\n"},
		{message: "", want: ""},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		r := &Result{Output: &out, Message: tt.message}
		r.Print()

		if out.String() != tt.want {
			t.Errorf("Print(%q) wrote %q, want %q", tt.message, out.String(), tt.want)
		}
	}
}
