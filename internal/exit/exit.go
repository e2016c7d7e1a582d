// Package exit carries the message and status a command ends with.
package exit

import (
	"fmt"
	"io"
	"os"
)

const (
	CodeOK      = 0
	CodeFailure = 1
)

// Result is a terminal outcome: where to print, what, and the process status.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the message, ending it with a newline when missing.
func (r *Result) Print() {
	if r.Message == "" {
		return
	}
	fmt.Fprint(r.Output, r.Message)
	if r.Message[len(r.Message)-1] != '\n' {
		fmt.Fprintln(r.Output)
	}
}

// Success prints to stdout and exits with CodeOK.
func Success(message string) *Result {
	return &Result{Output: os.Stdout, ExitCode: CodeOK, Message: message}
}

// Error prints to stderr and exits with CodeFailure.
func Error(message string) *Result {
	return &Result{Output: os.Stderr, ExitCode: CodeFailure, Message: message}
}

func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}
