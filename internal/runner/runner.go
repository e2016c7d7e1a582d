// Package runner executes scenario files against the observer engine and
// reports one summary per pass.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/time/rate"

	"github.com/jacoelho/pathwatch/internal/clock"
	"github.com/jacoelho/pathwatch/internal/config"
	"github.com/jacoelho/pathwatch/internal/exit"
	"github.com/jacoelho/pathwatch/internal/output"
	"github.com/jacoelho/pathwatch/internal/predicate"
	"github.com/jacoelho/pathwatch/internal/scenario"
)

type compiledFile struct {
	Filename  string
	Scenarios []scenario.Scenario
}

type Runner struct {
	config    *config.Config
	evaluator *predicate.Evaluator
	limiter   *rate.Limiter
	compiled  []compiledFile
	output    io.Writer
	errOutput io.Writer
}

func New(cfg *config.Config) (*Runner, *exit.Result) {
	if cfg == nil {
		return nil, exit.Error("Error creating runner: missing configuration\n")
	}

	return &Runner{
		config:    cfg,
		evaluator: predicate.NewEvaluator(),
		limiter:   newRateLimiter(cfg.RateLimit),
		output:    os.Stdout,
		errOutput: os.Stderr,
	}, nil
}

func newRateLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errorWriter(), format, args...)
}

// Run executes 1+Repeat passes, or passes until ctx is done when Repeat is
// negative, and returns the process exit code: 0 only when every scenario in
// every pass succeeded.
func (r *Runner) Run(ctx context.Context) int {
	infinite := r.config.Repeat < 0
	total := r.config.Repeat + 1

	var (
		summaries []*output.Summary
		failed    bool
	)

	for pass := 1; infinite || pass <= total; pass++ {
		if ctx.Err() != nil {
			r.logf("\nInterrupted after %d pass(es)\n", pass-1)
			failed = true
			break
		}

		if r.config.Debug && (infinite || total > 1) {
			r.logf("--- Pass %d ---\n", pass)
		}

		summary, err := r.runOnce(ctx)
		if err != nil {
			r.logf("\nError in pass %d: %v\n", pass, err)
			return exit.CodeFailure
		}
		failed = failed || summary.Failed()

		if infinite {
			// Unbounded runs print as they go instead of accumulating.
			if err := summary.Write(r.config.OutputFormat, r.payloadWriter()); err != nil {
				r.logf("Error formatting results: %v\n", err)
			}
			continue
		}
		summaries = append(summaries, summary)
	}

	if err := output.WriteAggregated(r.config.OutputFormat, r.payloadWriter(), summaries); err != nil {
		r.logf("Error formatting results: %v\n", err)
	}

	if failed {
		return exit.CodeFailure
	}
	return exit.CodeOK
}

// runOnce runs every scenario of every file. Files are compiled on the first
// pass; a file that fails to compile aborts the run.
func (r *Runner) runOnce(ctx context.Context) (*output.Summary, error) {
	if r.compiled == nil {
		compiled, err := compileFiles(r.config.ScenarioFiles)
		if err != nil {
			return nil, err
		}
		r.compiled = compiled
	}

	return r.executeFiles(ctx, r.compiled)
}

// ExecuteFiles compiles and runs files once.
func (r *Runner) ExecuteFiles(ctx context.Context, files []string) (*output.Summary, error) {
	compiled, err := compileFiles(files)
	if err != nil {
		return nil, err
	}
	return r.executeFiles(ctx, compiled)
}

func (r *Runner) executeFiles(ctx context.Context, files []compiledFile) (*output.Summary, error) {
	count := 0
	for _, f := range files {
		count += len(f.Scenarios)
	}
	s := output.NewSummary(count)

	start := clock.Now()
	defer func() { s.SetTotalDuration(clock.Since(start)) }()

	for _, f := range files {
		for _, sc := range f.Scenarios {
			if err := r.limiter.Wait(ctx); err != nil {
				return s, err
			}

			result := r.executeScenario(ctx, sc)
			result.Filename = f.Filename
			s.Add(result)
		}
	}

	return s, nil
}

func compileFiles(files []string) ([]compiledFile, error) {
	compiled := make([]compiledFile, 0, len(files))
	for _, filename := range files {
		f, err := compileFile(filename)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, f)
	}
	return compiled, nil
}

func compileFile(filename string) (compiledFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return compiledFile{}, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	scenarios, err := scenario.Parse(file)
	if err != nil {
		return compiledFile{}, fmt.Errorf("failed to parse file %s: %w", filename, err)
	}
	if err := scenario.Validate(scenarios); err != nil {
		return compiledFile{}, fmt.Errorf("failed to validate file %s: %w", filename, err)
	}

	return compiledFile{Filename: filename, Scenarios: scenarios}, nil
}
