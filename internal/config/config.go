package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacoelho/pathwatch/internal/exit"
	"github.com/jacoelho/pathwatch/internal/output"
)

var (
	ErrNoArguments         = errors.New("no arguments provided")
	ErrNoScenarioFiles     = errors.New("no scenario files specified")
	ErrInvalidSetFormat    = errors.New("override must be in format path=value")
	ErrEmptySetPath        = errors.New("override path cannot be empty")
	ErrNegativeRateLimit   = errors.New("rate limit cannot be negative")
	ErrInvalidOutputFormat = errors.New("invalid output format")
)

// Config is the complete configuration for the pathwatch command.
type Config struct {
	ScenarioFiles []string
	Debug         bool
	Repeat        int     // additional passes after the first (negative = until interrupted)
	RateLimit     float64 // scenario runs per second (0 = unlimited)
	OutputFormat  output.Format

	// Overrides assign graph values before any watch is registered, in
	// flag order. Values are plain strings.
	Overrides []Override
}

// Override is one -set flag.
type Override struct {
	Path  string
	Value string
}

// Validate checks the scenario files exist and the numeric flags are usable.
func (c *Config) Validate() error {
	if len(c.ScenarioFiles) == 0 {
		return ErrNoScenarioFiles
	}

	for _, file := range c.ScenarioFiles {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("scenario file %s not found: %w", file, err)
		}
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeRateLimit, c.RateLimit)
	}

	return nil
}

// overridesFlag implements flag.Value for repeated -set flags.
type overridesFlag []Override

func (o *overridesFlag) String() string {
	pairs := make([]string, 0, len(*o))
	for _, ov := range *o {
		pairs = append(pairs, ov.Path+"="+ov.Value)
	}
	return strings.Join(pairs, ",")
}

func (o *overridesFlag) Set(value string) error {
	path, v, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("%w, got: %s", ErrInvalidSetFormat, value)
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return ErrEmptySetPath
	}

	*o = append(*o, Override{Path: path, Value: v})
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		debug     = fs.Bool("debug", false, "Trace every delivered change event")
		repeat    = fs.Int("repeat", 0, "Additional passes over all scenarios (negative to run until interrupted)")
		rateLimit = fs.Float64("rate-limit", 0, "Scenario runs per second (0 for unlimited)")
		format    = fs.String("output", "text", "Summary format: text or json")
		overrides overridesFlag
	)
	fs.Var(&overrides, "set", "Graph override in format path=value (can be used multiple times)")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	outputFormat, err := output.ParseFormat(*format)
	if err != nil {
		return nil, exit.Errorf("Error: %v: %v\n\n%s", ErrInvalidOutputFormat, err, Usage())
	}

	cfg := &Config{
		ScenarioFiles: fs.Args(),
		Debug:         *debug,
		Repeat:        *repeat,
		RateLimit:     *rateLimit,
		OutputFormat:  outputFormat,
		Overrides:     overrides,
	}

	if err := cfg.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return cfg, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `pathwatch - property path observation scenarios

Usage: pathwatch [options] <scenario1.yaml> [scenario2.yaml] ...

Options:
  --debug               Trace every delivered change event to stderr
  --repeat N            Additional passes over all scenarios (negative runs until interrupted)
  --rate-limit N        Scenario runs per second (0 for unlimited)
  --output FORMAT       Summary format: text or json (default: text)
  --set PATH=VALUE      Assign a graph value before watching (can be used multiple times)
  -h, --help            Show this help message

Examples:
  pathwatch owner.yaml                            # Run scenarios once
  pathwatch owner.yaml --debug                    # Trace change events
  pathwatch owner.yaml --output json              # Machine readable summary
  pathwatch owner.yaml --repeat 100 --rate-limit 20
  pathwatch owner.yaml --set '$.Address.Building.Owner.Name=Z'`
}
