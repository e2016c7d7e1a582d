// Package output renders run summaries as text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format selects how summaries are rendered.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat maps the -output flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

const rule = "--------------------------------------------------------------------------------"

// Write renders s to w.
func (s *Summary) Write(format Format, w io.Writer) error {
	if format == FormatJSON {
		return encode(w, s.toJSON())
	}
	return s.writeText(w)
}

// WriteAggregated renders every pass; a single pass renders like Write.
func WriteAggregated(format Format, w io.Writer, summaries []*Summary) error {
	switch len(summaries) {
	case 0:
		return nil
	case 1:
		return summaries[0].Write(format, w)
	}

	stats := CalculateAggregatedStats(summaries)
	if format == FormatJSON {
		iterations := make([]jsonSummary, 0, len(summaries))
		for _, s := range summaries {
			iterations = append(iterations, s.toJSON())
		}
		return encode(w, jsonAggregated{Iterations: iterations, Aggregated: stats.toJSON()})
	}

	return writeAggregatedText(w, summaries, stats)
}

func (s *Summary) writeText(w io.Writer) error {
	tw := &textWriter{w: w}

	for _, r := range s.Results {
		status := "Success"
		if r.Error != nil {
			status = fmt.Sprintf("Failed: %v", r.Error)
		}
		tw.printf("%s [%s]: %s (%d step(s), %d event(s) in %d ms)\n",
			r.Filename, r.Name, status, r.Steps, r.Events, r.Duration.Milliseconds())
	}

	tw.printf("%s\n", rule)
	tw.printf("Executed scenarios: %d\n", s.ExecutedScenarios)
	tw.printf("Executed steps:     %d\n", s.ExecutedSteps)
	tw.printf("Delivered events:   %d (%.2f/s)\n", s.DeliveredEvents, s.EventsPerSecond())
	tw.printf("Succeeded:          %d (%.1f%%)\n", s.SucceededScenarios, s.SuccessPercentage())
	tw.printf("Failed:             %d (%.1f%%)\n", s.FailedScenarios, s.FailurePercentage())
	tw.printf("Duration:           %d ms\n", s.TotalDuration.Milliseconds())

	return tw.err
}

func writeAggregatedText(w io.Writer, summaries []*Summary, stats AggregatedStats) error {
	tw := &textWriter{w: w}

	for i, s := range summaries {
		status := "SUCCESS"
		if s.Failed() {
			status = "FAILED"
		}
		tw.printf("Iteration %d: %s (%d scenarios, %d events, %d ms)\n",
			i+1, status, s.ExecutedScenarios, s.DeliveredEvents, s.TotalDuration.Milliseconds())
	}

	tw.printf("%s\n", rule)
	tw.printf("Iterations:         %d\n", stats.IterationCount)
	tw.printf("Successful:         %d (%.1f%%)\n", stats.SuccessfulIterations, stats.IterationSuccessRate())
	tw.printf("Failed:             %d\n", stats.FailedIterations())
	tw.printf("Total scenarios:    %d\n", stats.TotalScenarios)
	tw.printf("Total events:       %d\n", stats.TotalEvents)
	tw.printf("Avg duration:       %d ms\n", stats.AvgDurationPerIteration().Milliseconds())

	return tw.err
}

// textWriter stops writing after the first error and keeps it.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

type jsonResult struct {
	Filename             string `json:"filename"`
	Name                 string `json:"name"`
	Steps                int    `json:"steps"`
	Events               int    `json:"events"`
	DurationMilliseconds int64  `json:"duration_ms"`
	Success              bool   `json:"success"`
	Error                string `json:"error,omitempty"`
}

type jsonSummary struct {
	Results              []jsonResult `json:"results"`
	ExecutedScenarios    int          `json:"executed_scenarios"`
	ExecutedSteps        int          `json:"executed_steps"`
	DeliveredEvents      int          `json:"delivered_events"`
	SucceededScenarios   int          `json:"succeeded_scenarios"`
	FailedScenarios      int          `json:"failed_scenarios"`
	DurationMilliseconds int64        `json:"duration_ms"`
	EventsPerSecond      float64      `json:"events_per_second"`
}

type jsonStats struct {
	TotalIterations         int     `json:"total_iterations"`
	SuccessfulIterations    int     `json:"successful_iterations"`
	FailedIterations        int     `json:"failed_iterations"`
	IterationSuccessRate    float64 `json:"iteration_success_rate"`
	TotalScenarios          int     `json:"total_scenarios"`
	TotalEvents             int     `json:"total_events"`
	AvgDurationMilliseconds int64   `json:"avg_duration_ms"`
}

type jsonAggregated struct {
	Iterations []jsonSummary `json:"iterations"`
	Aggregated jsonStats     `json:"aggregated"`
}

func (s *Summary) toJSON() jsonSummary {
	results := make([]jsonResult, 0, len(s.Results))
	for _, r := range s.Results {
		item := jsonResult{
			Filename:             r.Filename,
			Name:                 r.Name,
			Steps:                r.Steps,
			Events:               r.Events,
			DurationMilliseconds: r.Duration.Milliseconds(),
			Success:              r.Error == nil,
		}
		if r.Error != nil {
			item.Error = r.Error.Error()
		}
		results = append(results, item)
	}

	return jsonSummary{
		Results:              results,
		ExecutedScenarios:    s.ExecutedScenarios,
		ExecutedSteps:        s.ExecutedSteps,
		DeliveredEvents:      s.DeliveredEvents,
		SucceededScenarios:   s.SucceededScenarios,
		FailedScenarios:      s.FailedScenarios,
		DurationMilliseconds: s.TotalDuration.Milliseconds(),
		EventsPerSecond:      s.EventsPerSecond(),
	}
}

func (a AggregatedStats) toJSON() jsonStats {
	return jsonStats{
		TotalIterations:         a.IterationCount,
		SuccessfulIterations:    a.SuccessfulIterations,
		FailedIterations:        a.FailedIterations(),
		IterationSuccessRate:    a.IterationSuccessRate(),
		TotalScenarios:          a.TotalScenarios,
		TotalEvents:             a.TotalEvents,
		AvgDurationMilliseconds: a.AvgDurationPerIteration().Milliseconds(),
	}
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
