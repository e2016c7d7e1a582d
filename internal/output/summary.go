package output

import "time"

// ScenarioResult is the outcome of running one scenario.
type ScenarioResult struct {
	Filename string
	Name     string
	Steps    int // steps applied before completion or failure
	Events   int // change events delivered to all watches
	Duration time.Duration
	Error    error
}

// Summary collects the results of one pass over every scenario file.
type Summary struct {
	Results            []ScenarioResult
	ExecutedScenarios  int
	ExecutedSteps      int
	DeliveredEvents    int
	SucceededScenarios int
	FailedScenarios    int
	TotalDuration      time.Duration
}

func NewSummary(expected int) *Summary {
	return &Summary{
		Results: make([]ScenarioResult, 0, expected),
	}
}

func (s *Summary) Add(result ScenarioResult) {
	s.Results = append(s.Results, result)
	s.ExecutedScenarios++
	s.ExecutedSteps += result.Steps
	s.DeliveredEvents += result.Events

	if result.Error != nil {
		s.FailedScenarios++
	} else {
		s.SucceededScenarios++
	}
}

func (s *Summary) SetTotalDuration(d time.Duration) {
	s.TotalDuration = d
}

// Failed reports whether any scenario failed.
func (s *Summary) Failed() bool {
	return s.FailedScenarios > 0
}

func (s *Summary) EventsPerSecond() float64 {
	if s.TotalDuration == 0 {
		return 0
	}
	return float64(s.DeliveredEvents) / s.TotalDuration.Seconds()
}

func (s *Summary) SuccessPercentage() float64 {
	return percentage(s.SucceededScenarios, s.ExecutedScenarios)
}

func (s *Summary) FailurePercentage() float64 {
	return percentage(s.FailedScenarios, s.ExecutedScenarios)
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// AggregatedStats totals several passes when scenarios are repeated.
type AggregatedStats struct {
	IterationCount       int
	SuccessfulIterations int
	TotalScenarios       int
	TotalSteps           int
	TotalEvents          int
	TotalFailed          int
	TotalDuration        time.Duration
}

func CalculateAggregatedStats(summaries []*Summary) AggregatedStats {
	stats := AggregatedStats{IterationCount: len(summaries)}

	for _, s := range summaries {
		stats.TotalScenarios += s.ExecutedScenarios
		stats.TotalSteps += s.ExecutedSteps
		stats.TotalEvents += s.DeliveredEvents
		stats.TotalFailed += s.FailedScenarios
		stats.TotalDuration += s.TotalDuration

		if !s.Failed() {
			stats.SuccessfulIterations++
		}
	}

	return stats
}

func (a AggregatedStats) FailedIterations() int {
	return a.IterationCount - a.SuccessfulIterations
}

func (a AggregatedStats) IterationSuccessRate() float64 {
	return percentage(a.SuccessfulIterations, a.IterationCount)
}

func (a AggregatedStats) AvgDurationPerIteration() time.Duration {
	if a.IterationCount == 0 {
		return 0
	}
	return a.TotalDuration / time.Duration(a.IterationCount)
}
