package runner

import (
	"time"

	"voicegen/internal/manifest"
)

// Status is the outcome of a single job.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusGenerated Status = "generated"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Options controls one batch run.
type Options struct {
	OutDir    string
	Overwrite bool
	DryRun    bool
	FailFast  bool
	// RequestsPerSecond throttles vendor calls; zero or negative disables it.
	RequestsPerSecond float64
}

// Result reports what happened to one job.
type Result struct {
	Job      manifest.Job
	Status   Status
	Path     string
	Bytes    int64
	Duration time.Duration
	Err      error
}

// Summary aggregates a run. Planned counts every job examined.
type Summary struct {
	RunID     string
	DryRun    bool
	Planned   int
	Generated int
	Skipped   int
	Failed    int
	Results   []Result
}

// HasFailures reports whether any job failed.
func (s *Summary) HasFailures() bool {
	return s != nil && s.Failed > 0
}

func (s *Summary) add(result Result) {
	s.Planned++
	switch result.Status {
	case StatusGenerated:
		s.Generated++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
	s.Results = append(s.Results, result)
}
