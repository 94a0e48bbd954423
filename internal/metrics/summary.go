// Package metrics collects per-run counters and timing.
package metrics

import (
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary holds the counters for one invocation. It is always emitted
// at the end of a run, including after cancellation or partial failure.
type Summary struct {
	mu sync.Mutex

	// RunID uniquely identifies this invocation.
	RunID string
	// StartTime is when the run began.
	StartTime time.Time
	// Duration is the wall-clock run time, set by Finalize.
	Duration time.Duration

	// PagesVisited is the number of listing pages fetched.
	PagesVisited int64
	// Fetched is the number of new artifacts downloaded.
	Fetched int64
	// SkippedDuplicates is the number of posts skipped by the dedup index.
	SkippedDuplicates int64
	// PostFailures is the number of posts skipped due to errors.
	PostFailures int64
	// AnalysisSucceeded is the number of artifacts analyzed without error.
	AnalysisSucceeded int64
	// AnalysisFailed is the number of artifacts whose analysis recorded an error.
	AnalysisFailed int64
	// ValuesNotFound is the number of target values reported as not found.
	ValuesNotFound int64
}

// NewSummary creates a summary stamped with a fresh run ID.
func NewSummary() *Summary {
	return &Summary{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
}

// AddPageVisited records one fetched listing page.
func (s *Summary) AddPageVisited() { s.add(&s.PagesVisited) }

// AddFetched records one newly downloaded artifact.
func (s *Summary) AddFetched() { s.add(&s.Fetched) }

// AddSkippedDuplicate records one dedup skip.
func (s *Summary) AddSkippedDuplicate() { s.add(&s.SkippedDuplicates) }

// AddPostFailure records one post skipped due to an error.
func (s *Summary) AddPostFailure() { s.add(&s.PostFailures) }

// AddAnalysisSucceeded records one successful artifact analysis.
func (s *Summary) AddAnalysisSucceeded() { s.add(&s.AnalysisSucceeded) }

// AddAnalysisFailed records one failed artifact analysis.
func (s *Summary) AddAnalysisFailed() { s.add(&s.AnalysisFailed) }

// AddValuesNotFound records n target values reported as not found.
func (s *Summary) AddValuesNotFound(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ValuesNotFound += int64(n)
}

func (s *Summary) add(counter *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*counter++
}

// Finalize fixes the run duration.
func (s *Summary) Finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Duration = time.Since(s.StartTime)
}

// Render writes the summary as a formatted table.
func (s *Summary) Render(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Run " + s.RunID)

	t.AppendHeader(table.Row{"Counter", "Value"})
	t.AppendRows([]table.Row{
		{"Pages visited", strconv.FormatInt(s.PagesVisited, 10)},
		{"Images fetched", strconv.FormatInt(s.Fetched, 10)},
		{"Skipped (duplicate)", strconv.FormatInt(s.SkippedDuplicates, 10)},
		{"Post failures", strconv.FormatInt(s.PostFailures, 10)},
		{"Analysis succeeded", strconv.FormatInt(s.AnalysisSucceeded, 10)},
		{"Analysis failed", strconv.FormatInt(s.AnalysisFailed, 10)},
		{"Values not found", strconv.FormatInt(s.ValuesNotFound, 10)},
	})
	t.AppendFooter(table.Row{"Duration", s.Duration.Round(time.Millisecond).String()})

	t.Render()
}
