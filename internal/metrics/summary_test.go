package metrics_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/ppicrawl/internal/metrics"
)

func TestSummary_Counters(t *testing.T) {
	t.Parallel()

	s := metrics.NewSummary()
	s.AddPageVisited()
	s.AddFetched()
	s.AddFetched()
	s.AddSkippedDuplicate()
	s.AddAnalysisSucceeded()
	s.AddAnalysisFailed()
	s.AddValuesNotFound(3)
	s.Finalize()

	require.EqualValues(t, 1, s.PagesVisited)
	require.EqualValues(t, 2, s.Fetched)
	require.EqualValues(t, 1, s.SkippedDuplicates)
	require.EqualValues(t, 1, s.AnalysisSucceeded)
	require.EqualValues(t, 1, s.AnalysisFailed)
	require.EqualValues(t, 3, s.ValuesNotFound)
	require.NotEmpty(t, s.RunID)
}

func TestSummary_ConcurrentUpdates(t *testing.T) {
	t.Parallel()

	s := metrics.NewSummary()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddAnalysisSucceeded()
		}()
	}
	wg.Wait()

	require.EqualValues(t, 50, s.AnalysisSucceeded)
}

func TestSummary_RenderIncludesCounters(t *testing.T) {
	t.Parallel()

	s := metrics.NewSummary()
	s.AddFetched()
	s.Finalize()

	var sb strings.Builder
	s.Render(&sb)

	out := sb.String()
	require.Contains(t, out, "Images fetched")
	require.Contains(t, out, "Duration")
	require.Contains(t, out, s.RunID)
}
