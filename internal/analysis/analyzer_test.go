package analysis_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/ppicrawl/internal/analysis"
	"github.com/jonesrussell/ppicrawl/internal/config"
	"github.com/jonesrussell/ppicrawl/internal/logger"
	"github.com/jonesrussell/ppicrawl/internal/metrics"
	"github.com/jonesrussell/ppicrawl/internal/store"
)

// funcDetector adapts a function to the TableDetector interface.
type funcDetector func(ctx context.Context, imagePath string) ([]analysis.Grid, error)

func (f funcDetector) Detect(ctx context.Context, imagePath string) ([]analysis.Grid, error) {
	return f(ctx, imagePath)
}

func analyzerConfig(dataDir string) config.AnalysisConfig {
	return config.AnalysisConfig{
		Workers:         2,
		DataDir:         dataDir,
		DetectorCommand: []string{"true"},
		HeaderRow:       config.DefaultHeaderRow,
		FuelColumn:      config.DefaultFuelColumn,
		MetricColumn:    config.DefaultMetricColumn,
		FuzzyDistance:   config.DefaultFuzzyDistance,
	}
}

func seedStore(t *testing.T, dir string, ids ...string) *store.Store {
	t.Helper()

	st, err := store.New(dir)
	require.NoError(t, err)
	for _, id := range ids {
		require.NoError(t, st.Write(st.Path("04-2025", id, ".jpg"), []byte("not-a-real-jpeg")))
	}
	return st
}

func readConsolidated(t *testing.T, dataDir string) [][]string {
	t.Helper()

	f, err := os.Open(filepath.Join(dataDir, analysis.ConsolidatedName))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestAnalyzer_FailureIsolationAndSortedOutput(t *testing.T) {
	t.Parallel()

	storeDir, dataDir := t.TempDir(), t.TempDir()
	st := seedStore(t, storeDir, "ppi-03-04-2025", "ppi-01-04-2025", "ppi-02-04-2025")

	// The middle artifact yields no table; the others detect fine.
	detector := funcDetector(func(_ context.Context, path string) ([]analysis.Grid, error) {
		if strings.Contains(path, "ppi-02-04-2025") {
			return nil, nil
		}
		return []analysis.Grid{reportGrid()}, nil
	})

	summary := metrics.NewSummary()
	a := analysis.New(analyzerConfig(dataDir), config.DefaultTargets(), st, detector, summary, logger.NewNoOp())
	require.NoError(t, a.Run(context.Background()))

	require.EqualValues(t, 2, summary.AnalysisSucceeded)
	require.EqualValues(t, 1, summary.AnalysisFailed)

	records := readConsolidated(t, dataDir)
	require.Len(t, records, 4)
	require.Equal(t, "id", records[0][0])
	require.Equal(t, "ppi-01-04-2025", records[1][0])
	require.Equal(t, "ppi-02-04-2025", records[2][0])
	require.Equal(t, "ppi-03-04-2025", records[3][0])

	// The failed artifact carries its error in the last column and no
	// target values.
	errCol := len(records[0]) - 1
	require.Contains(t, records[2][errCol], "no table detected")
	require.Empty(t, records[1][errCol])

	// Table dumps exist only for the successes.
	tables := filepath.Join(dataDir, "tabelas_por_mes", "04-2025")
	require.FileExists(t, filepath.Join(tables, "ppi-01-04-2025_tabela.csv"))
	require.FileExists(t, filepath.Join(tables, "ppi-03-04-2025_tabela.csv"))
	require.NoFileExists(t, filepath.Join(tables, "ppi-02-04-2025_tabela.csv"))
}

func TestAnalyzer_SkipsAlreadyAnalyzed(t *testing.T) {
	t.Parallel()

	storeDir, dataDir := t.TempDir(), t.TempDir()
	st := seedStore(t, storeDir, "ppi-01-04-2025", "ppi-02-04-2025")

	detector := funcDetector(func(context.Context, string) ([]analysis.Grid, error) {
		return []analysis.Grid{reportGrid()}, nil
	})

	first := metrics.NewSummary()
	a := analysis.New(analyzerConfig(dataDir), config.DefaultTargets(), st, detector, first, logger.NewNoOp())
	require.NoError(t, a.Run(context.Background()))
	require.EqualValues(t, 2, first.AnalysisSucceeded)

	// A second run finds the table dumps and analyzes nothing.
	second := metrics.NewSummary()
	a = analysis.New(analyzerConfig(dataDir), config.DefaultTargets(), st, detector, second, logger.NewNoOp())
	require.NoError(t, a.Run(context.Background()))
	require.EqualValues(t, 0, second.AnalysisSucceeded)
	require.EqualValues(t, 0, second.AnalysisFailed)

	// Prior rows survive the second run untouched.
	require.Len(t, readConsolidated(t, dataDir), 3)
}

func TestAnalyzer_ForceReanalyzes(t *testing.T) {
	t.Parallel()

	storeDir, dataDir := t.TempDir(), t.TempDir()
	st := seedStore(t, storeDir, "ppi-01-04-2025")

	detector := funcDetector(func(context.Context, string) ([]analysis.Grid, error) {
		return []analysis.Grid{reportGrid()}, nil
	})

	cfg := analyzerConfig(dataDir)
	a := analysis.New(cfg, config.DefaultTargets(), st, detector, metrics.NewSummary(), logger.NewNoOp())
	require.NoError(t, a.Run(context.Background()))

	cfg.Force = true
	forced := metrics.NewSummary()
	a = analysis.New(cfg, config.DefaultTargets(), st, detector, forced, logger.NewNoOp())
	require.NoError(t, a.Run(context.Background()))
	require.EqualValues(t, 1, forced.AnalysisSucceeded)
}

func TestAnalyzer_CountsValuesNotFound(t *testing.T) {
	t.Parallel()

	storeDir, dataDir := t.TempDir(), t.TempDir()
	st := seedStore(t, storeDir, "ppi-01-04-2025")

	// A grid with headers but no matching body rows: every target is
	// located nowhere.
	detector := funcDetector(func(context.Context, string) ([]analysis.Grid, error) {
		return []analysis.Grid{{
			{"PPI"},
			{"Combustível", "Item", "Paulínia"},
			{"Querosene", "Preço", "1,0"},
		}}, nil
	})

	summary := metrics.NewSummary()
	a := analysis.New(analyzerConfig(dataDir), config.DefaultTargets(), st, detector, summary, logger.NewNoOp())
	require.NoError(t, a.Run(context.Background()))

	require.EqualValues(t, 1, summary.AnalysisSucceeded)
	require.EqualValues(t, len(config.DefaultTargets()), summary.ValuesNotFound)
}
