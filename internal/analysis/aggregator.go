package analysis

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/jonesrussell/ppicrawl/internal/config"
)

const (
	// ConsolidatedName is the consolidated output file, one row per
	// analyzed artifact.
	ConsolidatedName = "analise_ppi.csv"

	// tablesDirName holds the per-artifact table dumps, bucketed the
	// same way the artifact store is.
	tablesDirName = "tabelas_por_mes"

	// tableSeparator is the cell separator for per-artifact table
	// dumps. The cells themselves are full of commas and semicolons.
	tableSeparator = '-'
)

// Aggregator writes the analysis outputs: the consolidated CSV and the
// per-artifact raw table dumps. The consolidated file is rewritten as
// a whole on every run, merged with prior rows and sorted by artifact
// identifier, so its content depends only on the set of analyzed
// artifacts and never on completion order.
type Aggregator struct {
	dataDir string
	targets []config.Target
}

// NewAggregator creates an aggregator rooted at dataDir.
func NewAggregator(dataDir string, targets []config.Target) *Aggregator {
	return &Aggregator{dataDir: dataDir, targets: targets}
}

// TableCSVPath returns where the raw table dump for an artifact lives.
func (a *Aggregator) TableCSVPath(monthDir, artifactID string) string {
	return filepath.Join(a.dataDir, tablesDirName, monthDir, artifactID+"_tabela.csv")
}

// HasTableCSV reports whether an artifact already has a table dump.
// Its existence is what marks an artifact as analyzed.
func (a *Aggregator) HasTableCSV(monthDir, artifactID string) bool {
	_, err := os.Stat(a.TableCSVPath(monthDir, artifactID))
	return err == nil
}

// WriteTableCSV dumps the detected grid for one artifact.
func (a *Aggregator) WriteTableCSV(r *Result) error {
	path := a.TableCSVPath(r.MonthDir, r.ArtifactID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create table directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}

	w := csv.NewWriter(f)
	w.Comma = tableSeparator
	if err := w.WriteAll([][]string(r.Grid)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write table rows: %w", err)
	}
	return f.Close()
}

// WriteConsolidated merges this run's results into the consolidated
// CSV and rewrites it sorted by artifact identifier. Returns the file
// path.
func (a *Aggregator) WriteConsolidated(results []Result) (string, error) {
	path := filepath.Join(a.dataDir, ConsolidatedName)

	header := a.header()
	rows := a.readExisting(path, header)
	for i := range results {
		rows[results[i].ArtifactID] = a.row(&results[i])
	}

	ids := make([]string, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if err := os.MkdirAll(a.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(a.dataDir, ".analise-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return "", err
	}
	for _, id := range ids {
		if err := w.Write(rows[id]); err != nil {
			tmp.Close()
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to replace consolidated file: %w", err)
	}
	return path, nil
}

func (a *Aggregator) header() []string {
	header := []string{"id", "arquivo", "tamanho_bytes", "largura", "altura", "modo_cor", "exif"}
	for _, t := range a.targets {
		header = append(header, t.Name)
	}
	return append(header, "erro")
}

// readExisting loads prior consolidated rows keyed by identifier.
// Rows written under a different target set are discarded, the column
// meanings would no longer line up.
func (a *Aggregator) readExisting(path string, header []string) map[string][]string {
	rows := map[string][]string{}

	f, err := os.Open(path)
	if err != nil {
		return rows
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil || len(records) == 0 {
		return rows
	}
	if !equalStrings(records[0], header) {
		return rows
	}
	for _, record := range records[1:] {
		if len(record) == len(header) && record[0] != "" {
			rows[record[0]] = record
		}
	}
	return rows
}

func (a *Aggregator) row(r *Result) []string {
	exifJSON := ""
	if len(r.Metadata.EXIF) > 0 {
		if b, err := json.Marshal(r.Metadata.EXIF); err == nil {
			exifJSON = string(b)
		}
	}

	row := []string{
		r.ArtifactID,
		r.SourcePath,
		strconv.FormatInt(r.Metadata.SizeBytes, 10),
		strconv.Itoa(r.Metadata.Width),
		strconv.Itoa(r.Metadata.Height),
		r.Metadata.ColorMode,
		exifJSON,
	}
	for _, t := range a.targets {
		value := ""
		if v, ok := r.Values[t.Name]; ok && v.Found {
			value = strconv.FormatFloat(v.Float, 'f', -1, 64)
		}
		row = append(row, value)
	}
	return append(row, r.Err)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
