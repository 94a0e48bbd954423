package analysis

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/jonesrussell/ppicrawl/internal/config"
)

// minFuzzyLen guards the edit-distance fallback against trivially
// short labels, where a distance of 2 would match almost anything.
const minFuzzyLen = 4

// Value is one located target cell.
type Value struct {
	// Raw is the cell text as detected.
	Raw string
	// Float is the parsed numeric value. Valid only when Found.
	Float float64
	// Found reports whether the cell was located and parsed.
	Found bool
}

// Locator finds target value cells in detected grids. The grids are
// noisy: OCR mangles labels, merged headers leave blanks and rows come
// back with uneven lengths, so every lookup is bounds-checked and
// label matching is fuzzy.
type Locator struct {
	cfg config.AnalysisConfig
}

// NewLocator creates a locator with the given grid geometry settings.
func NewLocator(cfg config.AnalysisConfig) *Locator {
	return &Locator{cfg: cfg}
}

// Extract locates every target in the grid. Targets that cannot be
// located, or whose cell is not numeric, come back with Found false.
func (l *Locator) Extract(grid Grid, targets []config.Target) map[string]Value {
	values := make(map[string]Value, len(targets))
	for _, target := range targets {
		values[target.Name] = l.locate(grid, &target)
	}
	return values
}

func (l *Locator) locate(grid Grid, target *config.Target) Value {
	col, ok := l.findColumn(grid, target.LocationSynonyms())
	if !ok {
		return Value{}
	}
	row, ok := l.findRow(grid, target)
	if !ok {
		return Value{}
	}

	raw, ok := grid.Cell(row+l.cfg.RowOffset, col+l.cfg.ColumnOffset)
	if !ok {
		return Value{}
	}

	value, err := ParseNumeric(raw)
	if err != nil {
		return Value{Raw: raw}
	}
	return Value{Raw: raw, Float: value, Found: true}
}

// findColumn scans the header row for the first cell matching any of
// the location labels.
func (l *Locator) findColumn(grid Grid, labels []string) (int, bool) {
	if l.cfg.HeaderRow < 0 || l.cfg.HeaderRow >= len(grid) {
		return 0, false
	}
	for col, cell := range grid[l.cfg.HeaderRow] {
		if l.matchesAny(cell, labels) {
			return col, true
		}
	}
	return 0, false
}

// findRow scans the body rows for the first one whose fuel cell and
// metric cell both match the target.
func (l *Locator) findRow(grid Grid, target *config.Target) (int, bool) {
	fuelLabels := target.FuelSynonyms()
	metricLabels := target.MetricSynonyms()

	for row := l.cfg.HeaderRow + 1; row < len(grid); row++ {
		fuel, ok := grid.Cell(row, l.cfg.FuelColumn)
		if !ok || !l.matchesAny(fuel, fuelLabels) {
			continue
		}

		metric, _ := grid.Cell(row, l.cfg.MetricColumn)
		if target.MatchBlankMetric && strings.TrimSpace(metric) == "" {
			return row, true
		}
		if l.matchesAny(metric, metricLabels) {
			return row, true
		}
	}
	return 0, false
}

func (l *Locator) matchesAny(cell string, labels []string) bool {
	normCell := normalizeLabel(cell)
	if normCell == "" {
		return false
	}
	for _, label := range labels {
		if l.matches(normCell, normalizeLabel(label)) {
			return true
		}
	}
	return false
}

// matches accepts by containment first, then by edit distance for OCR
// misreads. Both inputs are already normalized.
func (l *Locator) matches(cell, label string) bool {
	if label == "" {
		return false
	}
	if strings.Contains(cell, label) {
		return true
	}
	if len(cell) < minFuzzyLen || len(label) < minFuzzyLen {
		return false
	}
	return matchr.DamerauLevenshtein(cell, label) <= l.cfg.FuzzyDistance
}

// normalizeLabel lowercases and collapses internal whitespace so that
// detector spacing quirks do not defeat containment matching.
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
