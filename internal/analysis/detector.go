package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/jonesrussell/ppicrawl/internal/logger"
)

// Grid is one detected table: ordered rows of cell strings. Rows may
// have heterogeneous lengths; a ragged grid is tolerated everywhere.
type Grid [][]string

// Cell returns the cell at (row, col), reporting false when the
// coordinates fall outside the grid or past a short row's end.
func (g Grid) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(g) {
		return "", false
	}
	if col < 0 || col >= len(g[row]) {
		return "", false
	}
	return g[row][col], true
}

// TableDetector is the external layout/OCR collaborator. It returns
// detected tables in detection order, possibly zero, with no guarantee
// of row or column regularity.
type TableDetector interface {
	Detect(ctx context.Context, imagePath string) ([]Grid, error)
}

// detectedTable is the collaborator's wire format for one table.
type detectedTable struct {
	Rows [][]string `json:"rows"`
}

// CommandDetector invokes the collaborator as a subprocess. The image
// path is appended as the final argument; the command must print a
// JSON array of {"rows": [[...]]} objects on stdout.
type CommandDetector struct {
	command []string
	logger  logger.Interface
}

// NewCommandDetector creates a detector for the configured command.
func NewCommandDetector(command []string, log logger.Interface) *CommandDetector {
	return &CommandDetector{
		command: command,
		logger:  log.WithComponent("detector"),
	}
}

// Detect runs the collaborator on one image.
func (d *CommandDetector) Detect(ctx context.Context, imagePath string) ([]Grid, error) {
	args := append(append([]string{}, d.command[1:]...), imagePath)
	cmd := exec.CommandContext(ctx, d.command[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("detector command failed: %w (stderr: %s)",
			err, bytes.TrimSpace(stderr.Bytes()))
	}

	var tables []detectedTable
	if err := json.Unmarshal(stdout.Bytes(), &tables); err != nil {
		return nil, fmt.Errorf("failed to decode detector output: %w", err)
	}

	grids := make([]Grid, 0, len(tables))
	for _, t := range tables {
		grids = append(grids, Grid(t.Rows))
	}

	d.logger.Debug("detection finished", "image", imagePath, "tables", len(grids))
	return grids, nil
}
