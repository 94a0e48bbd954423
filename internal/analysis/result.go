package analysis

// Result is the outcome of analyzing one stored artifact.
type Result struct {
	// ArtifactID is the artifact's canonical identifier.
	ArtifactID string
	// SourcePath is the artifact file on disk.
	SourcePath string
	// MonthDir is the MM-YYYY bucket the artifact lives in.
	MonthDir string
	// Metadata holds the image properties. Partially filled when the
	// file could not be fully decoded.
	Metadata Metadata
	// Grid is the detected table, nil on extraction failure.
	Grid Grid
	// Values maps target names to located values. Nil on failure.
	Values map[string]Value
	// Err describes the failure, empty on success.
	Err string
}

// OK reports whether the analysis produced a grid.
func (r *Result) OK() bool {
	return r.Err == ""
}
