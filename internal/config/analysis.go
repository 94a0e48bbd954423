package config

// Analysis defaults.
const (
	// DefaultMaxDimension caps the longer image side before detection.
	// Larger images are downscaled to keep OCR latency bounded.
	DefaultMaxDimension = 2000

	// DefaultHeaderRow is the grid row holding the location headers.
	DefaultHeaderRow = 1

	// DefaultFuelColumn is the grid column holding fuel type labels.
	DefaultFuelColumn = 0

	// DefaultMetricColumn is the grid column holding metric labels.
	DefaultMetricColumn = 1

	// DefaultFuzzyDistance is the maximum edit distance accepted when a
	// label does not match by normalized containment.
	DefaultFuzzyDistance = 2
)

// CropRegion is a fixed pixel crop applied before detection.
// A zero-value region disables cropping.
type CropRegion struct {
	X      int `yaml:"x" mapstructure:"x"`
	Y      int `yaml:"y" mapstructure:"y"`
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
}

// Enabled reports whether the crop region is set.
func (r CropRegion) Enabled() bool {
	return r.Width > 0 && r.Height > 0
}

// AnalysisConfig holds the image analysis phase settings.
type AnalysisConfig struct {
	// Workers is the analysis pool size. Zero means number of CPU cores.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// Force re-analyzes artifacts that already have results.
	Force bool `yaml:"force" mapstructure:"force"`
	// DataDir is where consolidated and per-table CSVs are written.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// DetectorCommand invokes the external table layout/OCR collaborator.
	// The image path is appended as the final argument; the command must
	// print detected tables as JSON cell grids on stdout.
	DetectorCommand []string `yaml:"detector_command" mapstructure:"detector_command"`
	// MaxDimension caps the longer image side before detection.
	MaxDimension int `yaml:"max_dimension" mapstructure:"max_dimension"`
	// Crop is an optional fixed crop applied before detection.
	Crop CropRegion `yaml:"crop" mapstructure:"crop"`
	// HeaderRow is the grid row holding location headers.
	HeaderRow int `yaml:"header_row" mapstructure:"header_row"`
	// FuelColumn is the grid column holding fuel type labels.
	FuelColumn int `yaml:"fuel_column" mapstructure:"fuel_column"`
	// MetricColumn is the grid column holding metric labels.
	MetricColumn int `yaml:"metric_column" mapstructure:"metric_column"`
	// RowOffset shifts the value cell relative to the matched row.
	RowOffset int `yaml:"row_offset" mapstructure:"row_offset"`
	// ColumnOffset shifts the value cell relative to the matched column.
	ColumnOffset int `yaml:"column_offset" mapstructure:"column_offset"`
	// FuzzyDistance is the maximum label edit distance accepted.
	FuzzyDistance int `yaml:"fuzzy_distance" mapstructure:"fuzzy_distance"`
}

// Validate checks if the analysis configuration is valid.
func (c *AnalysisConfig) Validate() error {
	if c.Workers < 0 {
		return ErrInvalidWorkerCount
	}
	if c.DataDir == "" {
		return ErrMissingDataDir
	}
	if len(c.DetectorCommand) == 0 {
		return ErrMissingDetectorCommand
	}
	return nil
}
