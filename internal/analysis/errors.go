package analysis

import "errors"

// Per-artifact analysis failures. All of these are recorded in the
// artifact's result and never abort sibling analyses.
var (
	// ErrNoTableDetected is returned when the layout/OCR collaborator
	// finds zero tables in an image.
	ErrNoTableDetected = errors.New("no table detected in image")

	// ErrExtraction wraps any collaborator failure during detection.
	ErrExtraction = errors.New("table extraction failed")

	// ErrNotNumeric is returned when a cell contains no digits after
	// stripping symbols. Recorded as "not found", never propagated.
	ErrNotNumeric = errors.New("cell value is not numeric")
)
