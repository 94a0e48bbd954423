package config

import "errors"

// Configuration validation errors.
var (
	// ErrMissingAppName indicates the application name is not set.
	ErrMissingAppName = errors.New("application name must be specified")

	// ErrInvalidEnvironment indicates an unknown environment value.
	ErrInvalidEnvironment = errors.New("invalid environment")

	// ErrMissingBaseURL indicates the scraper base URL is not set.
	ErrMissingBaseURL = errors.New("base URL must be specified")

	// ErrInvalidPageRange indicates start page or max pages is not positive.
	ErrInvalidPageRange = errors.New("start page and max pages must be positive")

	// ErrMissingOutputDir indicates the image output directory is not set.
	ErrMissingOutputDir = errors.New("output directory must be specified")

	// ErrInvalidWorkerCount indicates a negative worker count.
	ErrInvalidWorkerCount = errors.New("worker count cannot be negative")

	// ErrMissingDataDir indicates the analysis data directory is not set.
	ErrMissingDataDir = errors.New("data directory must be specified")

	// ErrMissingDetectorCommand indicates no table detector command is configured.
	ErrMissingDetectorCommand = errors.New("detector command must be specified")

	// ErrMissingTargetName indicates a target without an output column name.
	ErrMissingTargetName = errors.New("target name must be specified")

	// ErrIncompleteTarget indicates a target missing one of its three dimensions.
	ErrIncompleteTarget = errors.New("target requires location, fuel and metric")
)
