package scraper

import "errors"

// Error taxonomy for the download phase. Transient failures have
// already been retried by the page client; what surfaces here is the
// final outcome.
var (
	// ErrNotFound is returned for a 404 response. On a listing page it
	// signals the end of pagination.
	ErrNotFound = errors.New("page not found")

	// ErrPermanent is returned for non-retryable HTTP failures (4xx
	// other than 404).
	ErrPermanent = errors.New("permanent fetch failure")

	// ErrListingMarkup is returned when a listing page does not contain
	// the expected markup. It usually means the site layout changed and
	// is not retryable.
	ErrListingMarkup = errors.New("listing markup not recognized")

	// ErrNoImage is returned when a post contains no qualifying report
	// image. Recorded per post, never fatal to the run.
	ErrNoImage = errors.New("no qualifying image found in post")
)
