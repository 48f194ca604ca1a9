package core

import "errors"

// Error kinds surfaced by the pipeline. Callers match them with errors.Is.
var (
	// ErrInvalidURL means the input is not a book URL on the source host.
	ErrInvalidURL = errors.New("invalid url")
	// ErrNetwork means a request failed or returned a non-2xx status.
	ErrNetwork = errors.New("network error")
	// ErrPaginationNotFound means the last chapter could not be determined.
	ErrPaginationNotFound = errors.New("pagination not found")
	// ErrContentNotFound means a page lacked the expected content block.
	ErrContentNotFound = errors.New("content not found")
)
