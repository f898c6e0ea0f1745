package extractor

import "errors"

var (
	// ErrUpstreamUnavailable wraps a transient failure calling the model.
	ErrUpstreamUnavailable = errors.New("extractor: upstream unavailable")
	// ErrNotFound is returned by Status/Result when no job exists for a tender.
	ErrNotFound = errors.New("extractor: no extraction job for tender")
)
