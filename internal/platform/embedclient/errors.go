package embedclient

import "errors"

// ErrUpstreamUnavailable signals a retriable failure reaching the
// embedding model.
var ErrUpstreamUnavailable = errors.New("embedding: upstream unavailable")

// ErrInputInvalid signals a non-retriable input problem: empty text or
// text exceeding the model's input limit.
var ErrInputInvalid = errors.New("embedding: input invalid")

// BatchError is the per-index failure returned alongside a partial
// EmbedBatch result.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return e.Err.Error()
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
