package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a request with neither query text nor query image.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrVectorDimMismatch signals a stored embedding whose length disagrees with the query vector.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEncoderUnavailable signals an embedding provider failure.
	ErrEncoderUnavailable = errors.New("encoder unavailable")
	// ErrGenerationUnavailable signals a generation provider failure or timeout.
	ErrGenerationUnavailable = errors.New("generation unavailable")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)
