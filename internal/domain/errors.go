package domain

import "errors"

// Collaborator-facing failures. Each is terminal for the call that returns it;
// the underlying cause stays in the error chain.
var (
	// ErrFetchFailed is a transport-level failure talking to the weather provider.
	ErrFetchFailed = errors.New("weather fetch failed")

	// ErrDataUnavailable means the provider answered without a usable hourly block.
	ErrDataUnavailable = errors.New("hourly weather data unavailable")

	// ErrExtractionFailed means the matched sample could not be read from the value arrays.
	ErrExtractionFailed = errors.New("weather value extraction failed")

	// ErrInvalidRequest marks input rejected at a service boundary.
	ErrInvalidRequest = errors.New("invalid prediction request")
)
