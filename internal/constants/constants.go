// Package constants provides a centralized location for configuration
// defaults and magic numbers used throughout the benchscan application.
package constants

import "time"

// Fetch client constants
const (
	// DefaultRequestTimeout bounds a single GitHub API request.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultRetries is the retry ceiling for a single fetch operation.
	// Rate-limit retries and transient retries are counted separately,
	// each against this ceiling.
	DefaultRetries = 3

	// TransientRetryDelay is the fixed pause before retrying a request
	// that failed with a network-level error.
	TransientRetryDelay = 5 * time.Second

	// RateLimitResetMargin is added to the server-declared reset instant
	// before retrying, to absorb clock skew.
	RateLimitResetMargin = 1 * time.Second
)

// Orchestrator constants
const (
	// FetchCourtesyPause is the pause after each genuine network fetch
	// (never after cache hits) as a rate-limit buffer.
	FetchCourtesyPause = 200 * time.Millisecond
)

// Cache constants
const (
	// DefaultCacheExpiry is the maximum age of a cached issue/PR payload
	// before it is treated as absent on read.
	DefaultCacheExpiry = 7 * 24 * time.Hour
)
