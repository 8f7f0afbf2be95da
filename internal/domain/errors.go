package domain

import "errors"

// Extraction taxonomy. Failures inside a single doc-id attempt or HTML
// technique are absorbed by the strategy; only these cross boundaries.
var (
	// ErrInvalidURL is returned when no shortcode can be extracted.
	// Fails fast; no network call is attempted.
	ErrInvalidURL = errors.New("invalid instagram post URL")

	// ErrMalformedResponse is returned when an endpoint expected to
	// return JSON hands back something else (typically an HTML page).
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNetwork is returned on DNS, connect, or timeout failures.
	ErrNetwork = errors.New("network failure")

	// ErrCaptionNotFound is returned when a strategy completed but no
	// caption field was populated. Distinct from network/parse failure.
	ErrCaptionNotFound = errors.New("no caption found")

	// ErrExhausted is returned when every strategy has been tried and
	// failed. The only extraction error surfaced to end users.
	ErrExhausted = errors.New("all extraction strategies failed")
)

// Recipe generation taxonomy, mirroring the generation service contract.
var (
	ErrRecipeInvalidInput = errors.New("invalid recipe generation input")
	ErrAuthRequired       = errors.New("recipe service authentication required")
	ErrForbidden          = errors.New("recipe service access forbidden")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrUpstream           = errors.New("recipe service upstream error")
	ErrUnreachable        = errors.New("recipe service unreachable")
)
