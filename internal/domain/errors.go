package domain

import "errors"

// Sentinel errors shared across use cases. Transport maps them to HTTP statuses.
var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation signals invalid input from the caller.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyQuestion signals a chat request with no usable question text.
	ErrEmptyQuestion = errors.New("empty question")
	// ErrInvalidCredentials signals a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized signals a missing or invalid auth token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals insufficient privileges for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrUpstream signals a third-party API failure (proxied endpoints).
	ErrUpstream = errors.New("upstream request failed")
	// ErrUpstreamNotConfigured signals a proxy whose API key is absent.
	ErrUpstreamNotConfigured = errors.New("upstream not configured")
	// ErrGeneratorUnavailable signals that the generative model cannot be
	// reached (missing key, transport failure, bad status, bad payload).
	// The chatbot never surfaces it; it only selects the fallback path.
	ErrGeneratorUnavailable = errors.New("generator unavailable")
)
