package domain

import "errors"

var (
	// ErrConfiguration signals a missing or invalid credential setting. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnauthorized signals a missing, malformed or unverifiable bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBadRequest signals an invalid request payload.
	ErrBadRequest = errors.New("bad request")
	// ErrNoDocuments signals that none of the requested files could be fetched.
	ErrNoDocuments = errors.New("no documents fetched")
	// ErrFetchFailed signals a single file fetch failure. Never reaches the caller.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrGeneration signals a text-generation backend failure.
	ErrGeneration = errors.New("generation failed")
	// ErrGenerationQuotaExceeded signals an exhausted generation token budget.
	ErrGenerationQuotaExceeded = errors.New("generation quota exceeded")
)
