package service

import "errors"

// Extraction failures, surfaced to the upload flow as distinct
// user-facing messages. None are retried here; the caller decides.
var (
	ErrExtractionTimeout = errors.New("document extraction timed out")
	ErrInvalidAPIKey     = errors.New("AI API key was rejected")
	ErrQuotaExceeded     = errors.New("AI quota or rate limit exceeded")
	ErrMalformedResponse = errors.New("AI returned a malformed response")
)

// Lifecycle failures.
var (
	ErrExamNotFound      = errors.New("exam not found")
	ErrExamClosed        = errors.New("exam is not open for new attempts")
	ErrUnresolvedAnswers = errors.New("exam has unresolved correct answers")
)
