package ai

import "errors"

var (
	// ErrUpstreamUnavailable means the speech or generation service could
	// not be reached or answered with a server-side failure.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrNoCompletion means the generation service answered but returned
	// no content.
	ErrNoCompletion = errors.New("no completion returned")

	// ErrTranscription covers any rejection from the speech service that
	// is not an availability problem.
	ErrTranscription = errors.New("transcription failed")
)
