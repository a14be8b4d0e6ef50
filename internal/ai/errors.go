package ai

import "errors"

var (
	// ErrMissingAPIKey indicates the Gemini credential is not configured.
	ErrMissingAPIKey = errors.New("missing GOOGLE_GENERATIVE_AI_API_KEY configuration")

	// ErrGenerationFailed indicates the model call failed at the transport
	// or provider level.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrNoJSONFound indicates the model reply contains no brace-delimited span.
	ErrNoJSONFound = errors.New("no JSON found in response")

	// ErrMalformedJSON indicates the brace-delimited span is not valid JSON.
	ErrMalformedJSON = errors.New("malformed JSON in response")
)
