package core

import "errors"

// Generation failure taxonomy. Transport and status failures come from the
// backend; the rest are produced while digesting its response.
var (
	// ErrUpstream is a transport-level failure reaching the backend.
	ErrUpstream = errors.New("generation backend unreachable")
	// ErrUpstreamRejected is a non-success status from the backend.
	ErrUpstreamRejected = errors.New("generation backend rejected the request")
	// ErrMalformedEnvelope means the response lacked the expected
	// candidates/content/parts text payload.
	ErrMalformedEnvelope = errors.New("malformed response envelope")
	// ErrInvalidJSON means the payload text did not parse as JSON.
	ErrInvalidJSON = errors.New("response payload is not valid JSON")
	// ErrSchemaViolation means the parsed payload failed validation.
	ErrSchemaViolation = errors.New("response payload violates the output schema")
	// ErrExhausted means best-effort mode ran out of retry attempts.
	ErrExhausted = errors.New("generation retries exhausted")

	// ErrDocumentTooLarge is returned by the summary service when a document
	// fails the byte or token pre-check.
	ErrDocumentTooLarge = errors.New("document exceeds the generation limits")
	// ErrUnreadableDocument means the upload was not a parseable PDF.
	ErrUnreadableDocument = errors.New("document could not be read")
)
