package services

import "fmt"

// Chat errors are typed so internal logic and tests can branch on kind; the
// handler layer collapses them to a display string for the legacy response
// contract.

// EmptyPromptError: nothing to send, no storage writes, no gateway call.
type EmptyPromptError struct{}

func (e *EmptyPromptError) Error() string {
	return "Please enter a text prompt or upload an image."
}

// ImageDecodeError: uploaded bytes are not a readable image. Raised before
// any persistence, so no rows exist for the failed turn.
type ImageDecodeError struct{ Err error }

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("Image Processing Error: %v", e.Err)
}

func (e *ImageDecodeError) Unwrap() error { return e.Err }

// ImageTooLargeError: upload exceeds the configured byte limit.
type ImageTooLargeError struct{ Limit int }

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("Image is too large. The limit is %d bytes.", e.Limit)
}

// PromptTooLongError: text prompt exceeds the configured character limit.
type PromptTooLongError struct{ Limit int }

func (e *PromptTooLongError) Error() string {
	return fmt.Sprintf("Prompt is too long. The limit is %d characters.", e.Limit)
}

// GatewayUnavailableError: a provider session could not be established.
// The conversation remains usable for retry.
type GatewayUnavailableError struct{ Err error }

func (e *GatewayUnavailableError) Error() string {
	return fmt.Sprintf("AI Service Error: Could not connect to the AI service. Details: %v", e.Err)
}

func (e *GatewayUnavailableError) Unwrap() error { return e.Err }

// GatewayRequestError: a specific send failed. The user's turn stays
// persisted; only the AI reply is withheld.
type GatewayRequestError struct{ Err error }

func (e *GatewayRequestError) Error() string {
	return fmt.Sprintf("AI Service Error: Could not process request. Details: %v", e.Err)
}

func (e *GatewayRequestError) Unwrap() error { return e.Err }
