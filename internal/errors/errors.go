// internal/errors/errors.go
package appErrors

import (
	"fmt"
	"strings"
)

// MissingFieldsError reports template placeholders absent from the dataset.
// It is raised before any send attempt; the batch does not start.
type MissingFieldsError struct {
	Missing []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing placeholders in dataset: %s", strings.Join(e.Missing, ", "))
}

// Helper constructor
func NewMissingFields(missing []string) error {
	return &MissingFieldsError{Missing: missing}
}

// RenderError means template substitution failed for a specific row.
type RenderError struct {
	Reason string
}

func (e *RenderError) Error() string {
	return "render failed: " + e.Reason
}

func NewRenderError(reason string) error {
	return &RenderError{Reason: reason}
}

// DocumentError means the invoice document could not be generated for a row.
type DocumentError struct {
	Err error
}

func (e *DocumentError) Error() string {
	return "invoice generation failed: " + e.Err.Error()
}

func (e *DocumentError) Unwrap() error { return e.Err }

func NewDocumentError(err error) error {
	return &DocumentError{Err: err}
}

// SubmissionError means the transport rejected or failed one specific send.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return "submission failed: " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func NewSubmissionError(err error) error {
	return &SubmissionError{Err: err}
}

// ConnectionError means the initial connect/authenticate failed. It aborts
// the whole batch before any row is processed.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "smtp connection failed: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func NewConnectionError(err error) error {
	return &ConnectionError{Err: err}
}
