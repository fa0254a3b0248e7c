package ingestion

import "fmt"

// InvalidContentError indicates the submitted content could not be
// understood as resume material. It is a caller error.
type InvalidContentError struct {
	Message string
	Cause   error
}

func (e *InvalidContentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid content: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid content: %s", e.Message)
}

func (e *InvalidContentError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError indicates the LLM parser produced output that
// failed structural validation even after a corrective re-prompt.
type MalformedResponseError struct {
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("content parser returned malformed output: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// APICallError indicates the LLM parser was unreachable.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("content parsing failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("content parsing failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
