// Package schemas provides JSON Schema validation for resume documents.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-generator/internal/types"
)

//go:embed resume_schema.json
var resumeSchemaJSON string

var (
	compileOnce    sync.Once
	compiledSchema *gojsonschema.Schema
	compileErr     error
)

// ValidationError represents a schema validation failure with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load resume schema: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load resume schema: %s", e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("resume validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

func schema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		loader := gojsonschema.NewStringLoader(resumeSchemaJSON)
		compiledSchema, compileErr = gojsonschema.NewSchema(loader)
	})
	if compileErr != nil {
		return nil, &SchemaLoadError{Message: "schema compilation failed", Cause: compileErr}
	}
	return compiledSchema, nil
}

// ValidateDocument validates a full resume document against the embedded schema.
// Returns a *ValidationError when the document violates the schema.
func ValidateDocument(doc *types.ResumeDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal resume document: %w", err)
	}
	return ValidateJSON(raw)
}

// ValidatePartial validates a partial resume. Sections absent from the
// partial are left out of the validated payload entirely, so only the
// sections the caller supplied are checked.
func ValidatePartial(partial *types.PartialResume) error {
	payload := map[string]any{}
	if partial.Basics != nil {
		payload["basics"] = partial.Basics
	}
	if partial.Work != nil {
		payload["work"] = partial.Work
	}
	if partial.Education != nil {
		payload["education"] = partial.Education
	}
	if partial.Projects != nil {
		payload["projects"] = partial.Projects
	}
	if partial.Skills != nil {
		payload["skills"] = partial.Skills
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal partial resume: %w", err)
	}
	return ValidateJSON(raw)
}

// ValidateJSON validates raw JSON content against the embedded resume schema.
func ValidateJSON(raw []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &SchemaLoadError{Message: "document could not be validated", Cause: err}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
