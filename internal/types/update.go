// Package types provides type definitions for structured data used throughout the resume-generator system.
package types

import "github.com/go-playground/validator/v10"

// UpdateMode selects how ingested content is applied to the stored resume.
type UpdateMode string

// Update modes. Replace is the recommended path: merge and append have
// inherently ambiguous edge cases around entry identity.
const (
	ModeMerge   UpdateMode = "merge"
	ModeReplace UpdateMode = "replace"
	ModeAppend  UpdateMode = "append"
)

// ContentType describes the format of ingested content. Auto triggers
// detection before parsing.
type ContentType string

// Supported content types for ingestion.
const (
	ContentAuto     ContentType = "auto"
	ContentJSON     ContentType = "json"
	ContentMarkdown ContentType = "markdown"
	ContentText     ContentType = "text"
)

// UpdateRequest is the external representation of a resume update call.
// It is consumed by the update engine and never persisted itself; only its
// effect on the stored document is durable.
type UpdateRequest struct {
	Content     string      `json:"content" validate:"required"`
	UpdateMode  UpdateMode  `json:"update_mode" validate:"required,oneof=merge replace append"`
	ContentType ContentType `json:"content_type" validate:"omitempty,oneof=auto json markdown text"`
	SectionHint Section     `json:"section_hint,omitempty" validate:"omitempty,oneof=basics work skills projects education"`
}

// Validate validates the UpdateRequest using the validator.
func (r *UpdateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Normalize fills in defaults for optional fields.
func (r *UpdateRequest) Normalize() {
	if r.ContentType == "" {
		r.ContentType = ContentAuto
	}
}

// UpdateStats summarizes the effect of an applied update.
type UpdateStats struct {
	UpdatedSections []Section `json:"updated_sections"`
	NewEntries      int       `json:"new_entries"`
	ModifiedEntries int       `json:"modified_entries"`
	FragmentsStored int       `json:"fragments_stored"`
}
