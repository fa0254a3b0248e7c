package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-generator/internal/types"
)

func TestValidateDocument_Valid(t *testing.T) {
	doc := &types.ResumeDocument{
		Basics: types.Basics{
			Name:    "Ada Lovelace",
			Label:   "Software Engineer",
			Email:   "ada@example.com",
			Summary: "Engineer with a focus on distributed systems.",
		},
		Work: []types.WorkEntry{
			{
				Name:       "Analytical Engines Ltd",
				Position:   "Staff Engineer",
				StartDate:  "2019-03",
				Highlights: []string{"Led migration to event-driven architecture"},
			},
		},
		Education: []types.EducationEntry{
			{Institution: "University of London", Area: "Mathematics", StudyType: "BSc"},
		},
		Projects: []types.ProjectEntry{
			{Name: "difference-engine", Description: "Mechanical computation toolkit"},
		},
		Skills: []types.SkillEntry{
			{Name: "Go", Level: "Advanced", Keywords: []string{"concurrency", "gRPC"}},
		},
	}

	err := ValidateDocument(doc)
	assert.NoError(t, err)
}

func TestValidateDocument_EmptyIsValid(t *testing.T) {
	err := ValidateDocument(types.EmptyDocument())
	assert.NoError(t, err)
}

func TestValidateDocument_WorkEntryWithoutIdentity(t *testing.T) {
	doc := types.EmptyDocument()
	doc.Work = []types.WorkEntry{
		{Summary: "Did some things", StartDate: "2020-01"},
	}

	err := ValidateDocument(doc)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotEmpty(t, ve.Errors)
	assert.Contains(t, err.Error(), "work")
}

func TestValidateDocument_EducationRequiresInstitution(t *testing.T) {
	doc := types.EmptyDocument()
	doc.Education = []types.EducationEntry{
		{Area: "Physics"},
	}

	err := ValidateDocument(doc)
	require.Error(t, err)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestValidateJSON_RejectsWrongTypes(t *testing.T) {
	raw := []byte(`{"skills": [{"name": "Go", "keywords": "not-an-array"}]}`)

	err := ValidateJSON(raw)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "keywords")
}

func TestValidateJSON_RejectsUnknownSections(t *testing.T) {
	raw := []byte(`{"awards": [{"title": "Best Engine"}]}`)

	err := ValidateJSON(raw)
	require.Error(t, err)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestValidateJSON_MalformedInput(t *testing.T) {
	err := ValidateJSON([]byte(`{"basics": `))
	require.Error(t, err)

	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}

func TestValidatePartial_OnlySuppliedSectionsChecked(t *testing.T) {
	partial := &types.PartialResume{
		Skills: []types.SkillEntry{
			{Name: "Python"},
			{Name: "Docker"},
		},
	}

	err := ValidatePartial(partial)
	assert.NoError(t, err)
}

func TestValidatePartial_InvalidSection(t *testing.T) {
	partial := &types.PartialResume{
		Projects: []types.ProjectEntry{
			{Description: "A project with no name"},
		},
	}

	err := ValidatePartial(partial)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "name")
}

func TestValidationError_MessageFormat(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "work.0", Message: "something is off"},
	}}
	assert.Contains(t, ve.Error(), "1. work.0: something is off")
}
