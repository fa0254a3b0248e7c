package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSection(t *testing.T) {
	tests := []struct {
		input string
		want  Section
		ok    bool
	}{
		{"work", SectionWork, true},
		{"  Skills ", SectionSkills, true},
		{"BASICS", SectionBasics, true},
		{"education", SectionEducation, true},
		{"projects", SectionProjects, true},
		{"volunteer", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseSection(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestWorkEntry_IdentityKey(t *testing.T) {
	a := WorkEntry{Name: "Acme Corp", Position: "Senior Engineer"}
	b := WorkEntry{Name: "  acme   corp ", Position: "SENIOR ENGINEER"}
	c := WorkEntry{Name: "Acme Corp", Position: "Staff Engineer"}

	assert.Equal(t, "acme corp|senior engineer", a.IdentityKey())
	assert.Equal(t, a.IdentityKey(), b.IdentityKey())
	assert.NotEqual(t, a.IdentityKey(), c.IdentityKey())
}

func TestIdentityKey_TrailingSpaceInsideField(t *testing.T) {
	a := WorkEntry{Name: "Acme Corp ", Position: "Senior Engineer"}
	b := WorkEntry{Name: "Acme Corp", Position: " Senior Engineer"}
	assert.Equal(t, "acme corp|senior engineer", a.IdentityKey())
	assert.Equal(t, a.IdentityKey(), b.IdentityKey())
}

func TestEducationEntry_IdentityKey(t *testing.T) {
	a := EducationEntry{Institution: "State University", Area: "Computer Science"}
	b := EducationEntry{Institution: "state university", Area: "computer  science"}
	assert.Equal(t, a.IdentityKey(), b.IdentityKey())
}

func TestSearchText_SkipsEmptyFields(t *testing.T) {
	e := WorkEntry{Name: "Acme", Position: "", Summary: "Built REST APIs"}
	assert.Equal(t, "Acme Built REST APIs", e.SearchText())

	s := SkillEntry{Name: "Backend", Keywords: []string{"Go", "Python"}}
	assert.Equal(t, "Backend Go Python", s.SearchText())
}

func TestBasics_SearchText_IncludesLocation(t *testing.T) {
	b := Basics{
		Name:     "Jane Doe",
		Label:    "Software Engineer",
		Location: &Location{City: "Portland", Region: "OR"},
	}
	text := b.SearchText()
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Portland")
}

func TestPartialResume_Sections(t *testing.T) {
	p := &PartialResume{
		Skills: []SkillEntry{{Name: "Languages"}},
		Work:   []WorkEntry{{Name: "Acme"}},
	}
	// Canonical order regardless of declaration order.
	assert.Equal(t, []Section{SectionWork, SectionSkills}, p.Sections())

	var empty *PartialResume
	assert.True(t, empty.IsEmpty())
	assert.Nil(t, empty.Sections())
}

func TestPartialResume_Document(t *testing.T) {
	p := &PartialResume{
		Basics: &Basics{Name: "Jane Doe"},
		Work:   []WorkEntry{{Name: "Acme", Position: "Engineer"}},
	}
	doc := p.Document()
	require.NotNil(t, doc)
	assert.Equal(t, "Jane Doe", doc.Basics.Name)
	assert.Len(t, doc.Work, 1)
	// Absent sections become empty, not nil, so the document marshals with
	// all top-level keys present.
	assert.NotNil(t, doc.Skills)
	assert.Empty(t, doc.Skills)
}

func TestEmptyDocument(t *testing.T) {
	doc := EmptyDocument()
	assert.Empty(t, doc.Basics.Name)
	assert.NotNil(t, doc.Work)
	assert.NotNil(t, doc.Education)
	assert.NotNil(t, doc.Projects)
	assert.NotNil(t, doc.Skills)
}
