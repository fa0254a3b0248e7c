// Package types provides type definitions for structured data used throughout the resume-generator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Section identifies one of the five canonical resume sections.
type Section string

// Canonical resume sections. Every entry belongs to exactly one section;
// moving an entry between sections is modeled as delete+insert.
const (
	SectionBasics    Section = "basics"
	SectionWork      Section = "work"
	SectionEducation Section = "education"
	SectionProjects  Section = "projects"
	SectionSkills    Section = "skills"
)

// SectionOrder is the canonical ordering of sections in an assembled document.
var SectionOrder = []Section{SectionBasics, SectionWork, SectionEducation, SectionProjects, SectionSkills}

// Order returns the section's index in the canonical ordering. Unknown
// sections sort last.
func (s Section) Order() int {
	for i, sec := range SectionOrder {
		if s == sec {
			return i
		}
	}
	return len(SectionOrder)
}

// ParseSection validates a section name. Returns false for anything outside
// the five canonical sections.
func ParseSection(s string) (Section, bool) {
	switch Section(strings.ToLower(strings.TrimSpace(s))) {
	case SectionBasics:
		return SectionBasics, true
	case SectionWork:
		return SectionWork, true
	case SectionEducation:
		return SectionEducation, true
	case SectionProjects:
		return SectionProjects, true
	case SectionSkills:
		return SectionSkills, true
	}
	return "", false
}

// ResumeDocument is the canonical JSON-Resume-shaped record.
type ResumeDocument struct {
	Schema    string           `json:"$schema,omitempty"`
	Basics    Basics           `json:"basics"`
	Work      []WorkEntry      `json:"work,omitempty"`
	Education []EducationEntry `json:"education,omitempty"`
	Projects  []ProjectEntry   `json:"projects,omitempty"`
	Skills    []SkillEntry     `json:"skills,omitempty"`
}

// Basics holds name, contact information and the professional summary.
type Basics struct {
	Name     string    `json:"name,omitempty"`
	Label    string    `json:"label,omitempty"`
	Image    string    `json:"image,omitempty"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	URL      string    `json:"url,omitempty"`
	Summary  string    `json:"summary,omitempty"`
	Location *Location `json:"location,omitempty"`
	Profiles []Profile `json:"profiles,omitempty"`
}

// Location is the nested location object of the basics section.
type Location struct {
	Address     string `json:"address,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Region      string `json:"region,omitempty"`
}

// Profile is a social or professional network profile link.
type Profile struct {
	Network  string `json:"network,omitempty"`
	Username string `json:"username,omitempty"`
	URL      string `json:"url,omitempty"`
}

// WorkEntry is a single work experience entry.
type WorkEntry struct {
	Name       string   `json:"name,omitempty"`
	Position   string   `json:"position,omitempty"`
	URL        string   `json:"url,omitempty"`
	StartDate  string   `json:"startDate,omitempty"`
	EndDate    string   `json:"endDate,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// EducationEntry is a single education entry.
type EducationEntry struct {
	Institution string   `json:"institution,omitempty"`
	URL         string   `json:"url,omitempty"`
	Area        string   `json:"area,omitempty"`
	StudyType   string   `json:"studyType,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Score       string   `json:"score,omitempty"`
	Courses     []string `json:"courses,omitempty"`
}

// ProjectEntry is a single project entry.
type ProjectEntry struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	URL         string   `json:"url,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Entity      string   `json:"entity,omitempty"`
	Type        string   `json:"type,omitempty"`
}

// SkillEntry is a single skill group with its keywords.
type SkillEntry struct {
	Name     string   `json:"name,omitempty"`
	Level    string   `json:"level,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// EmptyDocument returns a blank document with all sections initialized,
// suitable as a template response when nothing is stored yet.
func EmptyDocument() *ResumeDocument {
	return &ResumeDocument{
		Work:      []WorkEntry{},
		Education: []EducationEntry{},
		Projects:  []ProjectEntry{},
		Skills:    []SkillEntry{},
	}
}

// normalizeKey lowercases and collapses whitespace in each part so that
// identity keys are stable across cosmetic differences in input. Parts
// are collapsed individually; otherwise stray spaces survive next to the
// separator.
func normalizeKey(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, part := range parts {
		normalized[i] = strings.Join(strings.Fields(strings.ToLower(part)), " ")
	}
	return strings.Join(normalized, "|")
}

// IdentityKey returns the normalized identity used to match a work entry
// during merge: lowercased company plus position.
func (e WorkEntry) IdentityKey() string {
	return normalizeKey(e.Name, e.Position)
}

// IdentityKey returns the normalized identity of an education entry:
// lowercased institution plus area of study.
func (e EducationEntry) IdentityKey() string {
	return normalizeKey(e.Institution, e.Area)
}

// IdentityKey returns the normalized identity of a project entry.
func (e ProjectEntry) IdentityKey() string {
	return normalizeKey(e.Name)
}

// IdentityKey returns the normalized identity of a skill group.
func (e SkillEntry) IdentityKey() string {
	return normalizeKey(e.Name)
}

// SearchText returns the embeddable text of the basics section.
func (b Basics) SearchText() string {
	parts := []string{b.Name, b.Label, b.Summary}
	if b.Location != nil {
		parts = append(parts, b.Location.City, b.Location.Region, b.Location.CountryCode)
	}
	return joinNonEmpty(parts)
}

// SearchText returns the embeddable text of a work entry (without highlights,
// which become their own fragments).
func (e WorkEntry) SearchText() string {
	return joinNonEmpty([]string{e.Name, e.Position, e.Summary})
}

// SearchText returns the embeddable text of an education entry.
func (e EducationEntry) SearchText() string {
	parts := []string{e.Institution, e.Area, e.StudyType}
	parts = append(parts, e.Courses...)
	return joinNonEmpty(parts)
}

// SearchText returns the embeddable text of a project entry (without
// highlights, which become their own fragments).
func (e ProjectEntry) SearchText() string {
	parts := []string{e.Name, e.Description}
	parts = append(parts, e.Keywords...)
	return joinNonEmpty(parts)
}

// SearchText returns the embeddable text of a skill group.
func (e SkillEntry) SearchText() string {
	parts := []string{e.Name, e.Level}
	parts = append(parts, e.Keywords...)
	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, " ")
}

// PartialResume is a subset of a resume produced by the content normalizer.
// A nil Basics pointer or an empty section slice means the section is absent
// from the input, not that it should be emptied.
type PartialResume struct {
	Basics    *Basics          `json:"basics,omitempty"`
	Work      []WorkEntry      `json:"work,omitempty"`
	Education []EducationEntry `json:"education,omitempty"`
	Projects  []ProjectEntry   `json:"projects,omitempty"`
	Skills    []SkillEntry     `json:"skills,omitempty"`
}

// IsEmpty reports whether the partial resume carries no content at all.
func (p *PartialResume) IsEmpty() bool {
	return p == nil ||
		(p.Basics == nil && len(p.Work) == 0 && len(p.Education) == 0 &&
			len(p.Projects) == 0 && len(p.Skills) == 0)
}

// Sections returns the sections present in the partial resume, in
// canonical order.
func (p *PartialResume) Sections() []Section {
	if p == nil {
		return nil
	}
	var present []Section
	if p.Basics != nil {
		present = append(present, SectionBasics)
	}
	if len(p.Work) > 0 {
		present = append(present, SectionWork)
	}
	if len(p.Education) > 0 {
		present = append(present, SectionEducation)
	}
	if len(p.Projects) > 0 {
		present = append(present, SectionProjects)
	}
	if len(p.Skills) > 0 {
		present = append(present, SectionSkills)
	}
	return present
}

// Document converts a partial resume into a full document, filling absent
// sections with empty values. Used by replace mode, where the partial
// becomes the entire new record.
func (p *PartialResume) Document() *ResumeDocument {
	doc := EmptyDocument()
	if p == nil {
		return doc
	}
	if p.Basics != nil {
		doc.Basics = *p.Basics
	}
	if len(p.Work) > 0 {
		doc.Work = append(doc.Work, p.Work...)
	}
	if len(p.Education) > 0 {
		doc.Education = append(doc.Education, p.Education...)
	}
	if len(p.Projects) > 0 {
		doc.Projects = append(doc.Projects, p.Projects...)
	}
	if len(p.Skills) > 0 {
		doc.Skills = append(doc.Skills, p.Skills...)
	}
	return doc
}
