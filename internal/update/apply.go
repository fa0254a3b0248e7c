package update

import (
	"github.com/jonathan/resume-generator/internal/types"
)

// applyResult tracks what an apply pass changed.
type applyResult struct {
	sections []types.Section
	added    int
	modified int
}

// applyUpdate folds a partial resume into the current document. Replace
// mode never reaches here; it builds the new document from the partial
// directly. Only sections present in the partial are touched.
//
// merge matches incoming entries against existing ones by identity key
// and merges field-by-field; unmatched entries append. append always
// adds the incoming entries, duplicates included; fragment IDs stay
// distinct because fragmentization numbers repeated identities.
func applyUpdate(current *types.ResumeDocument, partial *types.PartialResume, mode types.UpdateMode) (*types.ResumeDocument, *types.UpdateStats, error) {
	doc := cloneDocument(current)
	res := &applyResult{}

	if partial.Basics != nil {
		applyBasics(doc, *partial.Basics, mode, res)
	}
	if len(partial.Work) > 0 {
		res.sections = append(res.sections, types.SectionWork)
		doc.Work = applyEntries(doc.Work, partial.Work, mode, mergeWorkEntry, res)
	}
	if len(partial.Education) > 0 {
		res.sections = append(res.sections, types.SectionEducation)
		doc.Education = applyEntries(doc.Education, partial.Education, mode, mergeEducationEntry, res)
	}
	if len(partial.Projects) > 0 {
		res.sections = append(res.sections, types.SectionProjects)
		doc.Projects = applyEntries(doc.Projects, partial.Projects, mode, mergeProjectEntry, res)
	}
	if len(partial.Skills) > 0 {
		res.sections = append(res.sections, types.SectionSkills)
		doc.Skills = applyEntries(doc.Skills, partial.Skills, mode, mergeSkillEntry, res)
	}

	stats := &types.UpdateStats{
		UpdatedSections: res.sections,
		NewEntries:      res.added,
		ModifiedEntries: res.modified,
	}
	return doc, stats, nil
}

func applyBasics(doc *types.ResumeDocument, incoming types.Basics, _ types.UpdateMode, res *applyResult) {
	res.sections = append(res.sections, types.SectionBasics)
	// Basics is a singleton: merge and append both merge into it.
	doc.Basics = mergeBasics(doc.Basics, incoming)
	res.modified++
}

// identified is any entry that carries a section-unique identity.
type identified interface {
	IdentityKey() string
}

func applyEntries[T identified](existing, incoming []T, mode types.UpdateMode, merge func(old, in T) T, res *applyResult) []T {
	if mode == types.ModeAppend {
		res.added += len(incoming)
		return append(append([]T(nil), existing...), incoming...)
	}

	out := append([]T(nil), existing...)
	// When an identity occurs more than once (after appends), merge
	// targets the most recent occurrence.
	index := make(map[string]int, len(out))
	for i, entry := range out {
		index[entry.IdentityKey()] = i
	}

	for _, entry := range dedupe(incoming, merge) {
		if i, ok := index[entry.IdentityKey()]; ok {
			out[i] = merge(out[i], entry)
			res.modified++
			continue
		}
		out = append(out, entry)
		index[entry.IdentityKey()] = len(out) - 1
		res.added++
	}
	return out
}

// dedupe collapses incoming entries that share an identity so the
// resulting section never holds two entries with the same key.
func dedupe[T identified](entries []T, merge func(old, in T) T) []T {
	out := make([]T, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, entry := range entries {
		if i, ok := index[entry.IdentityKey()]; ok {
			out[i] = merge(out[i], entry)
			continue
		}
		out = append(out, entry)
		index[entry.IdentityKey()] = len(out) - 1
	}
	return out
}

func mergeBasics(old, in types.Basics) types.Basics {
	merged := old
	setIf(&merged.Name, in.Name)
	setIf(&merged.Label, in.Label)
	setIf(&merged.Image, in.Image)
	setIf(&merged.Email, in.Email)
	setIf(&merged.Phone, in.Phone)
	setIf(&merged.URL, in.URL)
	setIf(&merged.Summary, in.Summary)
	if in.Location != nil {
		merged.Location = in.Location
	}
	if len(in.Profiles) > 0 {
		merged.Profiles = in.Profiles
	}
	return merged
}

func mergeWorkEntry(old, in types.WorkEntry) types.WorkEntry {
	merged := old
	setIf(&merged.Name, in.Name)
	setIf(&merged.Position, in.Position)
	setIf(&merged.URL, in.URL)
	setIf(&merged.StartDate, in.StartDate)
	setIf(&merged.EndDate, in.EndDate)
	setIf(&merged.Summary, in.Summary)
	merged.Highlights = mergeStrings(old.Highlights, in.Highlights)
	return merged
}

func mergeEducationEntry(old, in types.EducationEntry) types.EducationEntry {
	merged := old
	setIf(&merged.Institution, in.Institution)
	setIf(&merged.URL, in.URL)
	setIf(&merged.Area, in.Area)
	setIf(&merged.StudyType, in.StudyType)
	setIf(&merged.StartDate, in.StartDate)
	setIf(&merged.EndDate, in.EndDate)
	setIf(&merged.Score, in.Score)
	merged.Courses = mergeStrings(old.Courses, in.Courses)
	return merged
}

func mergeProjectEntry(old, in types.ProjectEntry) types.ProjectEntry {
	merged := old
	setIf(&merged.Name, in.Name)
	setIf(&merged.Description, in.Description)
	setIf(&merged.StartDate, in.StartDate)
	setIf(&merged.EndDate, in.EndDate)
	setIf(&merged.URL, in.URL)
	setIf(&merged.Entity, in.Entity)
	setIf(&merged.Type, in.Type)
	merged.Highlights = mergeStrings(old.Highlights, in.Highlights)
	merged.Keywords = mergeStrings(old.Keywords, in.Keywords)
	merged.Roles = mergeStrings(old.Roles, in.Roles)
	return merged
}

func mergeSkillEntry(old, in types.SkillEntry) types.SkillEntry {
	merged := old
	setIf(&merged.Name, in.Name)
	setIf(&merged.Level, in.Level)
	merged.Keywords = mergeStrings(old.Keywords, in.Keywords)
	return merged
}

func setIf(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

// mergeStrings appends new values not already present, preserving order.
func mergeStrings(old, in []string) []string {
	if len(in) == 0 {
		return old
	}
	seen := make(map[string]bool, len(old))
	out := append([]string(nil), old...)
	for _, s := range old {
		seen[s] = true
	}
	for _, s := range in {
		if !seen[s] {
			out = append(out, s)
			seen[s] = true
		}
	}
	return out
}

func cloneDocument(doc *types.ResumeDocument) *types.ResumeDocument {
	clone := &types.ResumeDocument{Schema: doc.Schema, Basics: doc.Basics}
	clone.Work = append([]types.WorkEntry(nil), doc.Work...)
	clone.Education = append([]types.EducationEntry(nil), doc.Education...)
	clone.Projects = append([]types.ProjectEntry(nil), doc.Projects...)
	clone.Skills = append([]types.SkillEntry(nil), doc.Skills...)
	return clone
}
