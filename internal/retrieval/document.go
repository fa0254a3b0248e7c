package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonathan/resume-generator/internal/types"
)

// CorruptFragmentError indicates a stored entry payload could not be
// decoded. This means the store and the code disagree about the data
// shape and points at a bug, not at bad user input.
type CorruptFragmentError struct {
	ID    string
	Cause error
}

func (e *CorruptFragmentError) Error() string {
	return fmt.Sprintf("corrupt stored fragment %s: %v", e.ID, e.Cause)
}

func (e *CorruptFragmentError) Unwrap() error {
	return e.Cause
}

// SectionSummary describes one section of the stored resume.
type SectionSummary struct {
	Entries    int `json:"entries"`
	Highlights int `json:"highlights"`
}

// Summary describes the stored resume without returning its content.
type Summary struct {
	TotalFragments int                              `json:"total_fragments"`
	Sections       map[types.Section]SectionSummary `json:"sections"`
}

// LoadDocument reconstructs the full resume document from the entry
// fragments in the store. Entries keep their original section order.
func (e *Engine) LoadDocument(ctx context.Context) (*types.ResumeDocument, error) {
	fragments, err := e.store.Scroll(ctx)
	if err != nil {
		return nil, err
	}
	return buildDocument(fragments)
}

// ProjectDocument assembles a document from ranked retrieval results:
// basics always come from the store, then every ranked fragment
// contributes its parent entry, in rank order. Sections hold their
// canonical places in the document; entries within a section follow the
// relevance ranking. An empty result projects to a basics-only document.
func (e *Engine) ProjectDocument(ctx context.Context, result *types.RetrievalResult) (*types.ResumeDocument, error) {
	fragments, err := e.store.Scroll(ctx)
	if err != nil {
		return nil, err
	}

	doc := types.EmptyDocument()
	byParent := make(map[string]types.Fragment)
	for _, frag := range fragments {
		if !frag.IsEntry() {
			continue
		}
		if frag.Section == types.SectionBasics {
			if err := json.Unmarshal(frag.Entry, &doc.Basics); err != nil {
				return nil, &CorruptFragmentError{ID: frag.ID, Cause: err}
			}
			continue
		}
		byParent[parentID(frag.Section, frag.ParentKey)] = frag
	}

	for _, sf := range result.Fragments {
		frag := sf.Fragment
		if frag.Section == types.SectionBasics {
			continue
		}
		entryFrag, ok := byParent[parentID(frag.Section, frag.ParentKey)]
		if !ok {
			return nil, &CorruptFragmentError{ID: frag.ID, Cause: fmt.Errorf("no entry fragment for parent %q", frag.ParentKey)}
		}
		if err := appendEntry(doc, entryFrag); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func parentID(section types.Section, parentKey string) string {
	return string(section) + "/" + parentKey
}

// Summarize reports per-section entry and highlight counts.
func (e *Engine) Summarize(ctx context.Context) (*Summary, error) {
	fragments, err := e.store.Scroll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalFragments: len(fragments),
		Sections:       make(map[types.Section]SectionSummary),
	}
	for _, frag := range fragments {
		s := summary.Sections[frag.Section]
		if frag.IsEntry() {
			s.Entries++
		} else {
			s.Highlights++
		}
		summary.Sections[frag.Section] = s
	}
	return summary, nil
}

func buildDocument(fragments []types.Fragment) (*types.ResumeDocument, error) {
	entries := make([]types.Fragment, 0, len(fragments))
	for _, frag := range fragments {
		if frag.IsEntry() {
			entries = append(entries, frag)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Section != entries[j].Section {
			return entries[i].Section.Order() < entries[j].Section.Order()
		}
		return entries[i].Position < entries[j].Position
	})

	doc := types.EmptyDocument()
	for _, frag := range entries {
		if len(frag.Entry) == 0 {
			return nil, &CorruptFragmentError{ID: frag.ID, Cause: fmt.Errorf("entry fragment has no entry payload")}
		}
		if err := appendEntry(doc, frag); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func appendEntry(doc *types.ResumeDocument, frag types.Fragment) error {
	switch frag.Section {
	case types.SectionBasics:
		var basics types.Basics
		if err := json.Unmarshal(frag.Entry, &basics); err != nil {
			return &CorruptFragmentError{ID: frag.ID, Cause: err}
		}
		doc.Basics = basics
	case types.SectionWork:
		var entry types.WorkEntry
		if err := json.Unmarshal(frag.Entry, &entry); err != nil {
			return &CorruptFragmentError{ID: frag.ID, Cause: err}
		}
		doc.Work = append(doc.Work, entry)
	case types.SectionEducation:
		var entry types.EducationEntry
		if err := json.Unmarshal(frag.Entry, &entry); err != nil {
			return &CorruptFragmentError{ID: frag.ID, Cause: err}
		}
		doc.Education = append(doc.Education, entry)
	case types.SectionProjects:
		var entry types.ProjectEntry
		if err := json.Unmarshal(frag.Entry, &entry); err != nil {
			return &CorruptFragmentError{ID: frag.ID, Cause: err}
		}
		doc.Projects = append(doc.Projects, entry)
	case types.SectionSkills:
		var entry types.SkillEntry
		if err := json.Unmarshal(frag.Entry, &entry); err != nil {
			return &CorruptFragmentError{ID: frag.ID, Cause: err}
		}
		doc.Skills = append(doc.Skills, entry)
	default:
		return &CorruptFragmentError{ID: frag.ID, Cause: fmt.Errorf("unknown section %q", frag.Section)}
	}
	return nil
}
