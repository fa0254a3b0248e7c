package update

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-generator/internal/types"
)

// basicsParentKey is the fixed parent key of the basics singleton.
const basicsParentKey = "basics"

// Fragmentize converts a full document into its vector store fragments:
// one entry fragment per entry (carrying the entry JSON and its position
// within the section) plus one fragment per highlight. Fragment IDs are
// deterministic, so fragmentizing the same document twice yields the
// same points. A repeated identity within a section (legal after append)
// gets an occurrence-numbered parent key so its fragments stay distinct.
func Fragmentize(doc *types.ResumeDocument) ([]types.Fragment, error) {
	var fragments []types.Fragment
	keys := keyCounter{}

	if doc.Basics.SearchText() != "" {
		frag, err := entryFragment(types.SectionBasics, basicsParentKey, 0, doc.Basics.SearchText(), doc.Basics)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frag)
	}

	for i, entry := range doc.Work {
		key := keys.parentKey(types.SectionWork, entry.IdentityKey())
		frag, err := entryFragment(types.SectionWork, key, i, entry.SearchText(), entry)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frag)
		fragments = append(fragments, highlightFragments(types.SectionWork, key, i, entry.Highlights)...)
	}

	for i, entry := range doc.Education {
		key := keys.parentKey(types.SectionEducation, entry.IdentityKey())
		frag, err := entryFragment(types.SectionEducation, key, i, entry.SearchText(), entry)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frag)
	}

	for i, entry := range doc.Projects {
		key := keys.parentKey(types.SectionProjects, entry.IdentityKey())
		frag, err := entryFragment(types.SectionProjects, key, i, entry.SearchText(), entry)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frag)
		fragments = append(fragments, highlightFragments(types.SectionProjects, key, i, entry.Highlights)...)
	}

	for i, entry := range doc.Skills {
		key := keys.parentKey(types.SectionSkills, entry.IdentityKey())
		frag, err := entryFragment(types.SectionSkills, key, i, entry.SearchText(), entry)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frag)
	}

	return fragments, nil
}

// keyCounter numbers repeated identity keys within a section. The first
// occurrence keeps the bare key so IDs stay stable for the common case.
type keyCounter map[string]int

func (c keyCounter) parentKey(section types.Section, key string) string {
	counter := string(section) + "/" + key
	c[counter]++
	if n := c[counter]; n > 1 {
		return fmt.Sprintf("%s#%d", key, n)
	}
	return key
}

func entryFragment(section types.Section, parentKey string, position int, text string, entry any) (types.Fragment, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return types.Fragment{}, fmt.Errorf("failed to encode %s entry: %w", section, err)
	}
	return types.Fragment{
		ID:        types.FragmentID(section, parentKey, 0),
		Section:   section,
		ParentKey: parentKey,
		Ordinal:   0,
		Position:  position,
		Text:      text,
		Entry:     raw,
	}, nil
}

func highlightFragments(section types.Section, parentKey string, position int, highlights []string) []types.Fragment {
	fragments := make([]types.Fragment, 0, len(highlights))
	for n, highlight := range highlights {
		fragments = append(fragments, types.Fragment{
			ID:        types.FragmentID(section, parentKey, n+1),
			Section:   section,
			ParentKey: parentKey,
			Ordinal:   n + 1,
			Position:  position,
			Text:      highlight,
		})
	}
	return fragments
}
