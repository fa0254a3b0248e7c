// Package types provides type definitions for structured data used throughout the resume-generator system.
package types

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// fragmentIDNamespace seeds deterministic fragment IDs so that re-ingesting
// identical content produces identical vector store points (no duplicate
// accumulation across repeated replace calls).
var fragmentIDNamespace = uuid.MustParse("9a3f1c5e-2b74-4d08-a1c9-64f0de7b2a11")

// Fragment is the unit of retrieval: one entry, or one highlight of an
// entry. The embedding vector is carried separately and must be regenerated
// whenever Text changes; a fragment is never queryable with a stale vector.
type Fragment struct {
	ID        string  `json:"id"`
	Section   Section `json:"section"`
	ParentKey string  `json:"parent_key"`
	// Ordinal 0 is the entry fragment; n>0 is the entry's n-th highlight.
	Ordinal int `json:"ordinal"`
	// Position is the entry's index within its section, preserved so the
	// document can be reconstructed in its original order.
	Position int    `json:"position"`
	Text     string `json:"text"`
	// Entry carries the full entry JSON on entry fragments (ordinal 0)
	// and is empty on highlight fragments.
	Entry json.RawMessage `json:"entry,omitempty"`
}

// FragmentID derives the stable point ID for a fragment from its section,
// parent entry key and ordinal.
func FragmentID(section Section, parentKey string, ordinal int) string {
	source := fmt.Sprintf("%s/%s/%d", section, parentKey, ordinal)
	return uuid.NewSHA1(fragmentIDNamespace, []byte(source)).String()
}

// IsEntry reports whether the fragment carries the full entry payload.
func (f Fragment) IsEntry() bool {
	return f.Ordinal == 0
}

// ScoredFragment pairs a retrieved fragment with its aggregate relevance
// score and the query terms that retrieved it.
type ScoredFragment struct {
	Fragment     Fragment `json:"fragment"`
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
}

// RetrievalResult is an ordered, deduplicated set of scored fragments.
// Fragments are sorted by descending score, ties broken by fragment ID,
// with at most one fragment per parent entry.
type RetrievalResult struct {
	Fragments []ScoredFragment `json:"fragments"`
}

// IsEmpty reports whether retrieval found nothing. An empty result is not
// an error: assembly proceeds with basics only.
func (r *RetrievalResult) IsEmpty() bool {
	return r == nil || len(r.Fragments) == 0
}
