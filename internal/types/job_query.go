// Package types provides type definitions for structured data used throughout the resume-generator system.
package types

import "strings"

// JobQuery is the structured shape of a job description extracted by the
// completion service. It lives only for the duration of one generation
// request and is never persisted.
type JobQuery struct {
	RoleTitle    string        `json:"role_title"`
	Seniority    string        `json:"seniority,omitempty"`
	Requirements []Requirement `json:"requirements"`
	Keywords     []string      `json:"keywords"`
}

// Requirement is a single extracted skill requirement.
type Requirement struct {
	Skill    string `json:"skill"`
	Level    string `json:"level,omitempty"`
	Evidence string `json:"evidence,omitempty"`
}

// Terms returns the ordered, deduplicated search terms of the query:
// requirement skills first (they carry the strongest signal), then loose
// keywords. Order matters for tie-breaking downstream.
func (q *JobQuery) Terms() []string {
	seen := make(map[string]bool)
	var terms []string
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		key := strings.ToLower(t)
		if !seen[key] {
			seen[key] = true
			terms = append(terms, t)
		}
	}
	for _, req := range q.Requirements {
		add(req.Skill)
	}
	for _, kw := range q.Keywords {
		add(kw)
	}
	return terms
}

// IsEmpty reports whether the query contains no usable search terms.
func (q *JobQuery) IsEmpty() bool {
	return q == nil || len(q.Terms()) == 0
}
