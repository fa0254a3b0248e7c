package parsing

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-generator/internal/types"
)

// skillAliases folds the spellings that show up in job postings onto
// one canonical name, so "golang", "Go lang" and "NodeJS" count as the
// same skill as "Go" and "Node.js".
var skillAliases = map[string]string{
	"go":               "Go",
	"golang":           "Go",
	"go lang":          "Go",
	"js":               "JavaScript",
	"javascript":       "JavaScript",
	"ts":               "TypeScript",
	"typescript":       "TypeScript",
	"k8s":              "Kubernetes",
	"kubernetes":       "Kubernetes",
	"node":             "Node.js",
	"nodejs":           "Node.js",
	"node.js":          "Node.js",
	"reactjs":          "React",
	"react.js":         "React",
	"vuejs":            "Vue",
	"vue.js":           "Vue",
	"postgres":         "PostgreSQL",
	"postgresql":       "PostgreSQL",
	"aws":              "AWS",
	"gcp":              "GCP",
	"ci/cd":            "CI/CD",
	"cicd":             "CI/CD",
	"ml":               "Machine Learning",
	"machine learning": "Machine Learning",
}

// CanonicalSkillName maps a skill spelling onto the name used for
// matching and display. Names with no alias keep their casing when it
// is already mixed; short all-caps names are treated as acronyms.
func CanonicalSkillName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	if canonical, ok := skillAliases[strings.ToLower(name)]; ok {
		return canonical
	}
	if name == strings.ToUpper(name) && len(name) <= 4 {
		// SQL, PHP, ETL and friends stay as written.
		return name
	}
	if name == strings.ToLower(name) || name == strings.ToUpper(name) {
		return titleCase(name)
	}
	return name
}

func titleCase(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// NormalizeRequirements canonicalizes skill names and collapses
// duplicates, keeping each skill at its first position. A later
// duplicate still contributes a level or evidence the first mention
// lacked.
func NormalizeRequirements(reqs []types.Requirement) []types.Requirement {
	out := make([]types.Requirement, 0, len(reqs))
	index := make(map[string]int, len(reqs))

	for _, req := range reqs {
		skill := CanonicalSkillName(req.Skill)
		if skill == "" {
			continue
		}
		if i, ok := index[skill]; ok {
			if out[i].Level == "" {
				out[i].Level = req.Level
			}
			if out[i].Evidence == "" {
				out[i].Evidence = req.Evidence
			}
			continue
		}
		index[skill] = len(out)
		out = append(out, types.Requirement{
			Skill:    skill,
			Level:    req.Level,
			Evidence: req.Evidence,
		})
	}
	return out
}
