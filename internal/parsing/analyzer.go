// Package parsing turns free-form job descriptions into structured job
// queries using LLM extraction.
package parsing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-generator/internal/llm"
	"github.com/jonathan/resume-generator/internal/prompts"
	"github.com/jonathan/resume-generator/internal/types"
)

// Analyzer extracts a JobQuery from a raw job description.
type Analyzer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewAnalyzer creates an Analyzer on top of an LLM client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client, tier: llm.TierStandard}
}

// Analyze extracts the structured query for a job description. A response
// that fails to parse is re-prompted once before giving up.
func (a *Analyzer) Analyze(ctx context.Context, jobDescription string) (*types.JobQuery, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, &ValidationError{Field: "job_description", Message: "job description is empty"}
	}

	template := prompts.MustGet("analysis.json", "analyze-job-description")
	prompt := prompts.Format(template, map[string]string{
		"JobDescription": jobDescription,
	})

	responseText, err := a.client.GenerateJSON(ctx, prompt, a.tier)
	if err != nil {
		return nil, &APICallError{Message: "job analysis failed", Cause: err}
	}

	query, parseErr := parseQueryResponse(responseText)
	if parseErr != nil {
		// One corrective re-prompt before treating the response as bad input.
		retryTemplate := prompts.MustGet("analysis.json", "analyze-job-description-retry")
		retryPrompt := prompts.Format(retryTemplate, map[string]string{
			"JobDescription": jobDescription,
		})

		responseText, err = a.client.GenerateJSON(ctx, retryPrompt, a.tier)
		if err != nil {
			return nil, &APICallError{Message: "job analysis retry failed", Cause: err}
		}
		query, parseErr = parseQueryResponse(responseText)
		if parseErr != nil {
			return nil, parseErr
		}
	}

	postProcessQuery(query)
	if query.IsEmpty() {
		return nil, &ValidationError{
			Field:   "job_description",
			Message: "no searchable requirements or keywords could be extracted",
		}
	}
	return query, nil
}

func parseQueryResponse(jsonText string) (*types.JobQuery, error) {
	var query types.JobQuery
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(jsonText)), &query); err != nil {
		return nil, &ParseError{Message: "failed to parse job analysis response", Cause: err}
	}
	return &query, nil
}

func postProcessQuery(query *types.JobQuery) {
	query.RoleTitle = strings.TrimSpace(query.RoleTitle)
	query.Seniority = strings.ToLower(strings.TrimSpace(query.Seniority))
	if query.Seniority == "" {
		query.Seniority = "unknown"
	}

	query.Requirements = NormalizeRequirements(query.Requirements)

	// Normalize keywords (lowercase, trim, dedupe)
	normalized := make([]string, 0, len(query.Keywords))
	seen := make(map[string]bool)
	for _, keyword := range query.Keywords {
		kw := strings.ToLower(strings.TrimSpace(keyword))
		if kw != "" && !seen[kw] {
			normalized = append(normalized, kw)
			seen[kw] = true
		}
	}
	query.Keywords = normalized
}
