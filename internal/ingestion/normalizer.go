// Package ingestion converts raw resume content (JSON, markdown, plain
// text) into validated partial resume data.
package ingestion

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-generator/internal/llm"
	"github.com/jonathan/resume-generator/internal/prompts"
	"github.com/jonathan/resume-generator/internal/schemas"
	"github.com/jonathan/resume-generator/internal/types"
)

// Normalizer parses submitted content into a PartialResume. JSON input
// is parsed directly; markdown and plain text go through LLM extraction.
type Normalizer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewNormalizer creates a Normalizer on top of an LLM client.
func NewNormalizer(client llm.Client) *Normalizer {
	return &Normalizer{client: client, tier: llm.TierStandard}
}

// Normalize converts the request content into a schema-valid partial
// resume. The returned partial only carries the sections present in
// the input.
func (n *Normalizer) Normalize(ctx context.Context, req *types.UpdateRequest) (*types.PartialResume, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, &InvalidContentError{Message: "content is empty"}
	}

	switch DetectContentType(content, req.ContentType) {
	case types.ContentJSON:
		return n.normalizeJSON(content)
	default:
		return n.normalizeWithLLM(ctx, content, req.SectionHint)
	}
}

// normalizeJSON parses and validates structured input without touching
// the LLM. Any structural problem is the caller's error.
func (n *Normalizer) normalizeJSON(content string) (*types.PartialResume, error) {
	raw := []byte(content)

	if err := schemas.ValidateJSON(raw); err != nil {
		return nil, &InvalidContentError{Message: "JSON content failed schema validation", Cause: err}
	}

	var partial types.PartialResume
	if err := json.Unmarshal(raw, &partial); err != nil {
		return nil, &InvalidContentError{Message: "failed to parse JSON content", Cause: err}
	}
	if partial.IsEmpty() {
		return nil, &InvalidContentError{Message: "JSON content contains no resume sections"}
	}
	return &partial, nil
}

// normalizeWithLLM extracts structured data from unstructured content.
// A response that fails parsing or validation is re-prompted once with
// the validator's complaints before giving up.
func (n *Normalizer) normalizeWithLLM(ctx context.Context, content string, hint types.Section) (*types.PartialResume, error) {
	if looksLikeHTML(content) {
		stripped, err := StripHTML(content)
		if err != nil {
			return nil, err
		}
		content = stripped
	}
	content = CleanText(content)
	if content == "" {
		return nil, &InvalidContentError{Message: "content is empty after cleaning"}
	}
	if hint != "" {
		content = "(The content below belongs to the resume section: " + string(hint) + ")\n\n" + content
	}

	template := prompts.MustGet("ingestion.json", "parse-content")
	prompt := prompts.Format(template, map[string]string{"Content": content})

	responseText, err := n.client.GenerateJSON(ctx, prompt, n.tier)
	if err != nil {
		return nil, &APICallError{Message: "content extraction failed", Cause: err}
	}

	partial, parseErr := parsePartialResponse(responseText)
	if parseErr == nil {
		return partial, nil
	}

	// One corrective re-prompt carrying the validator's output.
	retryTemplate := prompts.MustGet("ingestion.json", "parse-content-retry")
	retryPrompt := prompts.Format(retryTemplate, map[string]string{
		"Content":          content,
		"ValidationErrors": parseErr.Error(),
	})

	responseText, err = n.client.GenerateJSON(ctx, retryPrompt, n.tier)
	if err != nil {
		return nil, &APICallError{Message: "content extraction retry failed", Cause: err}
	}

	partial, parseErr = parsePartialResponse(responseText)
	if parseErr != nil {
		return nil, &MalformedResponseError{Cause: parseErr}
	}
	return partial, nil
}

func parsePartialResponse(jsonText string) (*types.PartialResume, error) {
	raw := []byte(llm.CleanJSONBlock(jsonText))

	var partial types.PartialResume
	if err := json.Unmarshal(raw, &partial); err != nil {
		return nil, err
	}
	if err := schemas.ValidatePartial(&partial); err != nil {
		return nil, err
	}
	if partial.IsEmpty() {
		return nil, &InvalidContentError{Message: "no resume sections could be extracted from the content"}
	}
	return &partial, nil
}
