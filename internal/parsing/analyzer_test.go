package parsing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-generator/internal/llm"
)

// fakeClient returns canned responses in order, one per GenerateJSON call.
type fakeClient struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	return f.GenerateJSON(context.Background(), prompt, llm.TierStandard)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.responses) {
		return "", errors.New("no more canned responses")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func (f *fakeClient) StreamContent(_ context.Context, _ string, _ llm.ModelTier, _ func(string) error) error {
	return errors.New("not implemented")
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

const validAnalysis = `{
	"role_title": "Senior Backend Engineer",
	"seniority": "Senior",
	"requirements": [
		{"skill": "golang", "level": "required", "evidence": "5+ years of Go"},
		{"skill": "PostgreSQL", "level": "preferred", "evidence": "familiarity with Postgres"}
	],
	"keywords": ["Microservices", "gRPC", "microservices"]
}`

func TestAnalyze_ExtractsQuery(t *testing.T) {
	client := &fakeClient{responses: []string{validAnalysis}}
	analyzer := NewAnalyzer(client)

	query, err := analyzer.Analyze(context.Background(), "We are hiring a Senior Backend Engineer...")
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer", query.RoleTitle)
	assert.Equal(t, "senior", query.Seniority)

	require.Len(t, query.Requirements, 2)
	assert.Equal(t, "Go", query.Requirements[0].Skill)
	assert.Equal(t, "PostgreSQL", query.Requirements[1].Skill)

	// Keywords are lowercased and deduplicated.
	assert.Equal(t, []string{"microservices", "grpc"}, query.Keywords)
}

func TestAnalyze_EmptyDescription(t *testing.T) {
	analyzer := NewAnalyzer(&fakeClient{})

	_, err := analyzer.Analyze(context.Background(), "   ")
	require.Error(t, err)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAnalyze_RetriesOnceOnMalformedResponse(t *testing.T) {
	client := &fakeClient{responses: []string{"not json at all", validAnalysis}}
	analyzer := NewAnalyzer(client)

	query, err := analyzer.Analyze(context.Background(), "job text")
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", query.RoleTitle)
	assert.Equal(t, 2, client.calls)
}

func TestAnalyze_FailsAfterSecondMalformedResponse(t *testing.T) {
	client := &fakeClient{responses: []string{"{broken", "still broken"}}
	analyzer := NewAnalyzer(client)

	_, err := analyzer.Analyze(context.Background(), "job text")
	require.Error(t, err)

	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, client.calls)
}

func TestAnalyze_UpstreamFailure(t *testing.T) {
	client := &fakeClient{err: &llm.APICallError{Operation: "generate", Cause: errors.New("503")}}
	analyzer := NewAnalyzer(client)

	_, err := analyzer.Analyze(context.Background(), "job text")
	require.Error(t, err)

	var ae *APICallError
	require.ErrorAs(t, err, &ae)

	var upstream *llm.APICallError
	assert.ErrorAs(t, err, &upstream)
}

func TestAnalyze_NoTermsExtracted(t *testing.T) {
	client := &fakeClient{responses: []string{`{"role_title": "Engineer", "requirements": [], "keywords": []}`}}
	analyzer := NewAnalyzer(client)

	_, err := analyzer.Analyze(context.Background(), "job text")
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "no searchable")
}

func TestAnalyze_StripsMarkdownFence(t *testing.T) {
	client := &fakeClient{responses: []string{"```json\n" + validAnalysis + "\n```"}}
	analyzer := NewAnalyzer(client)

	query, err := analyzer.Analyze(context.Background(), "job text")
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", query.RoleTitle)
}
