package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-generator/internal/llm"
	"github.com/jonathan/resume-generator/internal/types"
)

type fakeClient struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
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

func TestNormalize_JSONContentBypassesLLM(t *testing.T) {
	client := &fakeClient{}
	n := NewNormalizer(client)

	req := &types.UpdateRequest{
		Content:    `{"skills": [{"name": "Go"}, {"name": "PostgreSQL"}]}`,
		UpdateMode: types.ModeAppend,
	}

	partial, err := n.Normalize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, partial.Skills, 2)
	assert.Equal(t, "Go", partial.Skills[0].Name)
	assert.Zero(t, client.calls, "JSON input must not reach the LLM")
}

func TestNormalize_InvalidJSONSchema(t *testing.T) {
	n := NewNormalizer(&fakeClient{})

	req := &types.UpdateRequest{
		Content:     `{"education": [{"area": "CS"}]}`,
		UpdateMode:  types.ModeMerge,
		ContentType: types.ContentJSON,
	}

	_, err := n.Normalize(context.Background(), req)
	require.Error(t, err)

	var ice *InvalidContentError
	assert.ErrorAs(t, err, &ice)
}

func TestNormalize_EmptyContent(t *testing.T) {
	n := NewNormalizer(&fakeClient{})

	req := &types.UpdateRequest{Content: "  \n ", UpdateMode: types.ModeMerge}

	_, err := n.Normalize(context.Background(), req)
	require.Error(t, err)

	var ice *InvalidContentError
	assert.ErrorAs(t, err, &ice)
}

func TestNormalize_TextContentUsesLLM(t *testing.T) {
	client := &fakeClient{responses: []string{
		`{"work": [{"name": "Acme", "position": "Engineer", "highlights": ["Built the billing system"]}]}`,
	}}
	n := NewNormalizer(client)

	req := &types.UpdateRequest{
		Content:    "I worked at Acme as an Engineer where I built the billing system.",
		UpdateMode: types.ModeMerge,
	}

	partial, err := n.Normalize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, partial.Work, 1)
	assert.Equal(t, "Acme", partial.Work[0].Name)
	assert.Equal(t, 1, client.calls)
}

func TestNormalize_SectionHintReachesPrompt(t *testing.T) {
	client := &fakeClient{responses: []string{`{"skills": [{"name": "Go"}]}`}}
	n := NewNormalizer(client)

	req := &types.UpdateRequest{
		Content:     "Go, Docker, Kubernetes",
		UpdateMode:  types.ModeAppend,
		SectionHint: types.SectionSkills,
	}

	_, err := n.Normalize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "skills")
}

func TestNormalize_RetriesOnceWithValidationErrors(t *testing.T) {
	client := &fakeClient{responses: []string{
		`{"education": [{"area": "CS"}]}`, // missing institution
		`{"education": [{"institution": "MIT", "area": "CS"}]}`,
	}}
	n := NewNormalizer(client)

	req := &types.UpdateRequest{
		Content:    "Studied CS at MIT",
		UpdateMode: types.ModeMerge,
	}

	partial, err := n.Normalize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, partial.Education, 1)
	assert.Equal(t, "MIT", partial.Education[0].Institution)

	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[1], "institution")
}

func TestNormalize_MalformedAfterRetry(t *testing.T) {
	client := &fakeClient{responses: []string{"nope", "still nope"}}
	n := NewNormalizer(client)

	req := &types.UpdateRequest{
		Content:    "Some career notes",
		UpdateMode: types.ModeMerge,
	}

	_, err := n.Normalize(context.Background(), req)
	require.Error(t, err)

	var mre *MalformedResponseError
	assert.ErrorAs(t, err, &mre)
	assert.Equal(t, 2, client.calls)
}

func TestNormalize_UpstreamFailure(t *testing.T) {
	client := &fakeClient{err: &llm.APICallError{Operation: "generate", Cause: errors.New("timeout")}}
	n := NewNormalizer(client)

	req := &types.UpdateRequest{
		Content:    "Some career notes",
		UpdateMode: types.ModeMerge,
	}

	_, err := n.Normalize(context.Background(), req)
	require.Error(t, err)

	var ace *APICallError
	assert.ErrorAs(t, err, &ace)
}

func TestNormalize_HTMLIsStrippedBeforeLLM(t *testing.T) {
	client := &fakeClient{responses: []string{`{"skills": [{"name": "Go"}]}`}}
	n := NewNormalizer(client)

	req := &types.UpdateRequest{
		Content:    `<html><body><script>evil()</script><p>Ten years of Go experience</p></body></html>`,
		UpdateMode: types.ModeMerge,
	}

	_, err := n.Normalize(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Ten years of Go experience")
	assert.NotContains(t, client.prompts[0], "evil()")
	assert.NotContains(t, client.prompts[0], "<p>")
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		declared types.ContentType
		expected types.ContentType
	}{
		{"declared json wins", "plain words", types.ContentJSON, types.ContentJSON},
		{"valid json object", `{"skills": []}`, types.ContentAuto, types.ContentJSON},
		{"invalid json braces fall through", "{not json", types.ContentAuto, types.ContentText},
		{"markdown heading", "# Work History\n- Acme", "", types.ContentMarkdown},
		{"markdown bullets", "- Go\n- Docker", "", types.ContentMarkdown},
		{"plain text", "I am an engineer with ten years of experience.", "", types.ContentText},
		{"html treated as text", "<html><body>hi</body></html>", "", types.ContentText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectContentType(tt.content, tt.declared))
		})
	}
}

func TestCleanText(t *testing.T) {
	input := "Line one   \r\nLine two\r\n\n\n\n\nLine three\n"
	expected := "Line one\nLine two\n\nLine three"
	assert.Equal(t, expected, CleanText(input))
}

func TestStripHTML_RemovesNoise(t *testing.T) {
	html := `<html><head><style>.x{}</style></head><body>
		<nav>menu</nav>
		<p>Senior engineer at Acme</p>
		<footer>contact</footer>
	</body></html>`

	text, err := StripHTML(html)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior engineer at Acme")
	assert.NotContains(t, text, "menu")
	assert.NotContains(t, text, "contact")
}
