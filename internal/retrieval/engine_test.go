package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-generator/internal/types"
)

// fakeEmbedder returns a distinct unit vector per text.
type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i]))}
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int { return 1 }
func (f *fakeEmbedder) Close() error    { return nil }

// fakeStore serves canned search hits keyed by term length (the fake
// embedder encodes the term length as the vector).
type fakeStore struct {
	mu        sync.Mutex
	hits      map[int][]types.ScoredFragment
	fragments []types.Fragment
	searchErr error
	searches  int
	limits    []int
}

func (f *fakeStore) EnsureCollection(context.Context, int) error { return nil }
func (f *fakeStore) Upsert(context.Context, []types.Fragment, [][]float32) error {
	return nil
}
func (f *fakeStore) Delete(context.Context, []string) error           { return nil }
func (f *fakeStore) Count(context.Context) (int, error)               { return len(f.fragments), nil }
func (f *fakeStore) Scroll(context.Context) ([]types.Fragment, error) { return f.fragments, nil }

func (f *fakeStore) Search(_ context.Context, vector []float32, limit int) ([]types.ScoredFragment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	f.limits = append(f.limits, limit)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits[int(vector[0])], nil
}

func frag(section types.Section, parentKey string, ordinal int, text string) types.Fragment {
	return types.Fragment{
		ID:        types.FragmentID(section, parentKey, ordinal),
		Section:   section,
		ParentKey: parentKey,
		Ordinal:   ordinal,
		Text:      text,
	}
}

func TestRetrieve_EmptyQuery(t *testing.T) {
	engine := NewEngine(&fakeEmbedder{}, &fakeStore{}, 0)

	result, err := engine.Retrieve(context.Background(), &types.JobQuery{})
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}

func TestRetrieve_MergesMaxScoreAcrossTerms(t *testing.T) {
	shared := frag(types.SectionWork, "acme|engineer", 1, "built Go services")
	other := frag(types.SectionSkills, "python", 0, "Python")

	store := &fakeStore{hits: map[int][]types.ScoredFragment{
		2: {{Fragment: shared, Score: 0.7}},                                       // term "go"
		6: {{Fragment: shared, Score: 0.9}, {Fragment: other, Score: 0.5}},        // term "python"
	}}
	engine := NewEngine(&fakeEmbedder{}, store, 10)

	query := &types.JobQuery{Keywords: []string{"go", "python"}}
	result, err := engine.Retrieve(context.Background(), query)
	require.NoError(t, err)

	require.Len(t, result.Fragments, 2)
	top := result.Fragments[0]
	assert.Equal(t, shared.ID, top.Fragment.ID)
	assert.Equal(t, 0.9, top.Score)
	assert.ElementsMatch(t, []string{"go", "python"}, top.MatchedTerms)

	assert.Equal(t, other.ID, result.Fragments[1].Fragment.ID)
	assert.Equal(t, []string{"python"}, result.Fragments[1].MatchedTerms)
}

func TestRetrieve_OneFragmentPerParent(t *testing.T) {
	entry := frag(types.SectionWork, "acme|engineer", 0, "Engineer at Acme")
	highlight := frag(types.SectionWork, "acme|engineer", 1, "cut latency 40%")

	store := &fakeStore{hits: map[int][]types.ScoredFragment{
		2: {{Fragment: entry, Score: 0.6}, {Fragment: highlight, Score: 0.8}},
	}}
	engine := NewEngine(&fakeEmbedder{}, store, 10)

	result, err := engine.Retrieve(context.Background(), &types.JobQuery{Keywords: []string{"go"}})
	require.NoError(t, err)

	require.Len(t, result.Fragments, 1)
	assert.Equal(t, highlight.ID, result.Fragments[0].Fragment.ID)
	assert.Equal(t, 0.8, result.Fragments[0].Score)
}

func TestRetrieve_OverFetchesAndTruncates(t *testing.T) {
	hits := make([]types.ScoredFragment, 8)
	for i := range hits {
		hits[i] = types.ScoredFragment{
			Fragment: frag(types.SectionSkills, string(rune('a'+i)), 0, "skill"),
			Score:    float64(8-i) / 10,
		}
	}
	store := &fakeStore{hits: map[int][]types.ScoredFragment{2: hits}}
	engine := NewEngine(&fakeEmbedder{}, store, 3)

	result, err := engine.Retrieve(context.Background(), &types.JobQuery{Keywords: []string{"go"}})
	require.NoError(t, err)

	assert.Len(t, result.Fragments, 3)
	assert.Equal(t, []int{6}, store.limits, "per-term search should over-fetch twice the limit")
	assert.Equal(t, 0.8, result.Fragments[0].Score)
}

func TestRetrieve_DeterministicTieBreak(t *testing.T) {
	a := frag(types.SectionSkills, "aa", 0, "one")
	b := frag(types.SectionSkills, "bb", 0, "two")
	lo, hi := a, b
	if b.ID < a.ID {
		lo, hi = b, a
	}

	store := &fakeStore{hits: map[int][]types.ScoredFragment{
		2: {{Fragment: hi, Score: 0.5}, {Fragment: lo, Score: 0.5}},
	}}
	engine := NewEngine(&fakeEmbedder{}, store, 10)

	result, err := engine.Retrieve(context.Background(), &types.JobQuery{Keywords: []string{"go"}})
	require.NoError(t, err)

	require.Len(t, result.Fragments, 2)
	assert.Equal(t, lo.ID, result.Fragments[0].Fragment.ID)
	assert.Equal(t, hi.ID, result.Fragments[1].Fragment.ID)
}

func TestRetrieve_SearchesEachTermConcurrently(t *testing.T) {
	store := &fakeStore{hits: map[int][]types.ScoredFragment{}}
	engine := NewEngine(&fakeEmbedder{}, store, 5)

	query := &types.JobQuery{Keywords: []string{"go", "grpc", "postgres"}}
	_, err := engine.Retrieve(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 3, store.searches)
}

func TestRetrieve_PropagatesStoreError(t *testing.T) {
	store := &fakeStore{searchErr: errors.New("qdrant down")}
	engine := NewEngine(&fakeEmbedder{}, store, 5)

	_, err := engine.Retrieve(context.Background(), &types.JobQuery{Keywords: []string{"go"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qdrant down")
}

func TestRetrieve_PropagatesEmbedderError(t *testing.T) {
	engine := NewEngine(&fakeEmbedder{err: errors.New("embed down")}, &fakeStore{}, 5)

	_, err := engine.Retrieve(context.Background(), &types.JobQuery{Keywords: []string{"go"}})
	require.Error(t, err)
}

func entryFrag(t *testing.T, section types.Section, parentKey string, position int, entry any) types.Fragment {
	t.Helper()
	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	f := frag(section, parentKey, 0, "")
	f.Position = position
	f.Entry = raw
	return f
}

func TestLoadDocument_ReconstructsInOrder(t *testing.T) {
	store := &fakeStore{fragments: []types.Fragment{
		entryFrag(t, types.SectionSkills, "go", 0, types.SkillEntry{Name: "Go"}),
		entryFrag(t, types.SectionWork, "beta|dev", 1, types.WorkEntry{Name: "Beta", Position: "Dev"}),
		frag(types.SectionWork, "beta|dev", 1, "a highlight"),
		entryFrag(t, types.SectionWork, "acme|engineer", 0, types.WorkEntry{Name: "Acme", Position: "Engineer"}),
		entryFrag(t, types.SectionBasics, "basics", 0, types.Basics{Name: "Ada"}),
	}}
	engine := NewEngine(&fakeEmbedder{}, store, 5)

	doc, err := engine.LoadDocument(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Ada", doc.Basics.Name)
	require.Len(t, doc.Work, 2)
	assert.Equal(t, "Acme", doc.Work[0].Name, "entries keep their stored position order")
	assert.Equal(t, "Beta", doc.Work[1].Name)
	require.Len(t, doc.Skills, 1)
	assert.Equal(t, "Go", doc.Skills[0].Name)
}

func TestLoadDocument_CorruptEntry(t *testing.T) {
	bad := frag(types.SectionWork, "acme|engineer", 0, "")
	bad.Entry = json.RawMessage(`{broken`)
	store := &fakeStore{fragments: []types.Fragment{bad}}
	engine := NewEngine(&fakeEmbedder{}, store, 5)

	_, err := engine.LoadDocument(context.Background())
	require.Error(t, err)

	var ce *CorruptFragmentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, bad.ID, ce.ID)
}

func TestLoadDocument_EmptyStore(t *testing.T) {
	engine := NewEngine(&fakeEmbedder{}, &fakeStore{}, 5)

	doc, err := engine.LoadDocument(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Work)
	assert.Empty(t, doc.Basics.Name)
}

func TestSummarize(t *testing.T) {
	store := &fakeStore{fragments: []types.Fragment{
		entryFrag(t, types.SectionWork, "acme|engineer", 0, types.WorkEntry{Name: "Acme"}),
		frag(types.SectionWork, "acme|engineer", 1, "highlight one"),
		frag(types.SectionWork, "acme|engineer", 2, "highlight two"),
		entryFrag(t, types.SectionSkills, "go", 0, types.SkillEntry{Name: "Go"}),
	}}
	engine := NewEngine(&fakeEmbedder{}, store, 5)

	summary, err := engine.Summarize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalFragments)
	assert.Equal(t, SectionSummary{Entries: 1, Highlights: 2}, summary.Sections[types.SectionWork])
	assert.Equal(t, SectionSummary{Entries: 1}, summary.Sections[types.SectionSkills])
}
