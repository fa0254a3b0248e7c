// Package update applies ingested content to the stored resume and keeps
// the vector store in sync with the resulting document.
package update

import (
	"bytes"
	"context"

	"github.com/jonathan/resume-generator/internal/embedding"
	"github.com/jonathan/resume-generator/internal/ingestion"
	"github.com/jonathan/resume-generator/internal/retrieval"
	"github.com/jonathan/resume-generator/internal/schemas"
	"github.com/jonathan/resume-generator/internal/types"
	"github.com/jonathan/resume-generator/internal/vectorstore"
)

// Engine orchestrates a resume update: normalize the incoming content,
// apply it to the current document, validate the result, and only then
// write fragments to the vector store.
type Engine struct {
	normalizer *ingestion.Normalizer
	retriever  *retrieval.Engine
	store      vectorstore.Store
	embedder   embedding.Embedder
}

// NewEngine creates an update engine.
func NewEngine(normalizer *ingestion.Normalizer, retriever *retrieval.Engine, store vectorstore.Store, embedder embedding.Embedder) *Engine {
	return &Engine{
		normalizer: normalizer,
		retriever:  retriever,
		store:      store,
		embedder:   embedder,
	}
}

// Apply runs the full update flow for a request. The stored resume is
// untouched unless the merged document passes schema validation.
func (e *Engine) Apply(ctx context.Context, req *types.UpdateRequest) (*types.UpdateStats, error) {
	if err := req.Validate(); err != nil {
		return nil, &ingestion.InvalidContentError{Message: "invalid update request", Cause: err}
	}
	req.Normalize()

	partial, err := e.normalizer.Normalize(ctx, req)
	if err != nil {
		return nil, err
	}

	// Replace discards the stored resume wholesale: the partial becomes
	// the entire new document and every prior fragment goes away,
	// including fragments of sections the partial does not mention.
	if req.UpdateMode == types.ModeReplace {
		return e.Replace(ctx, partial.Document())
	}

	current, err := e.retriever.LoadDocument(ctx)
	if err != nil {
		return nil, err
	}

	merged, stats, err := applyUpdate(current, partial, req.UpdateMode)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateDocument(merged); err != nil {
		return nil, &ingestion.InvalidContentError{Message: "update would produce an invalid resume", Cause: err}
	}

	stored, err := e.commit(ctx, merged)
	if err != nil {
		return nil, err
	}
	stats.FragmentsStored = stored
	return stats, nil
}

// Replace swaps the entire stored resume for the given document. Used by
// the wholesale resume upload path.
func (e *Engine) Replace(ctx context.Context, doc *types.ResumeDocument) (*types.UpdateStats, error) {
	if err := schemas.ValidateDocument(doc); err != nil {
		return nil, &ingestion.InvalidContentError{Message: "resume failed validation", Cause: err}
	}

	stored, err := e.commit(ctx, doc)
	if err != nil {
		return nil, err
	}

	stats := &types.UpdateStats{
		FragmentsStored: stored,
		NewEntries:      len(doc.Work) + len(doc.Education) + len(doc.Projects) + len(doc.Skills),
	}
	for _, section := range types.SectionOrder {
		if sectionPresent(doc, section) {
			stats.UpdatedSections = append(stats.UpdatedSections, section)
		}
	}
	return stats, nil
}

// ReplaceContent normalizes raw content into a document and swaps the
// stored resume for it. Sections absent from the content are dropped,
// not kept.
func (e *Engine) ReplaceContent(ctx context.Context, content string, contentType types.ContentType) (*types.UpdateStats, error) {
	req := &types.UpdateRequest{
		Content:     content,
		UpdateMode:  types.ModeReplace,
		ContentType: contentType,
	}
	return e.Apply(ctx, req)
}

// commit fragmentizes the document and reconciles the vector store with
// it: new and changed fragments are re-embedded and upserted, fragments
// no longer produced by the document are deleted. Returns the number of
// fragments written.
func (e *Engine) commit(ctx context.Context, doc *types.ResumeDocument) (int, error) {
	fragments, err := Fragmentize(doc)
	if err != nil {
		return 0, err
	}

	existing, err := e.store.Scroll(ctx)
	if err != nil {
		return 0, err
	}
	byID := make(map[string]types.Fragment, len(existing))
	for _, frag := range existing {
		byID[frag.ID] = frag
	}

	var changed []types.Fragment
	keep := make(map[string]struct{}, len(fragments))
	for _, frag := range fragments {
		keep[frag.ID] = struct{}{}
		if prev, ok := byID[frag.ID]; ok && prev.Text == frag.Text && bytes.Equal(prev.Entry, frag.Entry) {
			continue
		}
		changed = append(changed, frag)
	}

	var stale []string
	for id := range byID {
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}

	if len(changed) > 0 {
		texts := make([]string, len(changed))
		for i, frag := range changed {
			texts[i] = frag.Text
		}
		vectors, err := e.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, err
		}
		if err := e.store.Upsert(ctx, changed, vectors); err != nil {
			return 0, err
		}
	}
	if len(stale) > 0 {
		if err := e.store.Delete(ctx, stale); err != nil {
			return 0, err
		}
	}
	return len(changed), nil
}

func sectionPresent(doc *types.ResumeDocument, section types.Section) bool {
	switch section {
	case types.SectionBasics:
		return doc.Basics.SearchText() != ""
	case types.SectionWork:
		return len(doc.Work) > 0
	case types.SectionEducation:
		return len(doc.Education) > 0
	case types.SectionProjects:
		return len(doc.Projects) > 0
	case types.SectionSkills:
		return len(doc.Skills) > 0
	}
	return false
}
