// Package retrieval finds the stored resume fragments most relevant to
// a job query via vector similarity search.
package retrieval

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-generator/internal/embedding"
	"github.com/jonathan/resume-generator/internal/types"
	"github.com/jonathan/resume-generator/internal/vectorstore"
)

// DefaultSearchLimit caps how many fragments a retrieval returns.
const DefaultSearchLimit = 15

// overFetchFactor widens each per-term search so that cross-term merging
// and parent deduplication still leave enough candidates.
const overFetchFactor = 2

// Engine runs per-term similarity searches and merges the results into
// a single ranked fragment set.
type Engine struct {
	embedder embedding.Embedder
	store    vectorstore.Store
	limit    int
}

// NewEngine creates a retrieval engine. A limit of 0 selects
// DefaultSearchLimit.
func NewEngine(embedder embedding.Embedder, store vectorstore.Store, limit int) *Engine {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &Engine{embedder: embedder, store: store, limit: limit}
}

// Retrieve searches the store once per query term, concurrently, and
// merges the hits. A fragment found by several terms keeps its maximum
// score and remembers every term that found it. At most one fragment
// per parent entry survives; the final order is score descending with
// ties broken by fragment ID so results are deterministic.
func (e *Engine) Retrieve(ctx context.Context, query *types.JobQuery) (*types.RetrievalResult, error) {
	terms := query.Terms()
	if len(terms) == 0 {
		return &types.RetrievalResult{}, nil
	}

	vectors, err := e.embedder.EmbedBatch(ctx, terms)
	if err != nil {
		return nil, err
	}

	perTerm := make([][]types.ScoredFragment, len(terms))
	g, gctx := errgroup.WithContext(ctx)
	for i := range terms {
		g.Go(func() error {
			hits, err := e.store.Search(gctx, vectors[i], e.limit*overFetchFactor)
			if err != nil {
				return err
			}
			perTerm[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.RetrievalResult{Fragments: e.merge(terms, perTerm)}, nil
}

// merge folds per-term hits into one ranked list.
func (e *Engine) merge(terms []string, perTerm [][]types.ScoredFragment) []types.ScoredFragment {
	byID := make(map[string]*types.ScoredFragment)
	for i, hits := range perTerm {
		term := terms[i]
		for _, hit := range hits {
			existing, ok := byID[hit.Fragment.ID]
			if !ok {
				merged := hit
				merged.MatchedTerms = []string{term}
				byID[hit.Fragment.ID] = &merged
				continue
			}
			if hit.Score > existing.Score {
				existing.Score = hit.Score
			}
			existing.MatchedTerms = appendTerm(existing.MatchedTerms, term)
		}
	}

	// Keep the best fragment per parent entry, pooling the matched
	// terms of its siblings.
	byParent := make(map[string]*types.ScoredFragment)
	for _, frag := range byID {
		key := parentID(frag.Fragment.Section, frag.Fragment.ParentKey)
		best, ok := byParent[key]
		if !ok {
			byParent[key] = frag
			continue
		}
		if frag.Score > best.Score || (frag.Score == best.Score && frag.Fragment.ID < best.Fragment.ID) {
			for _, term := range best.MatchedTerms {
				frag.MatchedTerms = appendTerm(frag.MatchedTerms, term)
			}
			byParent[key] = frag
		} else {
			for _, term := range frag.MatchedTerms {
				best.MatchedTerms = appendTerm(best.MatchedTerms, term)
			}
		}
	}

	merged := make([]types.ScoredFragment, 0, len(byParent))
	for _, frag := range byParent {
		merged = append(merged, *frag)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].Fragment.ID < merged[j].Fragment.ID
	})

	if len(merged) > e.limit {
		merged = merged[:e.limit]
	}
	return merged
}

func appendTerm(terms []string, term string) []string {
	for _, t := range terms {
		if t == term {
			return terms
		}
	}
	return append(terms, term)
}
