// Package pipeline provides the high-level orchestration for resume
// generation: analyze the job, retrieve matching fragments, assemble a
// tailored document and narrate the fit.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-generator/internal/db"
	"github.com/jonathan/resume-generator/internal/llm"
	"github.com/jonathan/resume-generator/internal/parsing"
	"github.com/jonathan/resume-generator/internal/prompts"
	"github.com/jonathan/resume-generator/internal/retrieval"
	"github.com/jonathan/resume-generator/internal/schemas"
	"github.com/jonathan/resume-generator/internal/types"
)

// Section caps for an assembled document. The tailored resume is a
// selection, not a dump of everything stored.
const (
	MaxWorkEntries = 3
	MaxSkillGroups = 5
	MaxProjects    = 2
)

// Generation stages, in execution order.
const (
	StageAnalyzing = "analyzing"
	StageKeywords  = "keywords"
	StageSearching = "searching"
	StageBuilding  = "building"
	StageNarrating = "narrating"
	StageComplete  = "complete"
)

// ProgressEvent represents a progress update during generation.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called as generation advances. Callbacks run on
// the generation goroutine and should return quickly.
type ProgressCallback func(event ProgressEvent)

// GenerationResult is the outcome of one generation request.
type GenerationResult struct {
	GenerationID uuid.UUID             `json:"generation_id,omitempty"`
	JobQuery     *types.JobQuery       `json:"job_query"`
	Resume       *types.ResumeDocument `json:"resume"`
	Narrative    string                `json:"narrative,omitempty"`
	Retrieved    int                   `json:"retrieved_fragments"`
	Warnings     []string              `json:"warnings,omitempty"`
}

// ConsistencyError indicates the assembled document violated the resume
// schema even though it was projected from validated stored entries.
// It points at a bug or a corrupted store, never at the request.
type ConsistencyError struct {
	Cause error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("assembled document is inconsistent: %v", e.Cause)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Cause
}

// Assembler orchestrates the generation pipeline.
type Assembler struct {
	analyzer *parsing.Analyzer
	engine   *retrieval.Engine
	client   llm.Client
	database *db.DB // optional: generation history is best-effort
}

// NewAssembler wires the pipeline together. database may be nil.
func NewAssembler(analyzer *parsing.Analyzer, engine *retrieval.Engine, client llm.Client, database *db.DB) *Assembler {
	return &Assembler{
		analyzer: analyzer,
		engine:   engine,
		client:   client,
		database: database,
	}
}

func emit(onProgress ProgressCallback, stage, message string, content any) {
	if onProgress != nil {
		onProgress(ProgressEvent{Stage: stage, Message: message, Content: content})
	}
}

// Generate runs the full pipeline for a job description. Progress events
// fire before each stage and once on completion. Narrative failures are
// downgraded to warnings; everything else aborts the generation.
func (a *Assembler) Generate(ctx context.Context, jobDescription string, onProgress ProgressCallback) (*GenerationResult, error) {
	result := &GenerationResult{}

	emit(onProgress, StageAnalyzing, "Analyzing job description", nil)
	query, err := a.analyzer.Analyze(ctx, jobDescription)
	if err != nil {
		return nil, err
	}
	result.JobQuery = query
	emit(onProgress, StageKeywords, fmt.Sprintf("Extracted %d search terms", len(query.Terms())), query.Terms())

	generationID := a.recordStart(ctx, query)
	result.GenerationID = generationID

	if err := ctx.Err(); err != nil {
		a.recordFailure(ctx, generationID)
		return nil, err
	}

	emit(onProgress, StageSearching, "Searching stored resume fragments", nil)
	retrieved, err := a.engine.Retrieve(ctx, query)
	if err != nil {
		a.recordFailure(ctx, generationID)
		return nil, err
	}
	result.Retrieved = len(retrieved.Fragments)

	if err := ctx.Err(); err != nil {
		a.recordFailure(ctx, generationID)
		return nil, err
	}

	if retrieved.IsEmpty() {
		// Projection of an empty result still carries the stored
		// basics: contact details rarely match job keywords but belong
		// on every resume.
		doc, err := a.buildDocument(ctx, retrieved)
		if err != nil {
			a.recordFailure(ctx, generationID)
			return nil, err
		}
		result.Resume = doc
		result.Warnings = append(result.Warnings, "no stored resume content matched the job description")
		emit(onProgress, StageComplete, "Generation complete", result)
		a.recordOutcome(ctx, generationID, result)
		return result, nil
	}

	emit(onProgress, StageBuilding, fmt.Sprintf("Assembling resume from %d fragments", len(retrieved.Fragments)), nil)
	doc, err := a.buildDocument(ctx, retrieved)
	if err != nil {
		a.recordFailure(ctx, generationID)
		return nil, err
	}
	result.Resume = doc

	if err := ctx.Err(); err != nil {
		a.recordFailure(ctx, generationID)
		return nil, err
	}

	emit(onProgress, StageNarrating, "Writing fit narrative", nil)
	narrative, err := a.narrate(ctx, query, doc, onProgress)
	if err != nil {
		// A missing narrative does not invalidate the resume.
		result.Warnings = append(result.Warnings, fmt.Sprintf("fit narrative unavailable: %v", err))
	} else {
		result.Narrative = narrative
	}

	emit(onProgress, StageComplete, "Generation complete", result)
	a.recordOutcome(ctx, generationID, result)
	return result, nil
}

// buildDocument projects the retrieved fragments into a document: the
// stored basics, then each fragment's parent entry, sections in
// canonical order, entries in relevance-rank order, caps applied. The
// projection is deterministic; the model never touches the assembly.
func (a *Assembler) buildDocument(ctx context.Context, retrieved *types.RetrievalResult) (*types.ResumeDocument, error) {
	doc, err := a.engine.ProjectDocument(ctx, retrieved)
	if err != nil {
		return nil, err
	}
	applyCaps(doc)
	if err := schemas.ValidateDocument(doc); err != nil {
		return nil, &ConsistencyError{Cause: err}
	}
	return doc, nil
}

// narrate writes the fit narrative. When a progress callback is set the
// narrative is streamed to it delta by delta.
func (a *Assembler) narrate(ctx context.Context, query *types.JobQuery, doc *types.ResumeDocument, onProgress ProgressCallback) (string, error) {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return "", err
	}
	resumeJSON, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	template := prompts.MustGet("generation.json", "fit-narrative")
	prompt := prompts.Format(template, map[string]string{
		"JobQuery": string(queryJSON),
		"Resume":   string(resumeJSON),
	})

	if onProgress == nil {
		return a.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	}

	var sb strings.Builder
	err = a.client.StreamContent(ctx, prompt, llm.TierAdvanced, func(delta string) error {
		sb.WriteString(delta)
		emit(onProgress, StageNarrating, "", delta)
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}

// applyCaps trims the over-fetched tail of each capped section.
func applyCaps(doc *types.ResumeDocument) {
	if len(doc.Work) > MaxWorkEntries {
		doc.Work = doc.Work[:MaxWorkEntries]
	}
	if len(doc.Skills) > MaxSkillGroups {
		doc.Skills = doc.Skills[:MaxSkillGroups]
	}
	if len(doc.Projects) > MaxProjects {
		doc.Projects = doc.Projects[:MaxProjects]
	}
}

// recordStart opens a history row; failures only cost the history.
func (a *Assembler) recordStart(ctx context.Context, query *types.JobQuery) uuid.UUID {
	if a.database == nil {
		return uuid.Nil
	}
	id, err := a.database.CreateGeneration(ctx, query.RoleTitle, query.Seniority)
	if err != nil {
		log.Printf("Warning: failed to record generation: %v", err)
		return uuid.Nil
	}
	return id
}

func (a *Assembler) recordOutcome(ctx context.Context, id uuid.UUID, result *GenerationResult) {
	if a.database == nil || id == uuid.Nil {
		return
	}
	err := a.database.CompleteGeneration(ctx, id, db.StatusCompleted, result.JobQuery, result.Resume, result.Narrative, result.Warnings)
	if err != nil {
		log.Printf("Warning: failed to record generation outcome: %v", err)
	}
}

func (a *Assembler) recordFailure(ctx context.Context, id uuid.UUID) {
	if a.database == nil || id == uuid.Nil {
		return
	}
	if err := a.database.FailGeneration(context.WithoutCancel(ctx), id); err != nil {
		log.Printf("Warning: failed to record generation failure: %v", err)
	}
}
