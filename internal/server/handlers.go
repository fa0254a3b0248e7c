package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/resume-generator/internal/pipeline"
	"github.com/jonathan/resume-generator/internal/types"
)

// GenerateRequest represents the request body for /generate
type GenerateRequest struct {
	JobDescription string `json:"job_description"`
}

// UpdateResponse represents the response for /resume/update and PUT /resume
type UpdateResponse struct {
	Resume *types.ResumeDocument `json:"resume"`
	Stats  *types.UpdateStats    `json:"stats"`
}

// ReplaceRequest represents the request body for PUT /resume
type ReplaceRequest struct {
	Content     string            `json:"content"`
	ContentType types.ContentType `json:"content_type,omitempty"`
}

// SummaryResponse represents the response for /resume/summary
type SummaryResponse struct {
	TotalFragments int            `json:"total_fragments"`
	Sections       map[string]any `json:"sections"`
	Companies      []string       `json:"companies,omitempty"`
	Skills         []string       `json:"skills,omitempty"`
}

// handleGenerate runs a full generation and returns the result
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.JobDescription == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_description is required")
		return
	}

	result, err := s.assembler.Generate(r.Context(), req.JobDescription, nil)
	if err != nil {
		log.Printf("Generation failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGenerateStream runs a generation and streams progress via SSE
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.JobDescription == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_description is required")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.assembler.Generate(r.Context(), req.JobDescription, func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	})
	if err != nil {
		log.Printf("Streamed generation failed: %v", err)
		sse.WriteError(err.Error())
		return
	}

	sse.WriteResult(result)
}

// handleUpdateResume applies ingested content to the stored resume
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	stats, err := s.updater.Apply(r.Context(), &req)
	if err != nil {
		log.Printf("Resume update failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	doc, err := s.retriever.LoadDocument(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, UpdateResponse{Resume: doc, Stats: stats})
}

// handleReplaceResume swaps the stored resume wholesale
func (s *Server) handleReplaceResume(w http.ResponseWriter, r *http.Request) {
	var req ReplaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Content == "" {
		s.errorResponse(w, http.StatusBadRequest, "content is required")
		return
	}

	stats, err := s.updater.ReplaceContent(r.Context(), req.Content, req.ContentType)
	if err != nil {
		log.Printf("Resume replace failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	doc, err := s.retriever.LoadDocument(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, UpdateResponse{Resume: doc, Stats: stats})
}

// handleGetResume returns the reconstructed resume document
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	doc, err := s.retriever.LoadDocument(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, doc)
}

// handleResumeSummary returns per-section counts plus the companies and
// skill groups present, without the document content itself
func (s *Server) handleResumeSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.retriever.Summarize(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	doc, err := s.retriever.LoadDocument(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := SummaryResponse{
		TotalFragments: summary.TotalFragments,
		Sections:       make(map[string]any, len(summary.Sections)),
	}
	for section, counts := range summary.Sections {
		resp.Sections[string(section)] = counts
	}
	for _, entry := range doc.Work {
		resp.Companies = append(resp.Companies, entry.Name)
	}
	for _, entry := range doc.Skills {
		resp.Skills = append(resp.Skills, entry.Name)
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListGenerations returns recent generation history
func (s *Server) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusNotImplemented, "generation history is not configured")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	generations, err := s.db.ListGenerations(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"generations": generations})
}

// handleGetGeneration returns one generation record by ID
func (s *Server) handleGetGeneration(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.errorResponse(w, http.StatusNotImplemented, "generation history is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid generation ID format")
		return
	}

	generation, err := s.db.GetGeneration(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if generation == nil {
		s.errorResponse(w, http.StatusNotFound, "Generation not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, generation)
}
