// Package server provides the HTTP REST API for the resume generator.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-generator/internal/embedding"
	"github.com/jonathan/resume-generator/internal/ingestion"
	"github.com/jonathan/resume-generator/internal/llm"
	"github.com/jonathan/resume-generator/internal/parsing"
	"github.com/jonathan/resume-generator/internal/pipeline"
	"github.com/jonathan/resume-generator/internal/retrieval"
	"github.com/jonathan/resume-generator/internal/schemas"
	"github.com/jonathan/resume-generator/internal/vectorstore"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Input problems map to 400, upstream outages to 503, model responses
// that stayed malformed after a re-prompt to 400, and internal
// inconsistencies to 500.
func HTTPStatus(err error) int {
	var (
		schemaErr       *schemas.ValidationError
		parsingErr      *parsing.ValidationError
		invalidErr      *ingestion.InvalidContentError
		malformedErr    *ingestion.MalformedResponseError
		parseErr        *parsing.ParseError
		apiErr          *llm.APICallError
		embedErr        *embedding.EmbedError
		storeErr        *vectorstore.RequestError
		corruptErr      *retrieval.CorruptFragmentError
		consistencyErr  *pipeline.ConsistencyError
	)

	switch {
	// Internal inconsistencies win over whatever they wrap: a consistency
	// error carrying a schema failure is still the server's fault.
	case errors.As(err, &corruptErr),
		errors.As(err, &consistencyErr):
		return http.StatusInternalServerError
	case errors.As(err, &schemaErr),
		errors.As(err, &parsingErr),
		errors.As(err, &invalidErr),
		errors.As(err, &malformedErr),
		errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.As(err, &apiErr),
		errors.As(err, &embedErr),
		errors.As(err, &storeErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
