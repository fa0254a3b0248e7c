package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-generator/internal/embedding"
	"github.com/jonathan/resume-generator/internal/ingestion"
	"github.com/jonathan/resume-generator/internal/llm"
	"github.com/jonathan/resume-generator/internal/parsing"
	"github.com/jonathan/resume-generator/internal/pipeline"
	"github.com/jonathan/resume-generator/internal/retrieval"
	"github.com/jonathan/resume-generator/internal/schemas"
	"github.com/jonathan/resume-generator/internal/vectorstore"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "schema validation error",
			err:  &schemas.ValidationError{},
			want: http.StatusBadRequest,
		},
		{
			name: "input validation error",
			err:  &parsing.ValidationError{Message: "empty"},
			want: http.StatusBadRequest,
		},
		{
			name: "invalid content error",
			err:  &ingestion.InvalidContentError{Message: "bad"},
			want: http.StatusBadRequest,
		},
		{
			name: "malformed ingestion response",
			err:  &ingestion.MalformedResponseError{},
			want: http.StatusBadRequest,
		},
		{
			name: "assembly consistency error",
			err:  &pipeline.ConsistencyError{Cause: errors.New("boom")},
			want: http.StatusInternalServerError,
		},
		{
			name: "consistency error wrapping a schema failure",
			err:  &pipeline.ConsistencyError{Cause: &schemas.ValidationError{}},
			want: http.StatusInternalServerError,
		},
		{
			name: "llm outage",
			err:  &llm.APICallError{Operation: "generate", Cause: errors.New("boom")},
			want: http.StatusServiceUnavailable,
		},
		{
			name: "embedding outage",
			err:  &embedding.EmbedError{Cause: errors.New("boom")},
			want: http.StatusServiceUnavailable,
		},
		{
			name: "vector store outage",
			err:  &vectorstore.RequestError{Operation: "search", Cause: errors.New("boom")},
			want: http.StatusServiceUnavailable,
		},
		{
			name: "corrupt stored fragment",
			err:  &retrieval.CorruptFragmentError{ID: "abc"},
			want: http.StatusInternalServerError,
		},
		{
			name: "wrapped taxonomy error",
			err:  fmt.Errorf("context: %w", &llm.APICallError{Operation: "embed"}),
			want: http.StatusServiceUnavailable,
		},
		{
			name: "unknown error",
			err:  errors.New("something else"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
