package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiEmbedder(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestEmbedError_Unwrap(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := &EmbedError{Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "embedding failed")
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	e := &GeminiEmbedder{dimensions: DefaultDimensions}

	vectors, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestDimensions(t *testing.T) {
	e := &GeminiEmbedder{dimensions: DefaultDimensions}
	assert.Equal(t, 768, e.Dimensions())
}
