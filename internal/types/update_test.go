package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateRequest_Validate(t *testing.T) {
	valid := &UpdateRequest{
		Content:     "Python, Docker, Kubernetes",
		UpdateMode:  ModeAppend,
		ContentType: ContentText,
		SectionHint: SectionSkills,
	}
	require.NoError(t, valid.Validate())

	missing := &UpdateRequest{UpdateMode: ModeMerge}
	assert.Error(t, missing.Validate())

	badMode := &UpdateRequest{Content: "x", UpdateMode: "upsert"}
	assert.Error(t, badMode.Validate())

	badHint := &UpdateRequest{Content: "x", UpdateMode: ModeMerge, SectionHint: "awards"}
	assert.Error(t, badHint.Validate())
}

func TestUpdateRequest_Normalize(t *testing.T) {
	r := &UpdateRequest{Content: "x", UpdateMode: ModeReplace}
	r.Normalize()
	assert.Equal(t, ContentAuto, r.ContentType)
}
