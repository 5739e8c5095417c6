package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSurvey(t *testing.T) {
	s, err := loadSurvey(filepath.Join("..", "..", "testdata", "feedback_survey.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Course feedback", s.Title)
	assert.True(t, s.MultiStep)
	require.Len(t, s.Questions, 4)
	assert.Equal(t, "radio", s.Questions[0].FieldType)
	require.NotNil(t, s.Questions[0].SkipQuestion)
	assert.Equal(t, 2, *s.Questions[0].SkipQuestion)
	assert.Equal(t, []string{"yes", "no"}, s.Questions[0].Choices)
}

func TestLoadSurveyRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: x\ncolour: red\n"), 0o600))

	_, err := loadSurvey(path)
	assert.Error(t, err)
}

func TestLoadSurveyRequiresTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untitled.yaml")
	require.NoError(t, os.WriteFile(path, []byte("intro: hi\n"), 0o600))

	_, err := loadSurvey(path)
	assert.ErrorContains(t, err, "title is required")
}
