package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeVisibility(t *testing.T) {
	tests := []struct {
		typ  QuestionType
		want Visibility
	}{
		{TypeText, Visibility{Mode: ModeNone}},
		{TypeEmail, Visibility{Mode: ModeNone}},
		{TypeHidden, Visibility{Mode: ModeNone}},
		{TypeCheckbox, Visibility{ShowChoices: true, ShowSkipLogic: true, Mode: ModeChoiceQuestion}},
		{TypeRadio, Visibility{ShowChoices: true, ShowSkipLogic: true, Mode: ModeChoice}},
		{TypeDropdown, Visibility{ShowChoices: true, ShowSkipLogic: true, Mode: ModeChoice}},
		{TypeCheckboxes, Visibility{ShowChoices: true, ShowSkipLogic: true, Mode: ModeChoice}},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeVisibility(tt.typ))
		})
	}
}

func TestVisibilityFields(t *testing.T) {
	text := ComputeVisibility(TypeText).Fields(SkipQuestion)
	assert.Equal(t, FieldVisibility{}, text)

	checkbox := ComputeVisibility(TypeCheckbox).Fields(SkipNext)
	assert.Equal(t, FieldVisibility{Choices: true, SkipLogic: true, QuestionTarget: true}, checkbox)

	radio := ComputeVisibility(TypeRadio).Fields(SkipNext)
	assert.Equal(t, FieldVisibility{Choices: true, SkipLogic: true}, radio)

	radioSurvey := ComputeVisibility(TypeRadio).Fields(SkipSurvey)
	assert.True(t, radioSurvey.SurveyTarget)
	assert.False(t, ComputeVisibility(TypeText).Fields(SkipSurvey).SurveyTarget)
}

func TestQuestionTypeValid(t *testing.T) {
	for _, typ := range QuestionTypes() {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, QuestionType("slider").Valid())
	assert.False(t, SkipAction("jump").Valid())
}
