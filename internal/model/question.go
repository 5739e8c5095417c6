package model

import (
	"github.com/google/uuid"
	"github.com/stemsi/survey-editor/internal/editor"
)

// SurveyQuestion is a stored question row. SkipQuestion holds the sort
// order of the target question.
type SurveyQuestion struct {
	ID           uuid.UUID  `json:"id" yaml:"id"`
	SurveyID     uuid.UUID  `json:"survey_id" yaml:"-"`
	SortOrder    int        `json:"sort_order" yaml:"sort_order"`
	FieldType    string     `json:"field_type" yaml:"field_type"`
	Label        string     `json:"label" yaml:"label"`
	Choices      []string   `json:"choices" yaml:"choices"`
	SkipAction   string     `json:"skip_action" yaml:"skip_action"`
	SkipSurveyID *uuid.UUID `json:"skip_survey_id,omitempty" yaml:"skip_survey_id"`
	SkipQuestion *int       `json:"skip_question,omitempty" yaml:"skip_question"`
}

// Draft converts the stored row into an editor row.
func (q SurveyQuestion) Draft() editor.Draft {
	return editor.Draft{
		ID:        q.ID,
		SortOrder: q.SortOrder,
		Type:      editor.QuestionType(q.FieldType),
		Label:     q.Label,
		Choices:   q.Choices,
		Action:    editor.SkipAction(q.SkipAction),
		SurveyID:  q.SkipSurveyID,
		Target:    q.SkipQuestion,
	}
}

// QuestionFromView converts a rendered editor row back into a stored row.
func QuestionFromView(surveyID uuid.UUID, v editor.QuestionView) SurveyQuestion {
	q := SurveyQuestion{
		ID:           v.ID,
		SurveyID:     surveyID,
		SortOrder:    v.SortOrder,
		FieldType:    string(v.Type),
		Label:        v.Label,
		Choices:      v.Choices,
		SkipAction:   string(v.Action),
		SkipSurveyID: v.SurveyID,
	}
	if v.Action == editor.SkipQuestion {
		q.SkipQuestion = v.Target
	}
	return q
}

// AddQuestionRequest is the payload for adding a question row to a session.
type AddQuestionRequest struct {
	Type    string   `json:"type" binding:"required,question_type"`
	Label   string   `json:"label" binding:"required,min=1"`
	Choices []string `json:"choices" binding:"dive,max=512"`
}

// UpdateQuestionRequest edits label, type and choices. Nil fields are left
// untouched.
type UpdateQuestionRequest struct {
	Label   *string   `json:"label" binding:"omitempty,min=1"`
	Type    *string   `json:"type" binding:"omitempty,question_type"`
	Choices *[]string `json:"choices"`
}

// SetSkipRequest sets the skip logic of a question.
type SetSkipRequest struct {
	Action   string     `json:"action" binding:"required,skip_action"`
	Target   *int       `json:"target" binding:"omitempty,min=0"`
	SurveyID *uuid.UUID `json:"survey_id"`
}

// DisplayOptionsRequest sets both mutually exclusive display checkboxes.
type DisplayOptionsRequest struct {
	MultiStep       *bool `json:"multi_step" binding:"required"`
	DisplayDirectly *bool `json:"display_survey_directly" binding:"required"`
}

// SetTitleRequest sets the survey title.
type SetTitleRequest struct {
	Title string `json:"title" binding:"required"`
}
