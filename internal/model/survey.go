package model

import (
	"time"

	"github.com/google/uuid"
)

// Survey is a stored survey page with its ordered questions.
type Survey struct {
	ID              uuid.UUID        `json:"id" yaml:"-"`
	Title           string           `json:"title" yaml:"title"`
	Intro           string           `json:"intro" yaml:"intro"`
	MultiStep       bool             `json:"multi_step" yaml:"multi_step"`
	DisplayDirectly bool             `json:"display_survey_directly" yaml:"display_survey_directly"`
	QuestionCount   int              `json:"question_count" yaml:"-"`
	Questions       []SurveyQuestion `json:"questions,omitempty" yaml:"questions"`
	CreatedAt       time.Time        `json:"created_at" yaml:"-"`
	UpdatedAt       time.Time        `json:"updated_at" yaml:"-"`
}

// CreateSurveyRequest is the payload for creating an empty survey.
type CreateSurveyRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=255"`
	Intro           string `json:"intro" binding:"max=2000"`
	MultiStep       bool   `json:"multi_step"`
	DisplayDirectly bool   `json:"display_survey_directly"`
}
