package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/survey-editor/internal/editor"
)

type SessionEventType string

const (
	SessionEventOpened    SessionEventType = "opened"
	SessionEventUpdated   SessionEventType = "updated"
	SessionEventRejected  SessionEventType = "rejected"
	SessionEventSubmitted SessionEventType = "submitted"
	SessionEventClosed    SessionEventType = "closed"
)

// SessionEvent is published after every session action.
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	SessionID uuid.UUID        `json:"session_id"`
	Action    string           `json:"action,omitempty"`
	Message   string           `json:"message,omitempty"`
	Snapshot  *editor.Snapshot `json:"snapshot,omitempty"`
	At        time.Time        `json:"at"`
}

// Submission is a submitted session queued for persistence.
type Submission struct {
	SessionID       uuid.UUID        `json:"session_id"`
	SurveyID        uuid.UUID        `json:"survey_id"`
	Title           string           `json:"title"`
	MultiStep       bool             `json:"multi_step"`
	DisplayDirectly bool             `json:"display_survey_directly"`
	Questions       []SurveyQuestion `json:"questions"`
	SubmittedAt     time.Time        `json:"submitted_at"`
}

// NewSubmission builds a Submission from a session snapshot.
func NewSubmission(snap editor.Snapshot) Submission {
	questions := make([]SurveyQuestion, len(snap.Questions))
	for i, v := range snap.Questions {
		questions[i] = QuestionFromView(snap.SurveyID, v)
	}
	return Submission{
		SessionID:       snap.SessionID,
		SurveyID:        snap.SurveyID,
		Title:           snap.Title,
		MultiStep:       snap.Display.MultiStep,
		DisplayDirectly: snap.Display.DisplayDirectly,
		Questions:       questions,
		SubmittedAt:     time.Now().UTC(),
	}
}
