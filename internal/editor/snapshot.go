package editor

import "github.com/google/uuid"

// QuestionView is the rendered state of one question row.
type QuestionView struct {
	ID             uuid.UUID       `json:"id"`
	SortOrder      int             `json:"sort_order"`
	Type           QuestionType    `json:"type"`
	Label          string          `json:"label"`
	LabelRemaining int             `json:"label_remaining"`
	Choices        []string        `json:"choices"`
	Action         SkipAction      `json:"skip_action"`
	SurveyID       *uuid.UUID      `json:"skip_survey_id,omitempty"`
	Target         *int            `json:"skip_target,omitempty"`
	Options        []Option        `json:"options"`
	Visibility     Visibility      `json:"visibility"`
	Fields         FieldVisibility `json:"fields"`
}

// Snapshot is the full rendered state of a session.
type Snapshot struct {
	SessionID      uuid.UUID      `json:"session_id"`
	SurveyID       uuid.UUID      `json:"survey_id"`
	Title          string         `json:"title"`
	TitleRemaining int            `json:"title_remaining"`
	Display        DisplayState   `json:"display"`
	Questions      []QuestionView `json:"questions"`
}

// View renders q.
func (s *Session) View(q *Question) QuestionView {
	v := q.Visibility()
	view := QuestionView{
		ID:             q.ID,
		SortOrder:      q.SortOrder,
		Type:           q.Type,
		Label:          q.Label,
		LabelRemaining: s.counter.Remaining(q.Label),
		Choices:        append([]string{}, q.Choices...),
		Action:         q.Action,
		Options:        q.mustSelector().Options(),
		Visibility:     v,
		Fields:         v.Fields(q.Action),
	}
	if q.SurveyID != nil {
		sid := *q.SurveyID
		view.SurveyID = &sid
	}
	if t, ok := q.Target(); ok {
		view.Target = &t
	}
	return view
}

// Snapshot renders the whole session.
func (s *Session) Snapshot() Snapshot {
	rows := s.host.rows
	views := make([]QuestionView, len(rows))
	for i, q := range rows {
		views[i] = s.View(q)
	}
	return Snapshot{
		SessionID:      s.ID,
		SurveyID:       s.SurveyID,
		Title:          s.Title,
		TitleRemaining: s.counter.Remaining(s.Title),
		Display:        s.display.State(),
		Questions:      views,
	}
}
