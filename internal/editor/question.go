package editor

import "github.com/google/uuid"

// Question is one editable question row of a survey.
type Question struct {
	ID        uuid.UUID
	SortOrder int
	Type      QuestionType
	Label     string
	Choices   []string
	Action    SkipAction
	// SurveyID is the survey to continue with when Action is SkipSurvey.
	SurveyID *uuid.UUID

	selector *Selector
}

// Selector returns the question's skip-to-question control.
func (q *Question) Selector() *Selector {
	return q.mustSelector()
}

// Visibility returns the controls shown for the question's current type.
func (q *Question) Visibility() Visibility {
	return ComputeVisibility(q.Type)
}

// Target returns the sort order selected as skip target, if any.
func (q *Question) Target() (int, bool) {
	return q.mustSelector().Selected()
}

// activeTarget returns the selected target only while the selector takes
// part in skip logic: the type shows skip controls and the action routes to
// another question.
//
// This is wider than Fields().QuestionTarget. A radio or dropdown in choice
// mode hides the target field, yet a stored selection with action question
// still routes respondents there, so it must keep blocking delete and move.
func (q *Question) activeTarget() (int, bool) {
	sel := q.mustSelector()
	if !q.Visibility().ShowSkipLogic || q.Action != SkipQuestion {
		return 0, false
	}
	return sel.Selected()
}

func (q *Question) mustSelector() *Selector {
	if q.selector == nil {
		panic("editor: question " + q.ID.String() + " has no selector")
	}
	return q.selector
}
