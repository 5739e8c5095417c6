package editor

import (
	"fmt"

	"github.com/google/uuid"
)

// Draft is a question row as supplied by the form row provider or by an
// admin adding a row.
type Draft struct {
	ID        uuid.UUID
	SortOrder int
	Type      QuestionType
	Label     string
	Choices   []string
	Action    SkipAction
	SurveyID  *uuid.UUID
	// Target is the persisted skip-to-question sort order.
	Target *int
}

// Config seeds a Session.
type Config struct {
	SurveyID        uuid.UUID
	Title           string
	MultiStep       bool
	DisplayDirectly bool
	// LabelLimit bounds labels and the title. Zero means DefaultLabelLimit.
	LabelLimit int
	Questions  []Draft
}

// Session is one admin's in-memory editing state for a survey. It owns the
// ordered question rows, their selectors and the display options.
//
// A Session is not safe for concurrent use; callers serialise access.
type Session struct {
	ID       uuid.UUID
	SurveyID uuid.UUID
	Title    string

	host    *Host
	byID    map[uuid.UUID]*Question
	display *DisplayOptions
	counter Counter
}

// NewSession reads the full question list, renumbers it 0..N-1 and
// populates every selector. Persisted targets that no longer point at a
// later question are dropped.
func NewSession(cfg Config) (*Session, error) {
	limit := cfg.LabelLimit
	if limit <= 0 {
		limit = DefaultLabelLimit
	}

	s := &Session{
		ID:       uuid.New(),
		SurveyID: cfg.SurveyID,
		Title:    cfg.Title,
		byID:     make(map[uuid.UUID]*Question, len(cfg.Questions)),
		display:  NewDisplayOptions(cfg.MultiStep, cfg.DisplayDirectly),
		counter:  Counter{Limit: limit},
	}

	rows := make([]*Question, 0, len(cfg.Questions))
	for _, d := range cfg.Questions {
		q, err := newQuestion(d)
		if err != nil {
			return nil, err
		}
		if _, dup := s.byID[q.ID]; dup {
			return nil, fmt.Errorf("question %s: %w", q.ID, ErrDuplicateQuestion)
		}
		s.byID[q.ID] = q
		rows = append(rows, q)
	}

	// Persisted targets are keyed by the stored sort order, which may have
	// gaps before renumbering.
	byStoredOrder := make(map[int]*Question, len(rows))
	for _, q := range rows {
		if _, dup := byStoredOrder[q.SortOrder]; dup {
			return nil, fmt.Errorf("question %s sort order %d: %w", q.ID, q.SortOrder, ErrDuplicateSortOrder)
		}
		byStoredOrder[q.SortOrder] = q
	}
	targets := make(map[*Question]*Question)
	for i, d := range cfg.Questions {
		if d.Target == nil {
			continue
		}
		if t, ok := byStoredOrder[*d.Target]; ok {
			targets[rows[i]] = t
		}
	}

	s.host = NewHost(rows)
	s.host.Use(Guard)
	populateAll(s.host.rows, targets)
	return s, nil
}

func newQuestion(d Draft) (*Question, error) {
	if !d.Type.Valid() {
		return nil, fmt.Errorf("question %q: %w", d.Label, ErrInvalidQuestionType)
	}
	action := d.Action
	if action == "" {
		action = SkipNext
	}
	if !action.Valid() {
		return nil, fmt.Errorf("question %q: %w", d.Label, ErrInvalidSkipAction)
	}

	id := d.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	q := &Question{
		ID:        id,
		SortOrder: d.SortOrder,
		Type:      d.Type,
		Label:     d.Label,
		Choices:   append([]string(nil), d.Choices...),
		Action:    action,
		selector:  newSelector(),
	}
	if action == SkipSurvey && d.SurveyID != nil {
		sid := *d.SurveyID
		q.SurveyID = &sid
	}
	return q, nil
}

// Questions returns the rows in sort order.
func (s *Session) Questions() []*Question {
	return s.host.Rows()
}

// Question looks a row up by id.
func (s *Session) Question(id uuid.UUID) (*Question, error) {
	q, ok := s.byID[id]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// Display returns the display option checkboxes.
func (s *Session) Display() *DisplayOptions {
	return s.display
}

// Counter returns the character counter attached to labels and the title.
func (s *Session) Counter() Counter {
	return s.counter
}

// Add appends a new row. New rows have nothing after them, so any target
// in d is ignored.
func (s *Session) Add(d Draft) (*Question, error) {
	d.Target = nil
	q, err := newQuestion(d)
	if err != nil {
		return nil, err
	}
	if _, dup := s.byID[q.ID]; dup {
		return nil, fmt.Errorf("question %s: %w", q.ID, ErrDuplicateQuestion)
	}

	q.SortOrder = s.host.Len()
	if err := s.restructure(q, s.host.Add); err != nil {
		return nil, err
	}
	s.byID[q.ID] = q
	return q, nil
}

// MoveUp swaps the question with the one before it.
func (s *Session) MoveUp(id uuid.UUID) error {
	q, err := s.Question(id)
	if err != nil {
		return err
	}
	return s.restructure(q, s.host.MoveUp)
}

// MoveDown swaps the question with the one after it.
func (s *Session) MoveDown(id uuid.UUID) error {
	q, err := s.Question(id)
	if err != nil {
		return err
	}
	return s.restructure(q, s.host.MoveDown)
}

// Delete removes the question unless an active selector targets it.
func (s *Session) Delete(id uuid.UUID) error {
	q, err := s.Question(id)
	if err != nil {
		return err
	}
	if err := s.restructure(q, s.host.Delete); err != nil {
		return err
	}
	delete(s.byID, id)
	return nil
}

// restructure runs a host action and, when it went through, rebuilds every
// selector with selections carried over by question identity.
func (s *Session) restructure(q *Question, action func(*Question) error) error {
	targets := selectedTargets(s.host.rows)
	if err := action(q); err != nil {
		return err
	}
	populateAll(s.host.rows, targets)
	return nil
}

// Relabel sets the question's label and renames its option in every other
// selector.
func (s *Session) Relabel(id uuid.UUID, label string) error {
	q, err := s.Question(id)
	if err != nil {
		return err
	}
	q.Label = label
	relabelOptions(s.host.rows, q)
	return nil
}

// ChangeType sets the question type and returns the resulting visibility.
// Hidden choices and skip settings are kept so switching back restores them.
func (s *Session) ChangeType(id uuid.UUID, t QuestionType) (Visibility, error) {
	q, err := s.Question(id)
	if err != nil {
		return Visibility{}, err
	}
	if !t.Valid() {
		return Visibility{}, ErrInvalidQuestionType
	}
	q.Type = t
	return q.Visibility(), nil
}

// SetChoices replaces the question's choice labels.
func (s *Session) SetChoices(id uuid.UUID, choices []string) error {
	q, err := s.Question(id)
	if err != nil {
		return err
	}
	q.Choices = append([]string(nil), choices...)
	return nil
}

// SetSkip sets the skip action. target is only used with SkipQuestion and
// must be one of the selector's options; surveyID only with SkipSurvey.
// Missing targets are accepted here and reported by Validate.
func (s *Session) SetSkip(id uuid.UUID, action SkipAction, target *int, surveyID *uuid.UUID) error {
	q, err := s.Question(id)
	if err != nil {
		return err
	}
	if !action.Valid() {
		return ErrInvalidSkipAction
	}

	sel := q.mustSelector()
	switch action {
	case SkipQuestion:
		if target != nil {
			if err := sel.selectValue(*target); err != nil {
				return err
			}
		} else {
			sel.clear()
		}
		q.SurveyID = nil
	case SkipSurvey:
		sel.clear()
		q.SurveyID = nil
		if surveyID != nil {
			sid := *surveyID
			q.SurveyID = &sid
		}
	default:
		sel.clear()
		q.SurveyID = nil
	}
	q.Action = action
	return nil
}

// SetTitle sets the survey title.
func (s *Session) SetTitle(title string) {
	s.Title = title
}

// Validate reports the first question whose skip logic is incomplete, or
// whose label or the title exceeds the character limit.
func (s *Session) Validate() error {
	if s.counter.Remaining(s.Title) < 0 {
		return fmt.Errorf("title: %w", ErrTooLong)
	}
	for _, q := range s.host.rows {
		if s.counter.Remaining(q.Label) < 0 {
			return fmt.Errorf("question %q: %w", q.Label, ErrTooLong)
		}
		if !q.Visibility().ShowSkipLogic {
			continue
		}
		switch q.Action {
		case SkipQuestion:
			if _, ok := q.mustSelector().Selected(); !ok {
				return fmt.Errorf("question %q: %w", q.Label, ErrTargetRequired)
			}
		case SkipSurvey:
			if q.SurveyID == nil {
				return fmt.Errorf("question %q: %w", q.Label, ErrSurveyRequired)
			}
		}
	}
	return nil
}
