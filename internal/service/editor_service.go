package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/editor"
	"github.com/stemsi/survey-editor/internal/model"
)

// Domain Errors
var (
	ErrSessionNotFound = errors.New("editing session not found")
	ErrSessionLimit    = errors.New("too many open editing sessions")
)

// SurveyLoader supplies the stored survey a session is opened from.
type SurveyLoader interface {
	GetSurvey(ctx context.Context, id uuid.UUID) (*model.Survey, error)
}

// SessionBroker publishes session events and queues submissions.
// cache.SessionCache implements it.
type SessionBroker interface {
	Publish(ctx context.Context, ev *model.SessionEvent) error
	Enqueue(ctx context.Context, sub *model.Submission) error
	Forget(ctx context.Context, sessionID uuid.UUID) error
}

// EditorOptions bounds the session registry.
type EditorOptions struct {
	IdleTTL     time.Duration
	MaxSessions int
	LabelLimit  int
}

type sessionEntry struct {
	mu       sync.Mutex
	sess     *editor.Session
	lastUsed time.Time
	closed   bool
}

// EditorService owns the open editing sessions. Every action on a session
// runs under that session's lock.
type EditorService struct {
	loader SurveyLoader
	broker SessionBroker
	opts   EditorOptions
	log    zerolog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

// NewEditorService creates a new EditorService.
func NewEditorService(loader SurveyLoader, broker SessionBroker, opts EditorOptions, log zerolog.Logger) *EditorService {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = time.Hour
	}
	return &EditorService{
		loader:   loader,
		broker:   broker,
		opts:     opts,
		log:      log.With().Str("component", "editor_service").Logger(),
		now:      time.Now,
		sessions: make(map[uuid.UUID]*sessionEntry),
	}
}

// ─── Session Lifecycle ─────────────────────────────────────────────────

// Open reads the survey in full and starts an editing session on it.
func (s *EditorService) Open(ctx context.Context, surveyID uuid.UUID) (editor.Snapshot, error) {
	if s.opts.MaxSessions > 0 && s.Count() >= s.opts.MaxSessions {
		return editor.Snapshot{}, ErrSessionLimit
	}

	survey, err := s.loader.GetSurvey(ctx, surveyID)
	if err != nil {
		return editor.Snapshot{}, err
	}

	drafts := make([]editor.Draft, len(survey.Questions))
	for i, q := range survey.Questions {
		drafts[i] = q.Draft()
	}
	sess, err := editor.NewSession(editor.Config{
		SurveyID:        survey.ID,
		Title:           survey.Title,
		MultiStep:       survey.MultiStep,
		DisplayDirectly: survey.DisplayDirectly,
		LabelLimit:      s.opts.LabelLimit,
		Questions:       drafts,
	})
	if err != nil {
		return editor.Snapshot{}, fmt.Errorf("open session: %w", err)
	}

	s.mu.Lock()
	if s.opts.MaxSessions > 0 && len(s.sessions) >= s.opts.MaxSessions {
		s.mu.Unlock()
		return editor.Snapshot{}, ErrSessionLimit
	}
	s.sessions[sess.ID] = &sessionEntry{sess: sess, lastUsed: s.now()}
	s.mu.Unlock()

	snap := sess.Snapshot()
	s.log.Info().
		Str("session_id", sess.ID.String()).
		Str("survey_id", survey.ID.String()).
		Int("questions", len(snap.Questions)).
		Msg("Editing session opened")
	s.publish(ctx, &model.SessionEvent{Type: model.SessionEventOpened, SessionID: sess.ID, Snapshot: &snap})
	return snap, nil
}

// Snapshot returns the current state of a session.
func (s *EditorService) Snapshot(ctx context.Context, sessionID uuid.UUID) (editor.Snapshot, error) {
	e, err := s.acquire(sessionID)
	if err != nil {
		return editor.Snapshot{}, err
	}
	defer e.mu.Unlock()

	e.lastUsed = s.now()
	return e.sess.Snapshot(), nil
}

// Submit validates the session, queues it for persistence and closes it.
// A session that fails validation stays open.
func (s *EditorService) Submit(ctx context.Context, sessionID uuid.UUID) (*model.Submission, error) {
	e, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := e.sess.Validate(); err != nil {
		e.lastUsed = s.now()
		return nil, err
	}

	snap := e.sess.Snapshot()
	sub := model.NewSubmission(snap)
	if err := s.broker.Enqueue(ctx, &sub); err != nil {
		return nil, fmt.Errorf("enqueue submission: %w", err)
	}

	e.closed = true
	s.remove(sessionID)

	s.log.Info().
		Str("session_id", sessionID.String()).
		Str("survey_id", snap.SurveyID.String()).
		Int("questions", len(snap.Questions)).
		Msg("Editing session submitted")
	s.publish(ctx, &model.SessionEvent{Type: model.SessionEventSubmitted, SessionID: sessionID, Snapshot: &snap})
	s.forget(ctx, sessionID)
	return &sub, nil
}

// Close discards a session without saving.
func (s *EditorService) Close(ctx context.Context, sessionID uuid.UUID) error {
	e, err := s.acquire(sessionID)
	if err != nil {
		return err
	}
	e.closed = true
	e.mu.Unlock()

	s.remove(sessionID)
	s.discard(ctx, sessionID, "Editing session closed")
	return nil
}

// Count returns the number of open sessions.
func (s *EditorService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunJanitor evicts idle sessions every interval until ctx is done.
// Call in a goroutine.
func (s *EditorService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(ctx); n > 0 {
				s.log.Info().Int("count", n).Msg("Evicted idle sessions")
			}
		}
	}
}

// EvictIdle closes every session untouched for longer than the idle TTL.
func (s *EditorService) EvictIdle(ctx context.Context) int {
	s.mu.Lock()
	entries := make(map[uuid.UUID]*sessionEntry, len(s.sessions))
	for id, e := range s.sessions {
		entries[id] = e
	}
	s.mu.Unlock()

	cutoff := s.now().Add(-s.opts.IdleTTL)
	evicted := 0
	for id, e := range entries {
		e.mu.Lock()
		idle := !e.closed && e.lastUsed.Before(cutoff)
		if idle {
			e.closed = true
		}
		e.mu.Unlock()

		if idle {
			s.remove(id)
			s.discard(ctx, id, "Editing session expired")
			evicted++
		}
	}
	return evicted
}

// ─── Row Actions ───────────────────────────────────────────────────────

// AddQuestion appends a question row.
func (s *EditorService) AddQuestion(ctx context.Context, sessionID uuid.UUID, req *model.AddQuestionRequest) (editor.Snapshot, error) {
	return s.apply(ctx, sessionID, "add", func(sess *editor.Session) error {
		_, err := sess.Add(editor.Draft{
			Type:    editor.QuestionType(req.Type),
			Label:   req.Label,
			Choices: req.Choices,
		})
		return err
	})
}

// UpdateQuestion changes a question's type, label and choices. Fields left
// nil in req are untouched.
func (s *EditorService) UpdateQuestion(ctx context.Context, sessionID, questionID uuid.UUID, req *model.UpdateQuestionRequest) (editor.Snapshot, error) {
	return s.apply(ctx, sessionID, "update", func(sess *editor.Session) error {
		if req.Type != nil {
			if _, err := sess.ChangeType(questionID, editor.QuestionType(*req.Type)); err != nil {
				return err
			}
		}
		if req.Label != nil {
			if err := sess.Relabel(questionID, *req.Label); err != nil {
				return err
			}
		}
		if req.Choices != nil {
			if err := sess.SetChoices(questionID, *req.Choices); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetSkip sets a question's skip logic.
func (s *EditorService) SetSkip(ctx context.Context, sessionID, questionID uuid.UUID, req *model.SetSkipRequest) (editor.Snapshot, error) {
	return s.apply(ctx, sessionID, "skip", func(sess *editor.Session) error {
		return sess.SetSkip(questionID, editor.SkipAction(req.Action), req.Target, req.SurveyID)
	})
}

// MoveUp swaps a question with the one before it.
func (s *EditorService) MoveUp(ctx context.Context, sessionID, questionID uuid.UUID) (editor.Snapshot, error) {
	return s.apply(ctx, sessionID, "move_up", func(sess *editor.Session) error {
		return sess.MoveUp(questionID)
	})
}

// MoveDown swaps a question with the one after it.
func (s *EditorService) MoveDown(ctx context.Context, sessionID, questionID uuid.UUID) (editor.Snapshot, error) {
	return s.apply(ctx, sessionID, "move_down", func(sess *editor.Session) error {
		return sess.MoveDown(questionID)
	})
}

// DeleteQuestion removes a question row.
func (s *EditorService) DeleteQuestion(ctx context.Context, sessionID, questionID uuid.UUID) (editor.Snapshot, error) {
	return s.apply(ctx, sessionID, "delete", func(sess *editor.Session) error {
		return sess.Delete(questionID)
	})
}

// SetDisplayOptions sets both display checkboxes.
func (s *EditorService) SetDisplayOptions(ctx context.Context, sessionID uuid.UUID, req *model.DisplayOptionsRequest) (editor.Snapshot, error) {
	return s.apply(ctx, sessionID, "display_options", func(sess *editor.Session) error {
		return sess.Display().Apply(*req.MultiStep, *req.DisplayDirectly)
	})
}

// SetTitle sets the survey title.
func (s *EditorService) SetTitle(ctx context.Context, sessionID uuid.UUID, req *model.SetTitleRequest) (editor.Snapshot, error) {
	return s.apply(ctx, sessionID, "title", func(sess *editor.Session) error {
		sess.SetTitle(req.Title)
		return nil
	})
}

// ─── Internals ─────────────────────────────────────────────────────────

// apply runs fn under the session lock and publishes the outcome.
// Refused row actions are published as rejected events with the blocking
// message.
func (s *EditorService) apply(ctx context.Context, sessionID uuid.UUID, action string, fn func(*editor.Session) error) (editor.Snapshot, error) {
	e, err := s.acquire(sessionID)
	if err != nil {
		return editor.Snapshot{}, err
	}
	defer e.mu.Unlock()

	e.lastUsed = s.now()
	if err := fn(e.sess); err != nil {
		var violation *editor.Violation
		if errors.As(err, &violation) {
			s.log.Info().
				Str("session_id", sessionID.String()).
				Str("action", action).
				Strs("referrers", violation.Referrers).
				Msg("Row action refused by skip logic")
			s.publish(ctx, &model.SessionEvent{
				Type:      model.SessionEventRejected,
				SessionID: sessionID,
				Action:    action,
				Message:   violation.Error(),
			})
		}
		return editor.Snapshot{}, err
	}

	snap := e.sess.Snapshot()
	s.log.Debug().
		Str("session_id", sessionID.String()).
		Str("action", action).
		Int("questions", len(snap.Questions)).
		Msg("Session updated")
	s.publish(ctx, &model.SessionEvent{Type: model.SessionEventUpdated, SessionID: sessionID, Action: action, Snapshot: &snap})
	return snap, nil
}

// acquire returns the session entry locked. The caller unlocks it.
func (s *EditorService) acquire(sessionID uuid.UUID) (*sessionEntry, error) {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (s *EditorService) remove(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func (s *EditorService) discard(ctx context.Context, sessionID uuid.UUID, msg string) {
	s.log.Info().Str("session_id", sessionID.String()).Msg(msg)
	s.publish(ctx, &model.SessionEvent{Type: model.SessionEventClosed, SessionID: sessionID})
	s.forget(ctx, sessionID)
}

// forget drops the cached snapshot of an ended session so stream clients
// joining late are refused instead of waiting on a silent channel.
func (s *EditorService) forget(ctx context.Context, sessionID uuid.UUID) {
	if err := s.broker.Forget(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Forget snapshot failed")
	}
}

// publish is best effort. A lost event only delays stream clients until
// the next one.
func (s *EditorService) publish(ctx context.Context, ev *model.SessionEvent) {
	ev.At = s.now().UTC()
	if err := s.broker.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).
			Str("session_id", ev.SessionID.String()).
			Str("type", string(ev.Type)).
			Msg("Publish session event failed")
	}
}
