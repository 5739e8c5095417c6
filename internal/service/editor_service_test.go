package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/editor"
	"github.com/stemsi/survey-editor/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	surveys map[uuid.UUID]*model.Survey
}

func (f *fakeLoader) GetSurvey(_ context.Context, id uuid.UUID) (*model.Survey, error) {
	s, ok := f.surveys[id]
	if !ok {
		return nil, ErrSurveyNotFound
	}
	return s, nil
}

type fakeBroker struct {
	mu          sync.Mutex
	events      []model.SessionEvent
	submissions []model.Submission
	forgotten   []uuid.UUID
	enqueueErr  error
}

func (f *fakeBroker) Publish(_ context.Context, ev *model.SessionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeBroker) Enqueue(_ context.Context, sub *model.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.submissions = append(f.submissions, *sub)
	return nil
}

func (f *fakeBroker) Forget(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotten = append(f.forgotten, id)
	return nil
}

func (f *fakeBroker) lastEvent() model.SessionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[len(f.events)-1]
}

func intPtr(v int) *int { return &v }

// threeQuestions stores Q0 (radio, skips to Q2), Q1 (text), Q2 (text).
func threeQuestions() *model.Survey {
	id := uuid.New()
	return &model.Survey{
		ID:    id,
		Title: "Feedback",
		Questions: []model.SurveyQuestion{
			{ID: uuid.New(), SurveyID: id, SortOrder: 0, FieldType: "radio", Label: "Q0", Choices: []string{"yes", "no"}, SkipAction: "question", SkipQuestion: intPtr(2)},
			{ID: uuid.New(), SurveyID: id, SortOrder: 1, FieldType: "text", Label: "Q1", SkipAction: "next"},
			{ID: uuid.New(), SurveyID: id, SortOrder: 2, FieldType: "text", Label: "Q2", SkipAction: "next"},
		},
	}
}

func newTestEditor(t *testing.T, opts EditorOptions, surveys ...*model.Survey) (*EditorService, *fakeBroker) {
	t.Helper()
	loader := &fakeLoader{surveys: map[uuid.UUID]*model.Survey{}}
	for _, s := range surveys {
		loader.surveys[s.ID] = s
	}
	broker := &fakeBroker{}
	return NewEditorService(loader, broker, opts, zerolog.New(io.Discard)), broker
}

func TestEditorService_Open(t *testing.T) {
	survey := threeQuestions()
	svc, broker := newTestEditor(t, EditorOptions{}, survey)

	snap, err := svc.Open(context.Background(), survey.ID)
	require.NoError(t, err)
	require.Len(t, snap.Questions, 3)

	q0 := snap.Questions[0]
	require.NotNil(t, q0.Target)
	assert.Equal(t, 2, *q0.Target)
	assert.Equal(t, []editor.Option{{Value: 1, Label: "Q1"}, {Value: 2, Label: "Q2"}}, q0.Options)
	assert.Empty(t, snap.Questions[2].Options)

	assert.Equal(t, 1, svc.Count())
	assert.Equal(t, model.SessionEventOpened, broker.lastEvent().Type)
}

func TestEditorService_OpenUnknownSurvey(t *testing.T) {
	svc, _ := newTestEditor(t, EditorOptions{})

	_, err := svc.Open(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSurveyNotFound)
	assert.Zero(t, svc.Count())
}

func TestEditorService_SessionLimit(t *testing.T) {
	survey := threeQuestions()
	svc, _ := newTestEditor(t, EditorOptions{MaxSessions: 1}, survey)

	_, err := svc.Open(context.Background(), survey.ID)
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), survey.ID)
	assert.ErrorIs(t, err, ErrSessionLimit)
}

func TestEditorService_RejectedDeletePublishesMessage(t *testing.T) {
	survey := threeQuestions()
	svc, broker := newTestEditor(t, EditorOptions{}, survey)
	ctx := context.Background()

	snap, err := svc.Open(ctx, survey.ID)
	require.NoError(t, err)

	_, err = svc.DeleteQuestion(ctx, snap.SessionID, survey.Questions[2].ID)
	var violation *editor.Violation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, `Cannot delete, referenced by skip logic in question "Q0".`, violation.Error())

	ev := broker.lastEvent()
	assert.Equal(t, model.SessionEventRejected, ev.Type)
	assert.Equal(t, "delete", ev.Action)
	assert.Equal(t, violation.Error(), ev.Message)

	after, err := svc.Snapshot(ctx, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, snap.Questions, after.Questions)
}

func TestEditorService_RowActions(t *testing.T) {
	survey := threeQuestions()
	svc, broker := newTestEditor(t, EditorOptions{}, survey)
	ctx := context.Background()

	snap, err := svc.Open(ctx, survey.ID)
	require.NoError(t, err)
	sid := snap.SessionID

	snap, err = svc.AddQuestion(ctx, sid, &model.AddQuestionRequest{Type: "dropdown", Label: "Q3", Choices: []string{"a"}})
	require.NoError(t, err)
	require.Len(t, snap.Questions, 4)
	assert.Equal(t, 3, snap.Questions[3].SortOrder)
	assert.Equal(t, editor.Option{Value: 3, Label: "Q3"}, snap.Questions[0].Options[2])

	label := "Question two"
	snap, err = svc.UpdateQuestion(ctx, sid, survey.Questions[2].ID, &model.UpdateQuestionRequest{Label: &label})
	require.NoError(t, err)
	assert.Equal(t, "Question two", snap.Questions[0].Options[1].Label)
	assert.Equal(t, "Question two", snap.Questions[1].Options[0].Label)

	// Q1 moves below Q2; Q0 still points at the renumbered Q2.
	snap, err = svc.MoveDown(ctx, sid, survey.Questions[1].ID)
	require.NoError(t, err)
	assert.Equal(t, survey.Questions[2].ID, snap.Questions[1].ID)
	require.NotNil(t, snap.Questions[0].Target)
	assert.Equal(t, 1, *snap.Questions[0].Target)

	snap, err = svc.SetSkip(ctx, sid, survey.Questions[0].ID, &model.SetSkipRequest{Action: "end"})
	require.NoError(t, err)
	assert.Nil(t, snap.Questions[0].Target)

	snap, err = svc.DeleteQuestion(ctx, sid, survey.Questions[2].ID)
	require.NoError(t, err)
	assert.Len(t, snap.Questions, 3)

	assert.Equal(t, model.SessionEventUpdated, broker.lastEvent().Type)
	assert.Equal(t, "delete", broker.lastEvent().Action)
}

func TestEditorService_UnknownIDs(t *testing.T) {
	survey := threeQuestions()
	svc, _ := newTestEditor(t, EditorOptions{}, survey)
	ctx := context.Background()

	_, err := svc.MoveUp(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	snap, err := svc.Open(ctx, survey.ID)
	require.NoError(t, err)
	_, err = svc.MoveUp(ctx, snap.SessionID, uuid.New())
	assert.ErrorIs(t, err, editor.ErrQuestionNotFound)
}

func TestEditorService_DisplayOptions(t *testing.T) {
	survey := threeQuestions()
	svc, _ := newTestEditor(t, EditorOptions{}, survey)
	ctx := context.Background()
	yes, no := true, false

	snap, err := svc.Open(ctx, survey.ID)
	require.NoError(t, err)
	sid := snap.SessionID

	snap, err = svc.SetDisplayOptions(ctx, sid, &model.DisplayOptionsRequest{MultiStep: &yes, DisplayDirectly: &no})
	require.NoError(t, err)
	assert.True(t, snap.Display.MultiStep)
	assert.False(t, snap.Display.DisplayDirectlyEnabled)

	_, err = svc.SetDisplayOptions(ctx, sid, &model.DisplayOptionsRequest{MultiStep: &yes, DisplayDirectly: &yes})
	assert.ErrorIs(t, err, editor.ErrOptionDisabled)

	snap, err = svc.SetDisplayOptions(ctx, sid, &model.DisplayOptionsRequest{MultiStep: &no, DisplayDirectly: &yes})
	require.NoError(t, err)
	assert.True(t, snap.Display.DisplayDirectly)
	assert.False(t, snap.Display.MultiStepEnabled)
}

func TestEditorService_Submit(t *testing.T) {
	survey := threeQuestions()
	svc, broker := newTestEditor(t, EditorOptions{}, survey)
	ctx := context.Background()

	snap, err := svc.Open(ctx, survey.ID)
	require.NoError(t, err)
	sid := snap.SessionID

	_, err = svc.SetTitle(ctx, sid, &model.SetTitleRequest{Title: "Exit survey"})
	require.NoError(t, err)

	sub, err := svc.Submit(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, survey.ID, sub.SurveyID)
	assert.Equal(t, "Exit survey", sub.Title)
	require.Len(t, sub.Questions, 3)
	require.NotNil(t, sub.Questions[0].SkipQuestion)
	assert.Equal(t, 2, *sub.Questions[0].SkipQuestion)
	assert.Nil(t, sub.Questions[1].SkipQuestion)

	require.Len(t, broker.submissions, 1)
	assert.Equal(t, model.SessionEventSubmitted, broker.lastEvent().Type)
	assert.Equal(t, []uuid.UUID{sid}, broker.forgotten)
	assert.Zero(t, svc.Count())

	_, err = svc.Snapshot(ctx, sid)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEditorService_SubmitIncompleteKeepsSession(t *testing.T) {
	survey := threeQuestions()
	svc, broker := newTestEditor(t, EditorOptions{}, survey)
	ctx := context.Background()

	snap, err := svc.Open(ctx, survey.ID)
	require.NoError(t, err)
	sid := snap.SessionID

	_, err = svc.SetSkip(ctx, sid, survey.Questions[0].ID, &model.SetSkipRequest{Action: "survey"})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, sid)
	assert.ErrorIs(t, err, editor.ErrSurveyRequired)
	assert.Empty(t, broker.submissions)
	assert.Empty(t, broker.forgotten)
	assert.Equal(t, 1, svc.Count())
}

func TestEditorService_SubmitEnqueueFailureKeepsSession(t *testing.T) {
	survey := threeQuestions()
	svc, broker := newTestEditor(t, EditorOptions{}, survey)
	broker.enqueueErr = errors.New("redis down")
	ctx := context.Background()

	snap, err := svc.Open(ctx, survey.ID)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, snap.SessionID)
	assert.Error(t, err)
	assert.Equal(t, 1, svc.Count())
}

func TestEditorService_CloseAndEvict(t *testing.T) {
	survey := threeQuestions()
	svc, broker := newTestEditor(t, EditorOptions{IdleTTL: time.Minute}, survey)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Open(ctx, survey.ID)
	require.NoError(t, err)
	b, err := svc.Open(ctx, survey.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Close(ctx, a.SessionID))
	assert.ErrorIs(t, svc.Close(ctx, a.SessionID), ErrSessionNotFound)
	assert.Equal(t, model.SessionEventClosed, broker.lastEvent().Type)

	now = now.Add(30 * time.Second)
	assert.Zero(t, svc.EvictIdle(ctx))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, svc.EvictIdle(ctx))
	assert.Zero(t, svc.Count())
	assert.ElementsMatch(t, []uuid.UUID{a.SessionID, b.SessionID}, broker.forgotten)
}

func TestEditorService_ConcurrentActions(t *testing.T) {
	survey := threeQuestions()
	svc, _ := newTestEditor(t, EditorOptions{}, survey)
	ctx := context.Background()

	snap, err := svc.Open(ctx, survey.ID)
	require.NoError(t, err)
	sid := snap.SessionID

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddQuestion(ctx, sid, &model.AddQuestionRequest{Type: "text", Label: "extra"})
		}()
	}
	wg.Wait()

	snap, err = svc.Snapshot(ctx, sid)
	require.NoError(t, err)
	require.Len(t, snap.Questions, 23)
	for i, q := range snap.Questions {
		assert.Equal(t, i, q.SortOrder)
		assert.Len(t, q.Options, len(snap.Questions)-i-1)
	}
}
