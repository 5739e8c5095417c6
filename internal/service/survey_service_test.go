package service

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/editor"
	"github.com/stemsi/survey-editor/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	surveys  map[uuid.UUID]*model.Survey
	lastList [2]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{surveys: map[uuid.UUID]*model.Survey{}}
}

func (f *fakeStore) List(_ context.Context, limit, offset int, _ string) ([]model.Survey, int, error) {
	f.lastList = [2]int{limit, offset}
	var out []model.Survey
	for _, s := range f.surveys {
		out = append(out, *s)
	}
	return out, len(f.surveys), nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*model.Survey, error) {
	s, ok := f.surveys[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeStore) Create(_ context.Context, s *model.Survey) error {
	s.ID = uuid.New()
	f.surveys[s.ID] = s
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.surveys[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.surveys, id)
	return nil
}

func TestSurveyService_ListPagination(t *testing.T) {
	store := newFakeStore()
	svc := NewSurveyService(store, zerolog.New(io.Discard))
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Create(context.Background(), &model.Survey{Title: "s"}))
	}

	surveys, page, err := svc.List(context.Background(), 2, 2, "")
	require.NoError(t, err)
	assert.Len(t, surveys, 3)
	assert.Equal(t, [2]int{2, 2}, store.lastList)
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)

	_, page, err = svc.List(context.Background(), 0, 1000, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.PerPage)
}

func TestSurveyService_NotFound(t *testing.T) {
	svc := NewSurveyService(newFakeStore(), zerolog.New(io.Discard))

	_, err := svc.GetSurvey(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSurveyNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrSurveyNotFound)
}

func TestSurveyService_CreateNormalisesQuestions(t *testing.T) {
	svc := NewSurveyService(newFakeStore(), zerolog.New(io.Discard))
	survey := &model.Survey{
		Title:           "Imported",
		MultiStep:       true,
		DisplayDirectly: true,
		Questions: []model.SurveyQuestion{
			{SortOrder: 10, FieldType: "checkbox", Label: "Agree?", SkipAction: "question", SkipQuestion: intPtr(20)},
			{SortOrder: 20, FieldType: "text", Label: "Why?"},
		},
	}

	require.NoError(t, svc.Create(context.Background(), survey))
	require.Len(t, survey.Questions, 2)
	assert.Equal(t, 0, survey.Questions[0].SortOrder)
	assert.Equal(t, 1, survey.Questions[1].SortOrder)
	require.NotNil(t, survey.Questions[0].SkipQuestion)
	assert.Equal(t, 1, *survey.Questions[0].SkipQuestion)
	assert.Equal(t, "next", survey.Questions[1].SkipAction)
	assert.NotEqual(t, uuid.Nil, survey.Questions[1].ID)
	assert.True(t, survey.MultiStep)
	assert.False(t, survey.DisplayDirectly)
}

func TestSurveyService_CreateRejectsIncompleteSkipLogic(t *testing.T) {
	svc := NewSurveyService(newFakeStore(), zerolog.New(io.Discard))
	survey := &model.Survey{
		Title: "Broken",
		Questions: []model.SurveyQuestion{
			{FieldType: "radio", Label: "Pick", SkipAction: "question"},
		},
	}

	assert.ErrorIs(t, svc.Create(context.Background(), survey), editor.ErrTargetRequired)
}
