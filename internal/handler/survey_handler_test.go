package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/model"
	"github.com/stemsi/survey-editor/internal/response"
	"github.com/stemsi/survey-editor/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	surveys map[uuid.UUID]*model.Survey
}

func (m *memStore) List(_ context.Context, limit, offset int, _ string) ([]model.Survey, int, error) {
	out := []model.Survey{}
	for _, s := range m.surveys {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*model.Survey, error) {
	if s, ok := m.surveys[id]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) Create(_ context.Context, s *model.Survey) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.surveys[s.ID] = s
	return nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.surveys[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.surveys, id)
	return nil
}

func newSurveyEngine() *gin.Engine {
	store := &memStore{surveys: map[uuid.UUID]*model.Survey{}}
	h := NewSurveyHandler(service.NewSurveyService(store, zerolog.New(io.Discard)))

	r := gin.New()
	r.GET("/surveys", h.ListSurveys)
	r.POST("/surveys", h.CreateSurvey)
	r.GET("/surveys/:id", h.GetSurvey)
	r.DELETE("/surveys/:id", h.DeleteSurvey)
	return r
}

func TestSurveyHandler_CRUD(t *testing.T) {
	r := newSurveyEngine()

	w, env := do(t, r, http.MethodPost, "/surveys", gin.H{
		"title":                   "Onboarding",
		"multi_step":              true,
		"display_survey_directly": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Survey model.Survey `json:"survey"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.Survey.MultiStep)
	assert.False(t, created.Survey.DisplayDirectly)

	id := created.Survey.ID.String()
	w, _ = do(t, r, http.MethodGet, "/surveys/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodGet, "/surveys?page=1&per_page=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/surveys/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/surveys/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNotFound, env.Error.Code)
}

func TestSurveyHandler_CreateValidation(t *testing.T) {
	r := newSurveyEngine()

	w, env := do(t, r, http.MethodPost, "/surveys", gin.H{"intro": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Fields, "title")
}
