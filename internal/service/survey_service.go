package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/editor"
	"github.com/stemsi/survey-editor/internal/model"
	"github.com/stemsi/survey-editor/internal/response"
)

// Domain Errors
var (
	ErrSurveyNotFound = errors.New("survey not found")
)

// SurveyStore is the persistence the survey service needs.
// *repository.SurveyRepository implements it.
type SurveyStore interface {
	List(ctx context.Context, limit, offset int, search string) ([]model.Survey, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Survey, error)
	Create(ctx context.Context, s *model.Survey) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SurveyService handles stored surveys outside of editing sessions.
type SurveyService struct {
	store SurveyStore
	log   zerolog.Logger
}

// NewSurveyService creates a new SurveyService.
func NewSurveyService(store SurveyStore, log zerolog.Logger) *SurveyService {
	return &SurveyService{
		store: store,
		log:   log.With().Str("component", "survey_service").Logger(),
	}
}

// List retrieves surveys with pagination.
func (s *SurveyService) List(ctx context.Context, page, perPage int, search string) ([]model.Survey, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	surveys, total, err := s.store.List(ctx, perPage, (page-1)*perPage, search)
	if err != nil {
		return nil, nil, fmt.Errorf("list surveys: %w", err)
	}
	if surveys == nil {
		surveys = []model.Survey{}
	}

	return surveys, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

// GetSurvey retrieves a survey with its ordered questions.
func (s *SurveyService) GetSurvey(ctx context.Context, id uuid.UUID) (*model.Survey, error) {
	survey, err := s.store.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSurveyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return survey, nil
}

// Create stores a new survey. Questions, when given, are checked the same
// way an editing session checks them at submit.
func (s *SurveyService) Create(ctx context.Context, survey *model.Survey) error {
	if len(survey.Questions) > 0 {
		if err := checkQuestions(survey); err != nil {
			return err
		}
	}
	if err := s.store.Create(ctx, survey); err != nil {
		return fmt.Errorf("create survey: %w", err)
	}
	s.log.Info().
		Str("survey_id", survey.ID.String()).
		Int("questions", len(survey.Questions)).
		Msg("Survey created")
	return nil
}

// Delete removes a survey.
func (s *SurveyService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSurveyNotFound
	}
	if err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	return nil
}

// checkQuestions loads the questions into a throwaway session and returns
// the session's submit validation, then writes the normalised rows back.
func checkQuestions(survey *model.Survey) error {
	drafts := make([]editor.Draft, len(survey.Questions))
	for i, q := range survey.Questions {
		drafts[i] = q.Draft()
	}
	sess, err := editor.NewSession(editor.Config{
		SurveyID:        survey.ID,
		Title:           survey.Title,
		MultiStep:       survey.MultiStep,
		DisplayDirectly: survey.DisplayDirectly,
		Questions:       drafts,
	})
	if err != nil {
		return err
	}
	if err := sess.Validate(); err != nil {
		return err
	}

	snap := sess.Snapshot()
	questions := make([]model.SurveyQuestion, len(snap.Questions))
	for i, v := range snap.Questions {
		questions[i] = model.QuestionFromView(survey.ID, v)
	}
	survey.Questions = questions
	survey.MultiStep = snap.Display.MultiStep
	survey.DisplayDirectly = snap.Display.DisplayDirectly
	return nil
}
