package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/model"
	"github.com/stemsi/survey-editor/internal/response"
	"github.com/stemsi/survey-editor/internal/service"
	"github.com/stemsi/survey-editor/internal/validator"
)

// SurveyHandler handles stored survey endpoints.
type SurveyHandler struct {
	surveyService *service.SurveyService
}

// NewSurveyHandler creates a new SurveyHandler.
func NewSurveyHandler(surveyService *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// ListSurveys godoc
// GET /api/v1/admin/surveys?page=1&per_page=10&search=
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	surveys, pagination, err := h.surveyService.List(c.Request.Context(), page, perPage, c.Query("search"))
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("List surveys failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"surveys": surveys}, pagination)
}

// GetSurvey godoc
// GET /api/v1/admin/surveys/:id
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	survey, err := h.surveyService.GetSurvey(c.Request.Context(), id)
	if errors.Is(err, service.ErrSurveyNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Get survey failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if survey.Questions == nil {
		survey.Questions = []model.SurveyQuestion{}
	}
	response.Success(c, http.StatusOK, gin.H{"survey": survey})
}

// CreateSurvey godoc
// POST /api/v1/admin/surveys
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	var req model.CreateSurveyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	survey := &model.Survey{
		Title:           req.Title,
		Intro:           req.Intro,
		MultiStep:       req.MultiStep,
		DisplayDirectly: req.DisplayDirectly && !req.MultiStep,
	}
	if err := h.surveyService.Create(c.Request.Context(), survey); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Create survey failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"survey": survey})
}

// DeleteSurvey godoc
// DELETE /api/v1/admin/surveys/:id
func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	err = h.surveyService.Delete(c.Request.Context(), id)
	if errors.Is(err, service.ErrSurveyNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Delete survey failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "survey deleted successfully"})
}
