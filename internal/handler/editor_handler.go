package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/survey-editor/internal/editor"
	"github.com/stemsi/survey-editor/internal/model"
	"github.com/stemsi/survey-editor/internal/response"
	"github.com/stemsi/survey-editor/internal/service"
	"github.com/stemsi/survey-editor/internal/validator"
)

// EditorHandler handles editing session endpoints.
type EditorHandler struct {
	editorService *service.EditorService
}

// NewEditorHandler creates a new EditorHandler.
func NewEditorHandler(editorService *service.EditorService) *EditorHandler {
	return &EditorHandler{editorService: editorService}
}

// OpenSession godoc
// POST /api/v1/admin/surveys/:id/sessions
func (h *EditorHandler) OpenSession(c *gin.Context) {
	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	snap, err := h.editorService.Open(c.Request.Context(), surveyID)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": snap})
}

// GetSession godoc
// GET /api/v1/admin/sessions/:sid
func (h *EditorHandler) GetSession(c *gin.Context) {
	sid, ok := parseSessionID(c)
	if !ok {
		return
	}

	snap, err := h.editorService.Snapshot(c.Request.Context(), sid)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": snap})
}

// CloseSession godoc
// DELETE /api/v1/admin/sessions/:sid
// Discards the session without saving.
func (h *EditorHandler) CloseSession(c *gin.Context) {
	sid, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := h.editorService.Close(c.Request.Context(), sid); err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "session closed"})
}

// AddQuestion godoc
// POST /api/v1/admin/sessions/:sid/questions
func (h *EditorHandler) AddQuestion(c *gin.Context) {
	sid, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	snap, err := h.editorService.AddQuestion(c.Request.Context(), sid, &req)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": snap})
}

// UpdateQuestion godoc
// PATCH /api/v1/admin/sessions/:sid/questions/:qid
func (h *EditorHandler) UpdateQuestion(c *gin.Context) {
	sid, qid, ok := parseQuestionIDs(c)
	if !ok {
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	snap, err := h.editorService.UpdateQuestion(c.Request.Context(), sid, qid, &req)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": snap})
}

// SetSkip godoc
// PUT /api/v1/admin/sessions/:sid/questions/:qid/skip
func (h *EditorHandler) SetSkip(c *gin.Context) {
	sid, qid, ok := parseQuestionIDs(c)
	if !ok {
		return
	}

	var req model.SetSkipRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	snap, err := h.editorService.SetSkip(c.Request.Context(), sid, qid, &req)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": snap})
}

// MoveUp godoc
// POST /api/v1/admin/sessions/:sid/questions/:qid/move-up
func (h *EditorHandler) MoveUp(c *gin.Context) {
	sid, qid, ok := parseQuestionIDs(c)
	if !ok {
		return
	}

	snap, err := h.editorService.MoveUp(c.Request.Context(), sid, qid)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": snap})
}

// MoveDown godoc
// POST /api/v1/admin/sessions/:sid/questions/:qid/move-down
func (h *EditorHandler) MoveDown(c *gin.Context) {
	sid, qid, ok := parseQuestionIDs(c)
	if !ok {
		return
	}

	snap, err := h.editorService.MoveDown(c.Request.Context(), sid, qid)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": snap})
}

// DeleteQuestion godoc
// DELETE /api/v1/admin/sessions/:sid/questions/:qid
func (h *EditorHandler) DeleteQuestion(c *gin.Context) {
	sid, qid, ok := parseQuestionIDs(c)
	if !ok {
		return
	}

	snap, err := h.editorService.DeleteQuestion(c.Request.Context(), sid, qid)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": snap})
}

// SetDisplayOptions godoc
// PUT /api/v1/admin/sessions/:sid/display-options
func (h *EditorHandler) SetDisplayOptions(c *gin.Context) {
	sid, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req model.DisplayOptionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	snap, err := h.editorService.SetDisplayOptions(c.Request.Context(), sid, &req)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": snap})
}

// SetTitle godoc
// PUT /api/v1/admin/sessions/:sid/title
func (h *EditorHandler) SetTitle(c *gin.Context) {
	sid, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req model.SetTitleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	snap, err := h.editorService.SetTitle(c.Request.Context(), sid, &req)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": snap})
}

// Submit godoc
// POST /api/v1/admin/sessions/:sid/submit
// Queues the session for saving and closes it.
func (h *EditorHandler) Submit(c *gin.Context) {
	sid, ok := parseSessionID(c)
	if !ok {
		return
	}

	sub, err := h.editorService.Submit(c.Request.Context(), sid)
	if err != nil {
		failEditor(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{
		"message":   "survey queued for saving",
		"survey_id": sub.SurveyID,
		"questions": len(sub.Questions),
	})
}

// ─── Helpers ───────────────────────────────────────────────────────────

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	sid, err := uuid.Parse(c.Param("sid"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return sid, true
}

func parseQuestionIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	sid, ok := parseSessionID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	qid, err := uuid.Parse(c.Param("qid"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, uuid.Nil, false
	}
	return sid, qid, true
}

// failEditor maps session and editor errors onto the response envelope.
// Skip logic conflicts carry the blocking message naming the question.
func failEditor(c *gin.Context, err error) {
	var violation *editor.Violation
	switch {
	case errors.As(err, &violation):
		response.FailWithMessage(c, http.StatusConflict, response.ErrSkipLogicConflict, violation.Error())
	case errors.Is(err, service.ErrSurveyNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, editor.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotFound)
	case errors.Is(err, service.ErrSessionLimit):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrSessionLimit)
	case errors.Is(err, editor.ErrNoSibling):
		response.Fail(c, http.StatusConflict, response.ErrNoSibling)
	case errors.Is(err, editor.ErrOptionDisabled):
		response.Fail(c, http.StatusConflict, response.ErrOptionDisabled)
	case errors.Is(err, editor.ErrInvalidSkipTarget):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidSkipTarget)
	case errors.Is(err, editor.ErrTargetRequired),
		errors.Is(err, editor.ErrSurveyRequired),
		errors.Is(err, editor.ErrTooLong):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrIncompleteSurvey, err.Error())
	case errors.Is(err, editor.ErrInvalidQuestionType),
		errors.Is(err, editor.ErrInvalidSkipAction),
		errors.Is(err, editor.ErrDuplicateQuestion),
		errors.Is(err, editor.ErrDuplicateSortOrder):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, err.Error())
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("Editor request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
