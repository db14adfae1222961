package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/cloudexam/cloudexam-backend/internal/middleware"
	"github.com/cloudexam/cloudexam-backend/internal/model"
	"github.com/cloudexam/cloudexam-backend/internal/response"
	"github.com/cloudexam/cloudexam-backend/internal/service"
	"github.com/cloudexam/cloudexam-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExamResultHandler handles exam submission and result endpoints.
type ExamResultHandler struct {
	resultService *service.ExamResultService
	log           zerolog.Logger
}

// NewExamResultHandler creates a new ExamResultHandler.
func NewExamResultHandler(resultService *service.ExamResultService, log zerolog.Logger) *ExamResultHandler {
	return &ExamResultHandler{
		resultService: resultService,
		log:           log.With().Str("component", "exam_result_handler").Logger(),
	}
}

// SubmitExam godoc
// POST /api/exam-results
// Scores the submitted answers and stores the result.
func (h *ExamResultHandler) SubmitExam(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.resultService.SubmitExam(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetHistory godoc
// GET /api/exam-results/history?page=&limit=
// Lists the caller's results, newest first.
func (h *ExamResultHandler) GetHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var q model.HistoryQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidQuery, fields)
		return
	}

	entries, pagination, err := h.resultService.GetHistory(c.Request.Context(), userID, q.Page, q.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": entries}, pagination)
}

// GetStats godoc
// GET /api/exam-results/stats
func (h *ExamResultHandler) GetStats(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	stats, err := h.resultService.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// GetResult godoc
// GET /api/exam-results/:id
// Returns one of the caller's results with its answers.
func (h *ExamResultHandler) GetResult(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	detail, err := h.resultService.GetResultByID(c.Request.Context(), userID, int(id))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// fail maps service errors to API error codes. Anything unrecognised is a
// storage or upstream failure and reported as 503.
func (h *ExamResultHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
	case errors.Is(err, service.ErrResultNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrResultNotFound)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
	case errors.Is(err, service.ErrInvalidSubmission):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"detail": err.Error()})
	default:
		event := h.log.Error()
		if errors.Is(err, context.Canceled) {
			event = h.log.Warn()
		}
		event.Err(err).
			Str("request_id", response.RequestID(c)).
			Str("path", c.FullPath()).
			Msg("Request failed")
		_ = c.Error(err)
		response.Fail(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable)
	}
}
