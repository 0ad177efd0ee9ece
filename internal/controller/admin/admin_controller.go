package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lequan/examhub/config"
	"github.com/lequan/examhub/internal/dto"
	"github.com/lequan/examhub/internal/service"
	"github.com/lequan/examhub/internal/session"
	"github.com/rs/zerolog/log"
)

const sessionHeader = "X-Session-Token"

type AdminController struct {
	extraction service.ExtractionService
	exams      service.ExamService
	sessions   *session.Manager
	cfg        *config.Config
}

func NewAdminController(
	extraction service.ExtractionService,
	exams service.ExamService,
	sessions *session.Manager,
	cfg *config.Config,
) *AdminController {
	return &AdminController{extraction: extraction, exams: exams, sessions: sessions, cfg: cfg}
}

// RequireSession admits only tokens whose session holds a live teacher
// credential.
func (c *AdminController) RequireSession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sess, err := c.sessions.Get(ctx.GetHeader(sessionHeader))
		if err != nil || !sess.Authenticated() {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Teacher login required"})
			return
		}
		ctx.Set("session", sess)
		ctx.Next()
	}
}

func teacherSession(ctx *gin.Context) *session.Session {
	if v, ok := ctx.Get("session"); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

// Login godoc
// @Summary Teacher login
// @Description Opens a teacher session when the passcode matches.
// @Tags admin
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Admin passcode"
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 401 {object} dto.ErrorResponse "Wrong passcode"
// @Router /admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	token, sess := c.sessions.CreateTeacher()
	if err := sess.Login(req.Passcode, c.cfg.AdminPasscode); err != nil {
		c.sessions.Drop(token)
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Wrong passcode"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SessionResponseDTO{Token: token, State: string(sess.State())})
}

// Logout godoc
// @Summary Teacher logout
// @Tags admin
// @Produce json
// @Success 204 "Session ended"
// @Router /admin/logout [post]
func (c *AdminController) Logout(ctx *gin.Context) {
	if sess := teacherSession(ctx); sess != nil {
		sess.Logout()
	}
	c.sessions.Drop(ctx.GetHeader(sessionHeader))
	ctx.Status(http.StatusNoContent)
}

// Extract godoc
// @Summary Extract a draft exam from raw document text
// @Description Sends the uploaded document text to the AI endpoint and returns a draft exam for setup. The draft is not persisted.
// @Tags admin
// @Accept json
// @Produce json
// @Param document body dto.ExtractRequest true "Raw document text"
// @Success 200 {object} dto.ExamResponseDTO "Draft exam"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "AI endpoint rejected the request or returned an unusable response"
// @Failure 503 {object} dto.ErrorResponse "AI quota exceeded"
// @Failure 504 {object} dto.ErrorResponse "Extraction timed out"
// @Router /admin/extract [post]
func (c *AdminController) Extract(ctx *gin.Context) {
	var req dto.ExtractRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	draft, err := c.extraction.ExtractExam(ctx.Request.Context(), req.Text)
	if err != nil {
		status, message := extractionStatus(err)
		ctx.JSON(status, dto.ErrorResponse{Message: message, Details: []string{err.Error()}})
		return
	}

	if sess := teacherSession(ctx); sess != nil {
		if err := sess.BeginSetup(); err != nil {
			log.Debug().Err(err).Msg("Session was not on the dashboard when extraction finished")
		}
	}

	var resp dto.ExamResponseDTO
	resp.ID = draft.ID
	resp.ExamCode = draft.ExamCode
	resp.Title = draft.Title
	for i := range draft.Questions {
		q := &draft.Questions[i]
		resp.Questions = append(resp.Questions, dto.QuestionResponseDTO{
			ID:                 q.ID,
			Type:               string(q.Type),
			Prompt:             q.Prompt,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
			AnswerSource:       string(q.AnswerSource),
			SampleAnswer:       q.SampleAnswer,
			Position:           q.Position,
		})
	}
	ctx.JSON(http.StatusOK, resp)
}

// extractionStatus maps the extraction failure taxonomy onto distinct
// user-facing responses.
func extractionStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrExtractionTimeout):
		return http.StatusGatewayTimeout, "The AI took too long to read the document. Try again."
	case errors.Is(err, service.ErrInvalidAPIKey):
		return http.StatusBadGateway, "The AI service rejected the configured API key."
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusServiceUnavailable, "The AI service quota is exhausted. Try again later."
	case errors.Is(err, service.ErrMalformedResponse):
		return http.StatusBadGateway, "The AI returned an unusable response. Try again."
	default:
		return http.StatusBadGateway, "Could not reach the AI service. Try again."
	}
}

// Publish godoc
// @Summary Publish an exam
// @Description Inserts the exam aggregate once. Unresolved MCQ answers are rejected unless override_unresolved is set.
// @Tags admin
// @Accept json
// @Produce json
// @Param exam body dto.PublishExamRequest true "Exam to publish"
// @Success 201 {object} dto.ExamResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Unresolved MCQ answers and no override"
// @Failure 500 {object} dto.ErrorResponse "Store rejected the insert"
// @Router /admin/exams [post]
func (c *AdminController) Publish(ctx *gin.Context) {
	var req dto.PublishExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.exams.Publish(req)
	if err != nil {
		if errors.Is(err, service.ErrUnresolvedAnswers) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{
				Message: "Some multiple-choice questions have no confirmed correct answer. Publish again with override_unresolved to ship anyway.",
				Details: []string{err.Error()},
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to publish exam", Details: []string{err.Error()}})
		return
	}

	if sess := teacherSession(ctx); sess != nil {
		if err := sess.Published(); err != nil {
			log.Debug().Err(err).Msg("Session was not in setup when publish finished")
		}
	}
	ctx.JSON(http.StatusCreated, resp)
}

// SetOpen godoc
// @Summary Open or close an exam for new attempts
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param gate body dto.ToggleOpenRequest true "Open flag"
// @Success 200 {object} dto.ExamResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /admin/exams/{id}/open [patch]
func (c *AdminController) SetOpen(ctx *gin.Context) {
	var req dto.ToggleOpenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.exams.SetOpen(ctx.Param("id"), *req.IsOpen)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Exam not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to toggle exam", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete an exam and all of its submissions
// @Description Requires confirm=true; not undoable. Submissions are removed before the exam.
// @Tags admin
// @Produce json
// @Param id path string true "Exam ID"
// @Param confirm query bool true "Must be true"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Missing confirmation"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /admin/exams/{id} [delete]
func (c *AdminController) Delete(ctx *gin.Context) {
	if ctx.Query("confirm") != "true" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Deleting an exam is not undoable; pass confirm=true"})
		return
	}

	if err := c.exams.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Exam not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete exam", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListExams godoc
// @Summary List all exams, newest first
// @Tags admin
// @Produce json
// @Success 200 {array} dto.ExamResponseDTO
// @Router /admin/exams [get]
func (c *AdminController) ListExams(ctx *gin.Context) {
	resp, err := c.exams.ListExams()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list exams", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListSubmissions godoc
// @Summary List an exam's submissions, newest first
// @Tags admin
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {array} dto.SubmissionResponseDTO
// @Router /admin/exams/{id}/submissions [get]
func (c *AdminController) ListSubmissions(ctx *gin.Context) {
	if sess := teacherSession(ctx); sess != nil {
		if err := sess.ViewSubmissions(); err != nil {
			log.Debug().Err(err).Msg("Session was not on the dashboard when opening submissions")
		}
	}

	resp, err := c.exams.ListSubmissions(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list submissions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
