package student

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lequan/examhub/internal/dto"
	"github.com/lequan/examhub/internal/service"
	"github.com/lequan/examhub/internal/session"
	"github.com/rs/zerolog/log"
)

const sessionHeader = "X-Session-Token"

type StudentController struct {
	studentExams service.StudentExamService
	scoring      service.ScoringService
	sessions     *session.Manager
}

func NewStudentController(
	studentExams service.StudentExamService,
	scoring service.ScoringService,
	sessions *session.Manager,
) *StudentController {
	return &StudentController{studentExams: studentExams, scoring: scoring, sessions: sessions}
}

// LookupExam godoc
// @Summary Look up an open exam by its code
// @Description Matches the 6-character code case-insensitively. The answer key is not included.
// @Tags student
// @Produce json
// @Param code path string true "Exam code"
// @Success 200 {object} dto.StudentExamDTO
// @Failure 404 {object} dto.ErrorResponse "No exam with that code"
// @Failure 403 {object} dto.ErrorResponse "Exam is closed"
// @Router /exams/code/{code} [get]
func (c *StudentController) LookupExam(ctx *gin.Context) {
	exam, err := c.studentExams.FindOpenByCode(ctx.Param("code"))
	if err != nil {
		status, message := entryStatus(err)
		ctx.JSON(status, dto.ErrorResponse{Message: message})
		return
	}
	ctx.JSON(http.StatusOK, exam)
}

// EnterExam godoc
// @Summary Start an exam attempt from an exam code
// @Description Creates a student session and moves it into the exam. The elapsed-time clock starts here.
// @Tags student
// @Accept json
// @Produce json
// @Param entry body dto.EnterExamRequest true "Exam code"
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing exam code"
// @Failure 403 {object} dto.ErrorResponse "Exam is closed"
// @Failure 404 {object} dto.ErrorResponse "No exam with that code"
// @Router /sessions [post]
func (c *StudentController) EnterExam(ctx *gin.Context) {
	var req dto.EnterExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Enter an exam code", Details: []string{err.Error()}})
		return
	}

	exam, err := c.studentExams.FindOpenByCode(req.ExamCode)
	if err != nil {
		// The session stays at the entry screen: a session is only
		// created once the code resolves to an open exam.
		status, message := entryStatus(err)
		ctx.JSON(status, dto.ErrorResponse{Message: message})
		return
	}

	token, sess := c.sessions.CreateStudent()
	if err := sess.EnterExam(exam.ID); err != nil {
		c.sessions.Drop(token)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Could not start the exam", Details: []string{err.Error()}})
		return
	}

	ctx.JSON(http.StatusOK, dto.SessionResponseDTO{Token: token, State: string(sess.State()), Exam: exam})
}

func entryStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrExamClosed):
		return http.StatusForbidden, "This exam is not accepting new attempts"
	case errors.Is(err, service.ErrExamNotFound):
		return http.StatusNotFound, "No exam found for that code"
	default:
		return http.StatusInternalServerError, "Could not look up the exam"
	}
}

// Submit godoc
// @Summary Submit a completed attempt
// @Description Scores the answer set and inserts the submission exactly once. Requires confirm=true in the body.
// @Tags student
// @Accept json
// @Produce json
// @Param X-Session-Token header string true "Student session token"
// @Param submission body dto.SubmitExamRequest true "Answers and student identity"
// @Success 201 {object} dto.SubmissionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or missing confirmation"
// @Failure 401 {object} dto.ErrorResponse "Unknown session"
// @Failure 409 {object} dto.ErrorResponse "Session is not in an exam"
// @Router /sessions/submit [post]
func (c *StudentController) Submit(ctx *gin.Context) {
	sess, err := c.sessions.Get(ctx.GetHeader(sessionHeader))
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Unknown session; enter the exam code again"})
		return
	}

	var req dto.SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if !req.Confirm {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Submitting ends the attempt; pass confirm to proceed"})
		return
	}

	// Claim the submission slot before scoring. Concurrent submits on
	// the same token (a double-clicked button) race here; the loser
	// gets the conflict instead of a second insert.
	if err := sess.BeginSubmit(); err != nil {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "This session has no exam in progress"})
		return
	}

	resp, err := c.scoring.SubmitExam(ctx.Request.Context(), sess.ExamID(), req, sess.TimeSpent())
	if err != nil {
		// Release the claim so the student can try the submit again.
		if abortErr := sess.AbortSubmit(); abortErr != nil {
			log.Debug().Err(abortErr).Msg("Session left the submitting state before the abort")
		}
		if errors.Is(err, service.ErrExamNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "The exam no longer exists"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save the submission. Try again.", Details: []string{err.Error()}})
		return
	}

	if err := sess.CompleteExam(); err != nil {
		log.Debug().Err(err).Msg("Session left the submitting state before completion")
	}
	ctx.JSON(http.StatusCreated, resp)
}
