package student

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lequan/examhub/internal/dto"
	"github.com/lequan/examhub/internal/service"
	"github.com/lequan/examhub/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStudentExams struct {
	exam *dto.StudentExamDTO
	err  error
}

func (f *fakeStudentExams) FindOpenByCode(string) (*dto.StudentExamDTO, error) {
	return f.exam, f.err
}

type fakeScoring struct {
	resp      *dto.SubmissionResponseDTO
	err       error
	gotExamID string
	gotTime   int
}

func (f *fakeScoring) SubmitExam(_ context.Context, examID string, _ dto.SubmitExamRequest, timeSpent int) (*dto.SubmissionResponseDTO, error) {
	f.gotExamID = examID
	f.gotTime = timeSpent
	return f.resp, f.err
}

func setupStudentRouter(t *testing.T, exams service.StudentExamService, scoring service.ScoringService) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager()
	ctrl := NewStudentController(exams, scoring, sessions)

	router := gin.New()
	group := router.Group("/api/v1")
	group.GET("/exams/code/:code", ctrl.LookupExam)
	group.POST("/sessions", ctrl.EnterExam)
	group.POST("/sessions/submit", ctrl.Submit)
	return router, sessions
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func openExam() *dto.StudentExamDTO {
	return &dto.StudentExamDTO{
		ID:       "exam1",
		ExamCode: "ABC234",
		Title:    "Midterm",
		Questions: []dto.StudentQuestionDTO{
			{ID: "q1", Type: "mcq", Prompt: "Pick", Options: []string{"a", "b"}},
		},
	}
}

func TestLookupExam(t *testing.T) {
	router, _ := setupStudentRouter(t, &fakeStudentExams{exam: openExam()}, &fakeScoring{})

	w := doJSON(router, http.MethodGet, "/api/v1/exams/code/abc234", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.StudentExamDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "exam1", resp.ID)
	assert.NotContains(t, w.Body.String(), "correct_option_index")
}

func TestLookupExamErrors(t *testing.T) {
	router, _ := setupStudentRouter(t, &fakeStudentExams{err: service.ErrExamNotFound}, &fakeScoring{})
	w := doJSON(router, http.MethodGet, "/api/v1/exams/code/ZZZZZZ", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	router, _ = setupStudentRouter(t, &fakeStudentExams{err: service.ErrExamClosed}, &fakeScoring{})
	w = doJSON(router, http.MethodGet, "/api/v1/exams/code/ABC234", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEnterExamStartsSession(t *testing.T) {
	router, sessions := setupStudentRouter(t, &fakeStudentExams{exam: openExam()}, &fakeScoring{})

	w := doJSON(router, http.MethodPost, "/api/v1/sessions", "", dto.EnterExamRequest{ExamCode: "abc234"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SessionResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, string(session.StateStudentExam), resp.State)
	require.NotNil(t, resp.Exam)
	assert.Equal(t, "exam1", resp.Exam.ID)

	sess, err := sessions.Get(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "exam1", sess.ExamID())
}

func TestEnterExamBadCodeCreatesNoSession(t *testing.T) {
	router, _ := setupStudentRouter(t, &fakeStudentExams{err: service.ErrExamNotFound}, &fakeScoring{})

	w := doJSON(router, http.MethodPost, "/api/v1/sessions", "", dto.EnterExamRequest{ExamCode: "ZZZZZZ"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
}

func enterToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/v1/sessions", "", dto.EnterExamRequest{ExamCode: "abc234"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.SessionResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func submitBody() dto.SubmitExamRequest {
	return dto.SubmitExamRequest{
		StudentName: "An",
		ClassName:   "10A",
		Answers:     map[string]dto.StudentAnswerDTO{"q1": {Text: "hi"}},
		Confirm:     true,
	}
}

func TestSubmitScoresAndCompletesSession(t *testing.T) {
	scoring := &fakeScoring{resp: &dto.SubmissionResponseDTO{ID: "sub1", ExamID: "exam1", Score: 1, Total: 1}}
	router, sessions := setupStudentRouter(t, &fakeStudentExams{exam: openExam()}, scoring)
	token := enterToken(t, router)

	w := doJSON(router, http.MethodPost, "/api/v1/sessions/submit", token, submitBody())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "exam1", scoring.gotExamID)

	sess, err := sessions.Get(token)
	require.NoError(t, err)
	assert.Equal(t, session.StateStudentResult, sess.State())

	// The attempt is over; a second submit must be refused.
	w = doJSON(router, http.MethodPost, "/api/v1/sessions/submit", token, submitBody())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitRequiresConfirmation(t *testing.T) {
	router, _ := setupStudentRouter(t, &fakeStudentExams{exam: openExam()}, &fakeScoring{})
	token := enterToken(t, router)

	body := submitBody()
	body.Confirm = false
	w := doJSON(router, http.MethodPost, "/api/v1/sessions/submit", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitWithoutSession(t *testing.T) {
	router, _ := setupStudentRouter(t, &fakeStudentExams{exam: openExam()}, &fakeScoring{})

	w := doJSON(router, http.MethodPost, "/api/v1/sessions/submit", "", submitBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/sessions/submit", "bogus", submitBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// blockingScoring parks inside SubmitExam until released so a test can
// overlap a second request with an in-flight one.
type blockingScoring struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
	resp    *dto.SubmissionResponseDTO
}

func (f *blockingScoring) SubmitExam(context.Context, string, dto.SubmitExamRequest, int) (*dto.SubmissionResponseDTO, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	f.entered <- struct{}{}
	<-f.release
	return f.resp, nil
}

func (f *blockingScoring) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestConcurrentSubmitsInsertOnlyOnce(t *testing.T) {
	scoring := &blockingScoring{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
		resp:    &dto.SubmissionResponseDTO{ID: "sub1", ExamID: "exam1"},
	}
	router, _ := setupStudentRouter(t, &fakeStudentExams{exam: openExam()}, scoring)
	token := enterToken(t, router)

	first := make(chan int, 1)
	go func() {
		first <- doJSON(router, http.MethodPost, "/api/v1/sessions/submit", token, submitBody()).Code
	}()

	select {
	case <-scoring.entered:
	case <-time.After(time.Second):
		t.Fatal("first submit never reached scoring")
	}

	// Double-clicked button: the second submit arrives while the first
	// is still being scored. It must lose the claim, not insert again.
	w := doJSON(router, http.MethodPost, "/api/v1/sessions/submit", token, submitBody())
	assert.Equal(t, http.StatusConflict, w.Code)

	close(scoring.release)
	select {
	case code := <-first:
		assert.Equal(t, http.StatusCreated, code)
	case <-time.After(time.Second):
		t.Fatal("first submit never finished")
	}
	assert.Equal(t, 1, scoring.callCount())
}

func TestSubmitFailureKeepsSessionInExam(t *testing.T) {
	scoring := &fakeScoring{err: errors.New("insert failed")}
	router, sessions := setupStudentRouter(t, &fakeStudentExams{exam: openExam()}, scoring)
	token := enterToken(t, router)

	w := doJSON(router, http.MethodPost, "/api/v1/sessions/submit", token, submitBody())
	require.Equal(t, http.StatusInternalServerError, w.Code)

	sess, err := sessions.Get(token)
	require.NoError(t, err)
	assert.Equal(t, session.StateStudentExam, sess.State(), "the student can retry the submit")
}
