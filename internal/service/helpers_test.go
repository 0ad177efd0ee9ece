package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lequan/examhub/internal/model"
	"gorm.io/gorm"
)

// fakeExamRepo is an in-memory ExamRepository. The shared ops log lets
// tests assert call ordering across repositories.
type fakeExamRepo struct {
	mu        sync.Mutex
	exams     map[string]model.Exam
	createErr error
	ops       *[]string
}

func newFakeExamRepo() *fakeExamRepo {
	return &fakeExamRepo{exams: make(map[string]model.Exam)}
}

func (r *fakeExamRepo) logOp(op string) {
	if r.ops != nil {
		*r.ops = append(*r.ops, op)
	}
}

func (r *fakeExamRepo) Create(exam *model.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.exams[exam.ID] = *exam
	return nil
}

func (r *fakeExamRepo) FindByID(id string) (*model.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exam, ok := r.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	exam.Questions = nil
	return &exam, nil
}

func (r *fakeExamRepo) FindByIDWithQuestions(id string) (*model.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exam, ok := r.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	questions := append([]model.Question(nil), exam.Questions...)
	sort.Slice(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })
	exam.Questions = questions
	return &exam, nil
}

func (r *fakeExamRepo) FindByCode(code string) (*model.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, exam := range r.exams {
		if strings.EqualFold(exam.ExamCode, code) {
			found := exam
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeExamRepo) FindAll() ([]model.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exams := make([]model.Exam, 0, len(r.exams))
	for _, exam := range r.exams {
		exams = append(exams, exam)
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].CreatedAt.After(exams[j].CreatedAt) })
	return exams, nil
}

func (r *fakeExamRepo) SetOpen(id string, open bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	exam, ok := r.exams[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	exam.IsOpen = open
	r.exams[id] = exam
	return nil
}

func (r *fakeExamRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logOp("exam.Delete")
	delete(r.exams, id)
	return nil
}

// fakeSubmissionRepo is an in-memory SubmissionRepository.
type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions []model.StudentSubmission
	createErr   error
	ops         *[]string
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{}
}

func (r *fakeSubmissionRepo) Create(submission *model.StudentSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.submissions = append(r.submissions, *submission)
	return nil
}

func (r *fakeSubmissionRepo) FindAll() ([]model.StudentSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.StudentSubmission(nil), r.submissions...), nil
}

func (r *fakeSubmissionRepo) FindByExamID(examID string) ([]model.StudentSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StudentSubmission
	for _, sub := range r.submissions {
		if sub.ExamID == examID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) DeleteByExamID(examID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ops != nil {
		*r.ops = append(*r.ops, "submission.DeleteByExamID")
	}
	kept := r.submissions[:0]
	for _, sub := range r.submissions {
		if sub.ExamID != examID {
			kept = append(kept, sub)
		}
	}
	r.submissions = kept
	return nil
}

// fakeGrader returns a fixed score per question id and records every
// answer it was asked to grade.
type fakeGrader struct {
	mu     sync.Mutex
	scores map[string]float64
	graded []string
}

func (g *fakeGrader) GradeEssay(_ context.Context, question *model.Question, _ string) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.graded = append(g.graded, question.ID)
	return g.scores[question.ID]
}

func (g *fakeGrader) gradedIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := append([]string(nil), g.graded...)
	sort.Strings(ids)
	return ids
}

// staticGenerate returns the same text for every prompt and records the
// prompts it saw.
func staticGenerate(text string) (generateFunc, *[]string) {
	prompts := &[]string{}
	var mu sync.Mutex
	return func(_ context.Context, prompt string) (string, error) {
		mu.Lock()
		*prompts = append(*prompts, prompt)
		mu.Unlock()
		return text, nil
	}, prompts
}

func failingGenerate(err error) generateFunc {
	return func(context.Context, string) (string, error) {
		return "", err
	}
}

// sequentialIDs returns q1, q2, q3... so extracted entities get stable
// ids in tests.
func sequentialIDs(prefix string) func() string {
	n := 0
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func intPtr(v int) *int { return &v }
