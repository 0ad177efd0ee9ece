package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lequan/examhub/internal/dto"
	"github.com/lequan/examhub/internal/model"
	"github.com/lequan/examhub/internal/realtime"
	"github.com/lequan/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// gradingWorkers bounds concurrent essay grading calls per submission.
// Each task is attributed to its question id and one task's failure
// never affects another's score.
const gradingWorkers = 4

// ScoringService turns a student's answer set into a persisted,
// write-once submission.
type ScoringService interface {
	SubmitExam(ctx context.Context, examID string, req dto.SubmitExamRequest, timeSpent int) (*dto.SubmissionResponseDTO, error)
}

type scoringService struct {
	examRepo       repository.ExamRepository
	submissionRepo repository.SubmissionRepository
	grading        GradingService
	hub            *realtime.Hub
	newID          func() string
}

func NewScoringService(
	examRepo repository.ExamRepository,
	submissionRepo repository.SubmissionRepository,
	grading GradingService,
	hub *realtime.Hub,
) ScoringService {
	return &scoringService{
		examRepo:       examRepo,
		submissionRepo: submissionRepo,
		grading:        grading,
		hub:            hub,
		newID:          uuid.NewString,
	}
}

type gradingTask struct {
	question *model.Question
	text     string
}

func (s *scoringService) SubmitExam(ctx context.Context, examID string, req dto.SubmitExamRequest, timeSpent int) (*dto.SubmissionResponseDTO, error) {
	exam, err := s.examRepo.FindByIDWithQuestions(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrExamNotFound, examID)
		}
		return nil, fmt.Errorf("database error loading exam: %w", err)
	}

	answers := make(map[string]model.RecordedAnswer, len(exam.Questions))
	score := 0.0
	var tasks []gradingTask

	// First pass, in question order: MCQs score deterministically and
	// blank essays are free to classify locally. Only non-blank essay
	// answers go to the grader.
	for i := range exam.Questions {
		q := &exam.Questions[i]
		given := req.Answers[q.ID]

		switch q.Type {
		case model.QuestionTypeMCQ:
			// No selection never equals a valid index.
			correct := given.SelectedOption != nil &&
				q.CorrectOptionIndex != nil &&
				*given.SelectedOption == *q.CorrectOptionIndex
			if correct {
				score++
			}
			var value any
			if given.SelectedOption != nil {
				value = *given.SelectedOption
			}
			answers[q.ID] = model.RecordedAnswer{
				Value:   value,
				Type:    model.QuestionTypeMCQ,
				Correct: &correct,
			}
		case model.QuestionTypeEssay:
			if strings.TrimSpace(given.Text) == "" {
				zero := 0.0
				answers[q.ID] = model.RecordedAnswer{
					Value:   given.Text,
					Type:    model.QuestionTypeEssay,
					AIScore: &zero,
				}
				continue
			}
			tasks = append(tasks, gradingTask{question: q, text: given.Text})
		}
	}

	for id, essayScore := range s.gradeEssays(ctx, tasks) {
		sc := essayScore
		answers[id] = model.RecordedAnswer{
			Value:   req.Answers[id].Text,
			Type:    model.QuestionTypeEssay,
			AIScore: &sc,
		}
		score += essayScore
	}

	submission := model.StudentSubmission{
		ID:          s.newID(),
		ExamID:      exam.ID,
		StudentName: req.StudentName,
		ClassName:   req.ClassName,
		Answers:     datatypes.NewJSONType(answers),
		Score:       score,
		Total:       len(exam.Questions),
		TimeSpent:   timeSpent,
	}
	if err := s.submissionRepo.Create(&submission); err != nil {
		log.Error().Err(err).Str("examID", exam.ID).Msg("Failed to insert submission")
		return nil, fmt.Errorf("database error saving submission: %w", err)
	}
	s.hub.Notify(realtime.TableSubmissions)

	resp := submissionToDTO(&submission)
	return &resp, nil
}

// gradeEssays fans the tasks out to a bounded worker pool and returns
// scores keyed by question id. The grader is fail-soft, so a worker
// never reports an error; a failed call simply contributes 0.
func (s *scoringService) gradeEssays(ctx context.Context, tasks []gradingTask) map[string]float64 {
	scores := make(map[string]float64, len(tasks))
	if len(tasks) == 0 {
		return scores
	}

	workers := gradingWorkers
	if len(tasks) < workers {
		workers = len(tasks)
	}

	type result struct {
		questionID string
		score      float64
	}
	jobs := make(chan gradingTask)
	results := make(chan result, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				results <- result{
					questionID: task.question.ID,
					score:      s.grading.GradeEssay(ctx, task.question, task.text),
				}
			}
		}()
	}
	for _, task := range tasks {
		jobs <- task
	}
	close(jobs)
	wg.Wait()
	close(results)

	for r := range results {
		scores[r.questionID] = r.score
	}
	return scores
}
