package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lequan/examhub/internal/dto"
	"github.com/lequan/examhub/internal/model"
	"github.com/lequan/examhub/internal/realtime"
	"github.com/lequan/examhub/internal/repository"
	"github.com/rs/zerolog/log"
)

// ExamService owns the exam aggregate's lifecycle: publish, open/close,
// cascade delete and the list views, plus a cached snapshot kept in
// sync by refetching whenever the change channel fires.
type ExamService interface {
	Publish(req dto.PublishExamRequest) (*dto.ExamResponseDTO, error)
	SetOpen(examID string, open bool) (*dto.ExamResponseDTO, error)
	Delete(examID string) error
	ListExams() ([]dto.ExamResponseDTO, error)
	ListSubmissions(examID string) ([]dto.SubmissionResponseDTO, error)
	Snapshot() ([]dto.ExamResponseDTO, []dto.SubmissionResponseDTO)
	WatchChanges(ctx context.Context)
}

type examService struct {
	examRepo       repository.ExamRepository
	submissionRepo repository.SubmissionRepository
	hub            *realtime.Hub

	mu          sync.RWMutex
	exams       []dto.ExamResponseDTO
	submissions []dto.SubmissionResponseDTO
}

func NewExamService(examRepo repository.ExamRepository, submissionRepo repository.SubmissionRepository, hub *realtime.Hub) ExamService {
	return &examService{
		examRepo:       examRepo,
		submissionRepo: submissionRepo,
		hub:            hub,
	}
}

// Publish inserts the exam aggregate exactly once. If any MCQ still has
// an unset or defaulted correct answer the publish is rejected with
// ErrUnresolvedAnswers; the teacher may override and ship anyway.
func (s *examService) Publish(req dto.PublishExamRequest) (*dto.ExamResponseDTO, error) {
	exam := model.Exam{
		ID:       req.ID,
		ExamCode: strings.ToUpper(req.ExamCode),
		Title:    req.Title,
	}
	for i, qDto := range req.Questions {
		question, err := questionFromPublishDTO(qDto)
		if err != nil {
			return nil, err
		}
		question.Position = i
		exam.Questions = append(exam.Questions, question)
	}

	if unresolved := exam.UnresolvedQuestions(); len(unresolved) > 0 {
		if !req.OverrideUnresolved {
			return nil, fmt.Errorf("%w: %d question(s)", ErrUnresolvedAnswers, len(unresolved))
		}
		log.Warn().
			Str("examID", exam.ID).
			Int("unresolved", len(unresolved)).
			Msg("Publishing exam with unresolved MCQ answers on explicit teacher override")
	}

	if err := s.examRepo.Create(&exam); err != nil {
		log.Error().Err(err).Str("examID", exam.ID).Msg("Failed to insert exam")
		return nil, fmt.Errorf("database error publishing exam: %w", err)
	}
	s.hub.Notify(realtime.TableExams)

	stored, err := s.examRepo.FindByIDWithQuestions(exam.ID)
	if err != nil {
		log.Error().Err(err).Str("examID", exam.ID).Msg("Failed to reload exam after publish")
		resp := examToDTO(&exam)
		return &resp, nil
	}
	resp := examToDTO(stored)
	return &resp, nil
}

func questionFromPublishDTO(qDto dto.QuestionPublishDTO) (model.Question, error) {
	switch model.QuestionType(qDto.Type) {
	case model.QuestionTypeEssay:
		return model.NewEssay(qDto.ID, qDto.Prompt, qDto.SampleAnswer), nil
	case model.QuestionTypeMCQ:
		source := model.AnswerSource(qDto.AnswerSource)
		if source == "" {
			// The setup flow omits the source when the teacher set the
			// answer by hand.
			source = model.AnswerSourceConfirmed
		}
		return model.NewMultipleChoice(qDto.ID, qDto.Prompt, qDto.Options, qDto.CorrectOptionIndex, source)
	default:
		return model.Question{}, fmt.Errorf("unknown question type %q", qDto.Type)
	}
}

// SetOpen is a single-column update and is idempotent. Every viewer
// converges by refetching on the change notification.
func (s *examService) SetOpen(examID string, open bool) (*dto.ExamResponseDTO, error) {
	if _, err := s.examRepo.FindByID(examID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExamNotFound, examID)
	}
	if err := s.examRepo.SetOpen(examID, open); err != nil {
		log.Error().Err(err).Str("examID", examID).Msg("Failed to toggle exam open state")
		return nil, fmt.Errorf("database error toggling exam: %w", err)
	}
	s.hub.Notify(realtime.TableExams)

	exam, err := s.examRepo.FindByIDWithQuestions(examID)
	if err != nil {
		return nil, fmt.Errorf("database error reloading exam: %w", err)
	}
	resp := examToDTO(exam)
	return &resp, nil
}

// Delete removes the exam's submissions first, then the exam. The two
// deletes do not share a transaction; a crash in between can strand one
// side. Last-write-wins is the accepted model here.
func (s *examService) Delete(examID string) error {
	if _, err := s.examRepo.FindByID(examID); err != nil {
		return fmt.Errorf("%w: %s", ErrExamNotFound, examID)
	}
	if err := s.submissionRepo.DeleteByExamID(examID); err != nil {
		log.Error().Err(err).Str("examID", examID).Msg("Failed to delete submissions for exam")
		return fmt.Errorf("database error deleting submissions: %w", err)
	}
	if err := s.examRepo.Delete(examID); err != nil {
		log.Error().Err(err).Str("examID", examID).Msg("Failed to delete exam after its submissions were removed")
		return fmt.Errorf("database error deleting exam: %w", err)
	}
	s.hub.Notify(realtime.TableSubmissions)
	s.hub.Notify(realtime.TableExams)
	return nil
}

// ListExams fetches all exams newest-first and replaces the cached view
// wholesale. Correctness is last-fetch-wins, not an incremental merge.
func (s *examService) ListExams() ([]dto.ExamResponseDTO, error) {
	exams, err := s.examRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list exams")
		return nil, fmt.Errorf("database error listing exams: %w", err)
	}
	dtos := make([]dto.ExamResponseDTO, 0, len(exams))
	for i := range exams {
		dtos = append(dtos, examToDTO(&exams[i]))
	}
	s.mu.Lock()
	s.exams = dtos
	s.mu.Unlock()
	return dtos, nil
}

func (s *examService) ListSubmissions(examID string) ([]dto.SubmissionResponseDTO, error) {
	submissions, err := s.submissionRepo.FindByExamID(examID)
	if err != nil {
		log.Error().Err(err).Str("examID", examID).Msg("Failed to list submissions")
		return nil, fmt.Errorf("database error listing submissions: %w", err)
	}
	dtos := make([]dto.SubmissionResponseDTO, 0, len(submissions))
	for i := range submissions {
		dtos = append(dtos, submissionToDTO(&submissions[i]))
	}
	return dtos, nil
}

func (s *examService) refreshSubmissions() error {
	submissions, err := s.submissionRepo.FindAll()
	if err != nil {
		return err
	}
	dtos := make([]dto.SubmissionResponseDTO, 0, len(submissions))
	for i := range submissions {
		dtos = append(dtos, submissionToDTO(&submissions[i]))
	}
	s.mu.Lock()
	s.submissions = dtos
	s.mu.Unlock()
	return nil
}

// Snapshot returns the cached views last produced by a refetch.
func (s *examService) Snapshot() ([]dto.ExamResponseDTO, []dto.SubmissionResponseDTO) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exams, s.submissions
}

// WatchChanges refetches on every change event until the context ends
// or the hub closes. Events carry no payload; a full refetch is the
// contract.
func (s *examService) WatchChanges(ctx context.Context) {
	events, cancel := s.hub.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			var err error
			switch ev.Table {
			case realtime.TableSubmissions:
				err = s.refreshSubmissions()
			default:
				_, err = s.ListExams()
			}
			if err != nil {
				log.Warn().Err(err).Str("table", string(ev.Table)).Msg("Refetch after change event failed")
			}
		}
	}
}
