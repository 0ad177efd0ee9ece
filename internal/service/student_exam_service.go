package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lequan/examhub/internal/dto"
	"github.com/lequan/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StudentExamService resolves exam codes for students entering an exam.
type StudentExamService interface {
	FindOpenByCode(code string) (*dto.StudentExamDTO, error)
}

type studentExamService struct {
	examRepo repository.ExamRepository
}

func NewStudentExamService(examRepo repository.ExamRepository) StudentExamService {
	return &studentExamService{examRepo: examRepo}
}

// FindOpenByCode matches case-insensitively and only admits exams whose
// gate is open; the answer key never leaves this boundary.
func (s *studentExamService) FindOpenByCode(code string) (*dto.StudentExamDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty exam code", ErrExamNotFound)
	}
	exam, err := s.examRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: code %s", ErrExamNotFound, code)
		}
		log.Error().Err(err).Str("code", code).Msg("Failed to look up exam by code")
		return nil, fmt.Errorf("database error looking up exam: %w", err)
	}
	if !exam.IsOpen {
		return nil, fmt.Errorf("%w: code %s", ErrExamClosed, code)
	}
	resp := examToStudentDTO(exam)
	return &resp, nil
}
