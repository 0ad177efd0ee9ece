package repository

import (
	"github.com/lequan/examhub/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	Create(submission *model.StudentSubmission) error
	FindAll() ([]model.StudentSubmission, error)
	FindByExamID(examID string) ([]model.StudentSubmission, error)
	DeleteByExamID(examID string) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create is the only write path; submissions are never updated.
func (r *submissionRepository) Create(submission *model.StudentSubmission) error {
	return r.db.Create(submission).Error
}

func (r *submissionRepository) FindAll() ([]model.StudentSubmission, error) {
	var submissions []model.StudentSubmission
	if err := r.db.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) FindByExamID(examID string) ([]model.StudentSubmission, error) {
	var submissions []model.StudentSubmission
	if err := r.db.Where("exam_id = ?", examID).Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) DeleteByExamID(examID string) error {
	return r.db.Where("exam_id = ?", examID).Delete(&model.StudentSubmission{}).Error
}
