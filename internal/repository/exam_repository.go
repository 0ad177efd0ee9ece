package repository

import (
	"strings"

	"github.com/lequan/examhub/internal/model"
	"gorm.io/gorm"
)

type ExamRepository interface {
	Create(exam *model.Exam) error
	FindByID(id string) (*model.Exam, error)
	FindByIDWithQuestions(id string) (*model.Exam, error)
	FindByCode(code string) (*model.Exam, error)
	FindAll() ([]model.Exam, error)
	SetOpen(id string, open bool) error
	Delete(id string) error
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

// Create inserts the full aggregate once. GORM creates the associated
// questions alongside the exam row; there is no upsert path.
func (r *examRepository) Create(exam *model.Exam) error {
	return r.db.Create(exam).Error
}

func (r *examRepository) FindByID(id string) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.First(&exam, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindByIDWithQuestions(id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC")
	}).First(&exam, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// FindByCode matches the exam code case-insensitively.
func (r *examRepository) FindByCode(code string) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC")
	}).Where("UPPER(exam_code) = ?", strings.ToUpper(code)).First(&exam).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindAll() ([]model.Exam, error) {
	var exams []model.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC")
	}).Order("created_at DESC").Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *examRepository) SetOpen(id string, open bool) error {
	return r.db.Model(&model.Exam{}).Where("id = ?", id).Update("is_open", open).Error
}

func (r *examRepository) Delete(id string) error {
	return r.db.Select("Questions").Delete(&model.Exam{ID: id}).Error
}
