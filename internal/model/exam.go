package model

import (
	"time"
)

type Exam struct {
	ID        string     `gorm:"primarykey" json:"id"`
	ExamCode  string     `json:"exam_code" gorm:"uniqueIndex;not null"` // stored upper-case, matched case-insensitively
	Title     string     `json:"title" gorm:"not null"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:ExamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	IsOpen    bool       `json:"is_open" gorm:"not null;default:false"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UnresolvedQuestions returns the MCQ questions whose correct answer is
// still unset or only defaulted. Publish asks for confirmation when this
// is non-empty.
func (e *Exam) UnresolvedQuestions() []Question {
	var unresolved []Question
	for _, q := range e.Questions {
		if !q.Resolved() {
			unresolved = append(unresolved, q)
		}
	}
	return unresolved
}
