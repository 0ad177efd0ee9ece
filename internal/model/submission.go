package model

import (
	"time"

	"gorm.io/datatypes"
)

// RecordedAnswer is the per-question entry inside a submission's answers
// blob. Exactly one of Correct and AIScore is set, keyed by Type.
type RecordedAnswer struct {
	Value   any          `json:"value"`
	Type    QuestionType `json:"type"`
	Correct *bool        `json:"correct,omitempty"`
	AIScore *float64     `json:"ai_score,omitempty"`
}

// StudentSubmission is one completed attempt. It is inserted exactly
// once and never updated.
type StudentSubmission struct {
	ID          string                                         `gorm:"primarykey" json:"id"`
	ExamID      string                                         `json:"exam_id" gorm:"index;not null"`
	StudentName string                                         `json:"student_name" gorm:"not null"`
	ClassName   string                                         `json:"class_name"`
	Answers     datatypes.JSONType[map[string]RecordedAnswer] `json:"answers"`
	Score       float64                                        `json:"score"`
	Total       int                                            `json:"total"`
	TimeSpent   int                                            `json:"time_spent"`
	SubmittedAt time.Time                                      `json:"submitted_at" gorm:"autoCreateTime"`
}
