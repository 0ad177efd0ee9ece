package dto

import (
	"time"

	"github.com/lequan/examhub/internal/model"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// QuestionResponseDTO is the teacher-side view of a question, answer key
// included.
type QuestionResponseDTO struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options,omitempty"`
	CorrectOptionIndex *int     `json:"correct_option_index,omitempty"`
	AnswerSource       string   `json:"answer_source,omitempty"`
	SampleAnswer       string   `json:"sample_answer,omitempty"`
	Position           int      `json:"position"`
}

// ExamResponseDTO is the teacher-side view of an exam.
type ExamResponseDTO struct {
	ID        string                `json:"id"`
	ExamCode  string                `json:"exam_code"`
	Title     string                `json:"title"`
	Questions []QuestionResponseDTO `json:"questions,omitempty"`
	IsOpen    bool                  `json:"is_open"`
	CreatedAt time.Time             `json:"created_at"`
}

// DraftExamDTO is the not-yet-persisted exam produced by extraction. It
// is echoed back by publish as the stored aggregate.
type DraftExamDTO = ExamResponseDTO

// StudentQuestionDTO hides the answer key from the student view.
type StudentQuestionDTO struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options,omitempty"`
	Position int      `json:"position"`
}

// StudentExamDTO is the exam as presented to a student taking it.
type StudentExamDTO struct {
	ID        string               `json:"id"`
	ExamCode  string               `json:"exam_code"`
	Title     string               `json:"title"`
	Questions []StudentQuestionDTO `json:"questions"`
}

// SubmissionResponseDTO is a scored, persisted attempt.
type SubmissionResponseDTO struct {
	ID          string                          `json:"id"`
	ExamID      string                          `json:"exam_id"`
	StudentName string                          `json:"student_name"`
	ClassName   string                          `json:"class_name,omitempty"`
	Answers     map[string]model.RecordedAnswer `json:"answers"`
	Score       float64                         `json:"score"`
	Total       int                             `json:"total"`
	TimeSpent   int                             `json:"time_spent"`
	SubmittedAt time.Time                       `json:"submitted_at"`
}

// SessionResponseDTO is returned by the session endpoints so the client
// can carry its token and current phase.
type SessionResponseDTO struct {
	Token string          `json:"token"`
	State string          `json:"state"`
	Exam  *StudentExamDTO `json:"exam,omitempty"`
}
