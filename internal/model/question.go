package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionTypeMCQ   QuestionType = "mcq"
	QuestionTypeEssay QuestionType = "essay"
)

// AnswerSource records where an MCQ's correct answer came from. An index
// the extraction model confirmed is distinguishable from one substituted
// as a fallback, and from one the teacher has not set at all.
type AnswerSource string

const (
	AnswerSourceUnresolved AnswerSource = "unresolved"
	AnswerSourceDefaulted  AnswerSource = "defaulted"
	AnswerSourceConfirmed  AnswerSource = "confirmed"
)

type Question struct {
	ID                 string                      `gorm:"primarykey" json:"id"`
	ExamID             string                      `json:"exam_id" gorm:"index"`
	Type               QuestionType                `json:"type" gorm:"not null"`
	Prompt             string                      `json:"prompt" gorm:"type:text;not null"`
	Options            datatypes.JSONSlice[string] `json:"options,omitempty"`
	CorrectOptionIndex *int                        `json:"correct_option_index,omitempty"`
	AnswerSource       AnswerSource                `json:"answer_source,omitempty"`
	SampleAnswer       string                      `json:"sample_answer,omitempty" gorm:"type:text"`
	Position           int                         `json:"position" gorm:"not null"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

// NewMultipleChoice builds an MCQ question. A multiple-choice question
// without options cannot be constructed; a nil correctIndex is the
// authoring-incomplete state and forces source to unresolved.
func NewMultipleChoice(id, prompt string, options []string, correctIndex *int, source AnswerSource) (Question, error) {
	if len(options) == 0 {
		return Question{}, fmt.Errorf("multiple-choice question %q has no options", prompt)
	}
	if correctIndex != nil && (*correctIndex < 0 || *correctIndex >= len(options)) {
		return Question{}, fmt.Errorf("correct option index %d out of range [0,%d]", *correctIndex, len(options)-1)
	}
	if correctIndex == nil {
		source = AnswerSourceUnresolved
	}
	return Question{
		ID:                 id,
		Type:               QuestionTypeMCQ,
		Prompt:             prompt,
		Options:            datatypes.NewJSONSlice(options),
		CorrectOptionIndex: correctIndex,
		AnswerSource:       source,
	}, nil
}

// NewEssay builds a free-text question. The sample answer is an optional
// rubric hint for the grader.
func NewEssay(id, prompt, sampleAnswer string) Question {
	return Question{
		ID:           id,
		Type:         QuestionTypeEssay,
		Prompt:       prompt,
		SampleAnswer: sampleAnswer,
	}
}

// Resolved reports whether the question is safe to publish without an
// explicit teacher override.
func (q Question) Resolved() bool {
	if q.Type != QuestionTypeMCQ {
		return true
	}
	return q.CorrectOptionIndex != nil && q.AnswerSource == AnswerSourceConfirmed
}
