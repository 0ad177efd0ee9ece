package dto

// ExtractRequest carries the raw document text the teacher uploaded.
type ExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

// LoginRequest opens a teacher session.
type LoginRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

// QuestionPublishDTO is one question as edited during setup. For MCQ the
// options and correct_option_index are active; for essay only
// sample_answer is.
type QuestionPublishDTO struct {
	ID                 string   `json:"id" binding:"required"`
	Type               string   `json:"type" binding:"required,oneof=mcq essay"`
	Prompt             string   `json:"prompt" binding:"required"`
	Options            []string `json:"options,omitempty"`
	CorrectOptionIndex *int     `json:"correct_option_index,omitempty"`
	AnswerSource       string   `json:"answer_source,omitempty" binding:"omitempty,oneof=unresolved defaulted confirmed"`
	SampleAnswer       string   `json:"sample_answer,omitempty"`
}

// PublishExamRequest inserts the full exam aggregate once. Unresolved
// MCQ answers block the publish unless OverrideUnresolved is set.
type PublishExamRequest struct {
	ID                 string               `json:"id" binding:"required"`
	ExamCode           string               `json:"exam_code" binding:"required,len=6"`
	Title              string               `json:"title" binding:"required"`
	Questions          []QuestionPublishDTO `json:"questions" binding:"required,min=1,dive"`
	OverrideUnresolved bool                 `json:"override_unresolved"`
}

// ToggleOpenRequest flips whether students may start new attempts.
type ToggleOpenRequest struct {
	IsOpen *bool `json:"is_open" binding:"required"`
}

// EnterExamRequest starts a student session from an exam code.
type EnterExamRequest struct {
	ExamCode string `json:"exam_code" binding:"required"`
}

// StudentAnswerDTO is the raw answer for one question: a chosen option
// index for MCQ (absent means no selection) or free text for essay.
type StudentAnswerDTO struct {
	SelectedOption *int   `json:"selected_option,omitempty"`
	Text           string `json:"text,omitempty"`
}

// SubmitExamRequest carries a student's completed answer set, keyed by
// question id. Confirm must be true: submitting ends the attempt.
type SubmitExamRequest struct {
	StudentName string                      `json:"student_name" binding:"required"`
	ClassName   string                      `json:"class_name"`
	Answers     map[string]StudentAnswerDTO `json:"answers"`
	Confirm     bool                        `json:"confirm"`
}
