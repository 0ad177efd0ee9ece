package service

import (
	"github.com/jinzhu/copier"
	"github.com/lequan/examhub/internal/dto"
	"github.com/lequan/examhub/internal/model"
	"github.com/rs/zerolog/log"
)

func questionToDTO(q *model.Question) dto.QuestionResponseDTO {
	return dto.QuestionResponseDTO{
		ID:                 q.ID,
		Type:               string(q.Type),
		Prompt:             q.Prompt,
		Options:            q.Options,
		CorrectOptionIndex: q.CorrectOptionIndex,
		AnswerSource:       string(q.AnswerSource),
		SampleAnswer:       q.SampleAnswer,
		Position:           q.Position,
	}
}

func examToDTO(exam *model.Exam) dto.ExamResponseDTO {
	var resp dto.ExamResponseDTO
	if err := copier.Copy(&resp, exam); err != nil {
		log.Error().Err(err).Str("examID", exam.ID).Msg("Failed to copy exam to DTO")
	}
	resp.Questions = make([]dto.QuestionResponseDTO, 0, len(exam.Questions))
	for i := range exam.Questions {
		resp.Questions = append(resp.Questions, questionToDTO(&exam.Questions[i]))
	}
	return resp
}

// examToStudentDTO strips the answer key before the exam reaches a
// student.
func examToStudentDTO(exam *model.Exam) dto.StudentExamDTO {
	resp := dto.StudentExamDTO{
		ID:       exam.ID,
		ExamCode: exam.ExamCode,
		Title:    exam.Title,
	}
	resp.Questions = make([]dto.StudentQuestionDTO, 0, len(exam.Questions))
	for _, q := range exam.Questions {
		resp.Questions = append(resp.Questions, dto.StudentQuestionDTO{
			ID:       q.ID,
			Type:     string(q.Type),
			Prompt:   q.Prompt,
			Options:  q.Options,
			Position: q.Position,
		})
	}
	return resp
}

func submissionToDTO(sub *model.StudentSubmission) dto.SubmissionResponseDTO {
	var resp dto.SubmissionResponseDTO
	if err := copier.Copy(&resp, sub); err != nil {
		log.Error().Err(err).Str("submissionID", sub.ID).Msg("Failed to copy submission to DTO")
	}
	resp.Answers = sub.Answers.Data()
	return resp
}
