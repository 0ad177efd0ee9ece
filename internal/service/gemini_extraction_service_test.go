package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/lequan/examhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func newExtractionFixture(gen generateFunc) *geminiExtractionService {
	return &geminiExtractionService{
		generate: gen,
		newID:    sequentialIDs("q"),
		newCode:  func() string { return "ABCDEF" },
	}
}

func TestExtractExamParsesWellFormedResponse(t *testing.T) {
	gen, _ := staticGenerate(`{
		"title": "Quiz 1",
		"questions": [
			{"type": "mcq", "prompt": "2+2?", "options": ["3", "4", "5"], "correctAnswerIndex": 1},
			{"type": "essay", "prompt": "Why?", "sampleAnswer": "Because."}
		]
	}`)
	svc := newExtractionFixture(gen)

	exam, err := svc.ExtractExam(context.Background(), "some worksheet text")
	require.NoError(t, err)

	assert.Equal(t, "Quiz 1", exam.Title)
	assert.Equal(t, "ABCDEF", exam.ExamCode)
	require.Len(t, exam.Questions, 2)

	q := exam.Questions[0]
	assert.Equal(t, model.QuestionTypeMCQ, q.Type)
	assert.Equal(t, "2+2?", q.Prompt)
	assert.Equal(t, []string{"3", "4", "5"}, []string(q.Options))
	require.NotNil(t, q.CorrectOptionIndex)
	assert.Equal(t, 1, *q.CorrectOptionIndex)
	assert.Equal(t, model.AnswerSourceConfirmed, q.AnswerSource)
	assert.Equal(t, 0, q.Position)

	e := exam.Questions[1]
	assert.Equal(t, model.QuestionTypeEssay, e.Type)
	assert.Equal(t, "Because.", e.SampleAnswer)
	assert.Equal(t, 1, e.Position)
}

func TestExtractExamStripsMarkdownFences(t *testing.T) {
	gen, _ := staticGenerate("```json\n{\"title\":\"T\",\"questions\":[{\"type\":\"essay\",\"prompt\":\"Write.\"}]}\n```")
	svc := newExtractionFixture(gen)

	exam, err := svc.ExtractExam(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, exam.Questions, 1)
	assert.Equal(t, "Write.", exam.Questions[0].Prompt)
}

func TestExtractExamDefaultsUnusableAnswerIndex(t *testing.T) {
	cases := map[string]string{
		"missing":      `{"type": "mcq", "prompt": "P", "options": ["a", "b"]}`,
		"out of range": `{"type": "mcq", "prompt": "P", "options": ["a", "b"], "correctAnswerIndex": 7}`,
		"negative":     `{"type": "mcq", "prompt": "P", "options": ["a", "b"], "correctAnswerIndex": -1}`,
		"fractional":   `{"type": "mcq", "prompt": "P", "options": ["a", "b"], "correctAnswerIndex": 0.5}`,
		"string":       `{"type": "mcq", "prompt": "P", "options": ["a", "b"], "correctAnswerIndex": "b"}`,
	}
	for name, questionJSON := range cases {
		t.Run(name, func(t *testing.T) {
			gen, _ := staticGenerate(`{"title":"T","questions":[` + questionJSON + `]}`)
			svc := newExtractionFixture(gen)

			exam, err := svc.ExtractExam(context.Background(), "text")
			require.NoError(t, err)
			q := exam.Questions[0]
			require.NotNil(t, q.CorrectOptionIndex)
			assert.Equal(t, 0, *q.CorrectOptionIndex)
			assert.Equal(t, model.AnswerSourceDefaulted, q.AnswerSource)
			assert.False(t, q.Resolved(), "a defaulted answer must block publish without override")
		})
	}
}

func TestExtractExamTruncatesLongDocuments(t *testing.T) {
	gen, prompts := staticGenerate(`{"title":"T","questions":[{"type":"essay","prompt":"P"}]}`)
	svc := newExtractionFixture(gen)

	_, err := svc.ExtractExam(context.Background(), strings.Repeat("x", maxDocumentChars+500))
	require.NoError(t, err)

	require.Len(t, *prompts, 1)
	prompt := (*prompts)[0]
	assert.Contains(t, prompt, truncationMarker)
	assert.NotContains(t, prompt, strings.Repeat("x", maxDocumentChars+1))
}

func TestExtractExamTruncatesOnRunesNotBytes(t *testing.T) {
	gen, prompts := staticGenerate(`{"title":"T","questions":[{"type":"essay","prompt":"P"}]}`)
	svc := newExtractionFixture(gen)

	// "ạ" is 3 bytes per character. A document under the character
	// limit must pass untouched even when its byte length is far over.
	underLimit := strings.Repeat("ạ", maxDocumentChars-100)
	_, err := svc.ExtractExam(context.Background(), underLimit)
	require.NoError(t, err)
	require.Len(t, *prompts, 1)
	assert.Contains(t, (*prompts)[0], underLimit)
	assert.NotContains(t, (*prompts)[0], truncationMarker)

	gen, prompts = staticGenerate(`{"title":"T","questions":[{"type":"essay","prompt":"P"}]}`)
	svc = newExtractionFixture(gen)

	_, err = svc.ExtractExam(context.Background(), strings.Repeat("ạ", maxDocumentChars+500))
	require.NoError(t, err)
	require.Len(t, *prompts, 1)
	prompt := (*prompts)[0]
	assert.True(t, utf8.ValidString(prompt), "the cut must not land mid-rune")
	assert.Contains(t, prompt, truncationMarker)
	assert.Contains(t, prompt, strings.Repeat("ạ", maxDocumentChars))
	assert.NotContains(t, prompt, strings.Repeat("ạ", maxDocumentChars+1))
}

func TestExtractExamMalformedResponses(t *testing.T) {
	cases := map[string]string{
		"not json":     "Sure! Here are the questions you asked for.",
		"no questions": `{"title": "T", "questions": []}`,
		"bad type":     `{"title": "T", "questions": [{"type": "matching", "prompt": "P"}]}`,
		"mcq without options": `{"title": "T", "questions": [
			{"type": "mcq", "prompt": "P", "correctAnswerIndex": 0}]}`,
	}
	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			gen, _ := staticGenerate(response)
			svc := newExtractionFixture(gen)

			_, err := svc.ExtractExam(context.Background(), "text")
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestExtractExamClassifiesEndpointRejections(t *testing.T) {
	cases := map[int]error{
		http.StatusUnauthorized:    ErrInvalidAPIKey,
		http.StatusForbidden:       ErrInvalidAPIKey,
		http.StatusTooManyRequests: ErrQuotaExceeded,
	}
	for code, want := range cases {
		svc := newExtractionFixture(failingGenerate(&googleapi.Error{Code: code}))

		_, err := svc.ExtractExam(context.Background(), "text")
		require.ErrorIs(t, err, want, "status %d", code)
	}
}

func TestExtractExamWithoutClient(t *testing.T) {
	svc := newExtractionFixture(nil)

	_, err := svc.ExtractExam(context.Background(), "text")
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}
