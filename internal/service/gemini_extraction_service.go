package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/lequan/examhub/config"
	"github.com/lequan/examhub/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const (
	// maxDocumentChars bounds request cost and latency; longer uploads
	// are cut and marked rather than rejected.
	maxDocumentChars  = 10000
	truncationMarker  = "\n...[document truncated]"
	extractionTimeout = 30 * time.Second
)

const extractionPrompt = `You are an exam digitization assistant. The text below was extracted from an exam document. Identify the exam title and every question in it.

Return a JSON object with exactly this shape, and nothing else (no prose, no markdown):
{
  "title": "exam title",
  "questions": [
    {"type": "mcq", "prompt": "question text", "options": ["A", "B", "C", "D"], "correctAnswerIndex": 0},
    {"type": "essay", "prompt": "question text", "sampleAnswer": "a model answer if one is present in the document"}
  ]
}

Rules:
- "type" must be "mcq" or "essay".
- MCQ questions must carry options and a 0-based "correctAnswerIndex".
- Essay questions may carry a "sampleAnswer"; omit it if the document has none.
- Return JSON only.

Document text:
---
%s
---`

// ExtractionService turns raw document text into a draft exam. The
// draft is not persisted; publish does that.
type ExtractionService interface {
	ExtractExam(ctx context.Context, rawText string) (*model.Exam, error)
}

type geminiExtractionService struct {
	generate generateFunc
	newID    func() string
	newCode  func() string
}

func NewGeminiExtractionService(cfg *config.Config) (ExtractionService, error) {
	svc := &geminiExtractionService{
		newID:   uuid.NewString,
		newCode: NewExamCode,
	}
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Document extraction will be non-functional.")
		return svc, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel("gemini-1.5-flash")
	m.SetTemperature(0.2)
	m.SetMaxOutputTokens(8192)
	svc.generate = newGenerateFunc(m)
	return svc, nil
}

type extractedQuestion struct {
	Type               string   `json:"type"`
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options"`
	CorrectAnswerIndex any      `json:"correctAnswerIndex"`
	SampleAnswer       string   `json:"sampleAnswer"`
}

type extractionPayload struct {
	Title     string              `json:"title"`
	Questions []extractedQuestion `json:"questions"`
}

func (s *geminiExtractionService) ExtractExam(ctx context.Context, rawText string) (*model.Exam, error) {
	if s.generate == nil {
		return nil, fmt.Errorf("%w: gemini client not initialized", ErrInvalidAPIKey)
	}

	rawText = truncateDocument(rawText)

	raw, err := raceDeadline(ctx, s.generate, fmt.Sprintf(extractionPrompt, rawText), extractionTimeout)
	if err != nil {
		if err == context.DeadlineExceeded {
			return nil, ErrExtractionTimeout
		}
		return nil, classifyAPIError(err)
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &payload); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Extraction response was not valid JSON")
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions extracted", ErrMalformedResponse)
	}

	exam := &model.Exam{
		ID:       s.newID(),
		ExamCode: s.newCode(),
		Title:    payload.Title,
	}
	for i, eq := range payload.Questions {
		question, err := s.buildQuestion(eq)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedResponse, i+1, err)
		}
		question.Position = i
		exam.Questions = append(exam.Questions, question)
	}
	return exam, nil
}

func (s *geminiExtractionService) buildQuestion(eq extractedQuestion) (model.Question, error) {
	switch eq.Type {
	case string(model.QuestionTypeEssay):
		return model.NewEssay(s.newID(), eq.Prompt, eq.SampleAnswer), nil
	case string(model.QuestionTypeMCQ):
		idx, ok := coerceAnswerIndex(eq.CorrectAnswerIndex, len(eq.Options))
		source := model.AnswerSourceConfirmed
		if !ok {
			// Defensive default only; the setup flow surfaces it to
			// the teacher instead of trusting it as ground truth.
			idx = 0
			source = model.AnswerSourceDefaulted
			log.Warn().
				Str("prompt", eq.Prompt).
				Interface("correctAnswerIndex", eq.CorrectAnswerIndex).
				Msg("Extracted MCQ has no usable correct answer index, defaulting to 0")
		}
		return model.NewMultipleChoice(s.newID(), eq.Prompt, eq.Options, &idx, source)
	default:
		return model.Question{}, fmt.Errorf("unknown question type %q", eq.Type)
	}
}

// truncateDocument limits the document to maxDocumentChars characters.
// The cut counts runes, not bytes: a multibyte document must get the
// same budget as an ASCII one, and a cut mid-rune would hand the AI
// endpoint invalid UTF-8, which it rejects outright.
func truncateDocument(s string) string {
	if utf8.RuneCountInString(s) <= maxDocumentChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxDocumentChars]) + truncationMarker
}

// coerceAnswerIndex accepts the index only if it is an integral number
// within [0, optionCount-1].
func coerceAnswerIndex(v any, optionCount int) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	idx := int(f)
	if idx < 0 || idx >= optionCount {
		return 0, false
	}
	return idx, true
}
