package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/lequan/examhub/config"
	"github.com/lequan/examhub/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// gradingTimeout is deliberately shorter than extraction: the grader is
// invoked once per essay question and must not make a multi-question
// submission unacceptably slow.
const gradingTimeout = 10 * time.Second

const gradingPrompt = `You are grading one answer on a school exam.

Question:
%s
%s
Student's answer:
---
%s
---

Scoring rubric:
- 1 for a correct answer.
- 0.5 for an answer with the correct meaning but a minor grammar error.
- 0 for a wrong or blank answer.

Reply with the bare number only (0, 0.5 or 1). No explanation.`

// GradingService scores a single free-text answer in [0,1]. A grading
// failure never blocks submission: every failure mode scores 0.
type GradingService interface {
	GradeEssay(ctx context.Context, question *model.Question, answer string) float64
}

type geminiGradingService struct {
	generate generateFunc
	timeout  time.Duration
}

func NewGeminiGradingService(cfg *config.Config) (GradingService, error) {
	svc := &geminiGradingService{timeout: gradingTimeout}
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Essay grading will score 0 for every answer.")
		return svc, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel("gemini-1.5-flash")
	m.SetTemperature(0)
	m.SetMaxOutputTokens(16)
	svc.generate = newGenerateFunc(m)
	return svc, nil
}

func (s *geminiGradingService) GradeEssay(ctx context.Context, question *model.Question, answer string) float64 {
	if s.generate == nil {
		return 0
	}

	rubricHint := ""
	if question.SampleAnswer != "" {
		rubricHint = fmt.Sprintf("\nSample answer (rubric hint):\n%s\n", question.SampleAnswer)
	}
	prompt := fmt.Sprintf(gradingPrompt, question.Prompt, rubricHint, answer)

	raw, err := raceDeadline(ctx, s.generate, prompt, s.timeout)
	if err != nil {
		log.Warn().Err(err).Str("questionID", question.ID).Msg("Essay grading call failed, scoring 0")
		return 0
	}
	return parseEssayScore(raw, question.ID)
}

func parseEssayScore(raw, questionID string) float64 {
	score, err := strconv.ParseFloat(strings.TrimSpace(stripCodeFences(raw)), 64)
	if err != nil {
		log.Warn().Err(err).Str("questionID", questionID).Str("raw", raw).Msg("Essay grading response was not a number, scoring 0")
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
