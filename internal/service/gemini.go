package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
)

// generateFunc is the single text-in/text-out call both adapters make
// against the AI endpoint.
type generateFunc func(ctx context.Context, prompt string) (string, error)

func newGenerateFunc(m *genai.GenerativeModel) generateFunc {
	return func(ctx context.Context, prompt string) (string, error) {
		resp, err := m.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("gemini returned no content")
		}
		var sb strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		if sb.Len() == 0 {
			return "", fmt.Errorf("gemini returned no text content")
		}
		return sb.String(), nil
	}
}

// raceDeadline runs the call against a timer. The timer firing is a
// failure outcome, not cancellation: the in-flight request may still
// complete in the background and its result is discarded.
func raceDeadline(ctx context.Context, gen generateFunc, prompt string, deadline time.Duration) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := gen(ctx, prompt)
		ch <- result{text: text, err: err}
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.text, r.err
	case <-timer.C:
		return "", context.DeadlineExceeded
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// classifyAPIError maps endpoint rejections onto the extraction error
// taxonomy; anything unrecognized passes through unchanged.
func classifyAPIError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
	}
	return err
}

// stripCodeFences removes a markdown fence wrapper the model sometimes
// adds around its JSON output.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
