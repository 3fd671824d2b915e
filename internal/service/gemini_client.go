package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/vinaythanay/Interview-ChatBOt/internal/config"
)

// Classified generation failures. The question engine keys its circuit
// behavior off these.
var (
	ErrNotConfigured  = errors.New("gemini api key not configured")
	ErrQuotaExhausted = errors.New("gemini api quota exceeded")
	ErrEmptyResponse  = errors.New("empty response from gemini")
)

// QuestionRequest carries what the prompt builder needs.
type QuestionRequest struct {
	LastAnswer     string
	QuestionNumber int
}

// QuestionClient generates the next interview question from the
// candidate's last answer.
type QuestionClient interface {
	GenerateQuestion(ctx context.Context, req QuestionRequest) (string, error)
}

// GeminiClient calls the Gemini generateContent API, walking an API
// version x model fallback chain until one candidate responds.
type GeminiClient struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiClient creates a Gemini question client.
func NewGeminiClient(cfg *config.AIConfig) *GeminiClient {
	return &GeminiClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// GenerateQuestion tries each API version and model in order. A 404 moves
// on to the next candidate; a 429 aborts the whole chain with
// ErrQuotaExhausted since every model shares the same quota.
func (c *GeminiClient) GenerateQuestion(ctx context.Context, req QuestionRequest) (string, error) {
	if !c.config.IsEnabled() {
		return "", ErrNotConfigured
	}

	prompt := c.buildPrompt(req)
	var lastErr error

	for _, apiVersion := range c.config.APIVersions {
		for _, modelName := range c.config.Models {
			question, err := c.callModel(ctx, apiVersion, modelName, prompt)
			if err == nil {
				log.Printf("[Gemini] Generated question via %s (%s)", modelName, apiVersion)
				return question, nil
			}
			if errors.Is(err, ErrQuotaExhausted) {
				log.Printf("[Gemini] Quota exceeded on %s, aborting chain", modelName)
				return "", ErrQuotaExhausted
			}
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = ErrEmptyResponse
	}
	return "", fmt.Errorf("all model attempts failed: %w", lastErr)
}

func (c *GeminiClient) callModel(ctx context.Context, apiVersion, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.7,
			// High enough to survive thinking tokens on gemini-2.5 models
			"maxOutputTokens": 2000,
			"topP":            0.95,
			"topK":            40,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", c.config.ModelEndpoint(apiVersion, modelName), c.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrQuotaExhausted
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("model %s not found on %s", modelName, apiVersion)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("gemini api error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}
	if len(geminiResp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	candidate := geminiResp.Candidates[0]
	// A truncated response may still carry partial text in a later part.
	for _, part := range candidate.Content.Parts {
		if text := strings.TrimSpace(part.Text); text != "" {
			if candidate.FinishReason == "MAX_TOKENS" {
				log.Printf("[Gemini] Response truncated by MAX_TOKENS, using partial text")
			}
			return text, nil
		}
	}
	return "", ErrEmptyResponse
}

func (c *GeminiClient) buildPrompt(req QuestionRequest) string {
	return fmt.Sprintf(`You are an AI Interviewer. Ask ONE short question based on this answer: %q

Rules: ONE question only. No greetings. Be direct. Keep it under 15 words.`, req.LastAnswer)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
