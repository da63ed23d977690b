// Package llm wraps the OpenAI chat-completions endpoint behind a
// reply generator that degrades to canned coaching text when the API
// is unconfigured or unavailable.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/klarkurs/mpu-platform/app/factory"
)

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	HTTPTimeout time.Duration
}

type Client struct {
	cfg    Config
	client *http.Client
	logger logrus.FieldLogger
}

func NewClient(cfg Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: factory.NewModuleLogger("llm-client"),
	}
}

type ReplyInput struct {
	Mode       string
	Locale     string
	Question   string
	UserAnswer string
}

// GenerateReply asks the model to act as an MPU examiner and follow up
// on the candidate's answer. It never fails: any transport or parse
// problem is logged and answered with the locale fallback, so callers
// can treat the reply as always present.
func (c *Client) GenerateReply(ctx context.Context, input *ReplyInput) string {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return fallbackReply(input)
	}

	reply, err := c.complete(ctx, input)
	if err != nil {
		c.logger.WithError(err).Warn("LLM reply failed, using fallback")
		return fallbackReply(input)
	}
	if strings.TrimSpace(reply) == "" {
		return fallbackReply(input)
	}
	return reply
}

func (c *Client) complete(ctx context.Context, input *ReplyInput) (string, error) {
	payload := map[string]interface{}{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt(input)},
			{"role": "user", "content": userPrompt(input)},
		},
		"temperature": 0.4,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("openai request failed: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func systemPrompt(input *ReplyInput) string {
	if input.Locale == "de" {
		return "Du bist ein erfahrener MPU-Gutachter. Stelle pro Antwort genau eine " +
			"praezise Nachfrage, bleibe sachlich und fordernd, und bewerte nie " +
			"die Person, nur die Aussage. Modus: " + input.Mode + "."
	}
	return "You are an experienced MPU examiner. Ask exactly one precise follow-up " +
		"question per answer, stay factual and demanding, and never judge the " +
		"person, only the statement. Mode: " + input.Mode + "."
}

func userPrompt(input *ReplyInput) string {
	var b strings.Builder
	if input.Question != "" {
		b.WriteString("Question: ")
		b.WriteString(input.Question)
		b.WriteString("\n")
	}
	b.WriteString("Answer: ")
	b.WriteString(input.UserAnswer)
	return b.String()
}

func fallbackReply(input *ReplyInput) string {
	question := strings.TrimSpace(input.Question)
	if input.Locale == "de" {
		if question == "" {
			question = "Beschreiben Sie bitte konkret, was sich seitdem in Ihrem Alltag geaendert hat."
		}
		return "Danke fuer Ihre Antwort. Bleiben Sie bitte konkret: Zahlen, Daten, " +
			"Beispiele aus Ihrem Alltag helfen dem Gutachter. " + question
	}
	if question == "" {
		question = "Please describe concretely what has changed in your daily life since then."
	}
	return "Thank you for your answer. Please stay concrete: numbers, dates and " +
		"everyday examples help the examiner. " + question
}
