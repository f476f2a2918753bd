// Package assistant answers free-form questions about a user's results
// through an OpenRouter-hosted chat model. The capability is optional: with
// no API key configured the Disabled implementation declines every question
// and nothing else in the application changes.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

// ErrDisabled is returned by the no-op capability
var ErrDisabled = errors.New("assistant: not configured")

// Capability answers one question in the context of the user's latest
// entry and report
type Capability interface {
	Chat(ctx context.Context, question string, entry model.HealthEntry, report *model.AnalysisReport) (string, error)
	Enabled() bool
}

const systemPrompt = `You are a supportive health information assistant for a PCOS self-assessment app.
Answer questions about menstrual health and PCOS in plain, reassuring language.
Never diagnose. Always remind the user that only a doctor can confirm a diagnosis.
Keep answers under 150 words.`

// Client is the OpenRouter-backed capability
type Client struct {
	client     *openai.Client
	model      string
	logger     *zap.Logger
	maxRetries int
	baseDelay  time.Duration
}

var _ Capability = (*Client)(nil)

// New creates the chat capability against an OpenRouter-compatible endpoint
func New(apiKey, baseURL, chatModel string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" || baseURL == "" || chatModel == "" {
		return nil, fmt.Errorf("apiKey, baseURL, and model are required")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)

	return &Client{
		client:     &client,
		model:      chatModel,
		logger:     logger,
		maxRetries: 3,
		baseDelay:  time.Second,
	}, nil
}

// Enabled reports that the capability is live
func (c *Client) Enabled() bool { return true }

// Chat sends the question with the user's context, retrying transient
// failures with exponential backoff
func (c *Client) Chat(ctx context.Context, question string, entry model.HealthEntry, report *model.AnalysisReport) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.SystemMessage(contextMessage(entry, report)),
		openai.UserMessage(question),
	}

	startTime := time.Now()
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Info("retrying assistant request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		answer, err := c.complete(ctx, messages)
		if err == nil {
			c.logger.Info("assistant request completed",
				zap.Duration("processing_time", time.Since(startTime)),
				zap.Int("attempts", attempt+1),
			)
			return answer, nil
		}

		lastErr = err
		if !isRetryable(err) {
			c.logger.Error("non-retryable assistant error",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
			)
			break
		}

		c.logger.Warn("assistant request failed, will retry",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}

	return "", fmt.Errorf("assistant request failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty content in response")
	}

	c.logger.Info("assistant token usage",
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)
	return content, nil
}

// contextMessage summarizes what the app already knows so the model can
// answer in context without receiving the raw record
func contextMessage(entry model.HealthEntry, report *model.AnalysisReport) string {
	var b strings.Builder
	b.WriteString("User context: ")

	if entry.Age != nil {
		fmt.Fprintf(&b, "age %d. ", *entry.Age)
	}
	if entry.CycleLengthDays != nil {
		fmt.Fprintf(&b, "Average cycle %d days. ", *entry.CycleLengthDays)
	}
	if len(entry.Symptoms) > 0 {
		fmt.Fprintf(&b, "Reported symptoms: %s. ", strings.Join(entry.Symptoms, ", "))
	}
	if report != nil {
		fmt.Fprintf(&b, "Latest assessment: %s indicators (score %d). ",
			report.RiskLevel, report.RiskScore)
	}
	if b.Len() == len("User context: ") {
		b.WriteString("no data submitted yet.")
	}
	return b.String()
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	if strings.Contains(errStr, "authentication") || strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "401") {
		return false
	}
	if strings.Contains(errStr, "invalid") || strings.Contains(errStr, "bad request") || strings.Contains(errStr, "400") {
		return false
	}
	return true
}

// Disabled is the no-op capability used when no API key is configured
type Disabled struct{}

var _ Capability = Disabled{}

// Enabled reports that no chat model is configured
func (Disabled) Enabled() bool { return false }

// Chat always declines
func (Disabled) Chat(ctx context.Context, question string, entry model.HealthEntry, report *model.AnalysisReport) (string, error) {
	return "", ErrDisabled
}
