package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/videoai/internal/domain/ai"
)

const (
	maxTokens          = 2048
	DefaultModel       = "gpt-4o-mini"
	DefaultSpeechModel = openai.Whisper1
)

// Client implements ai.TextModel and ai.SpeechToText on the OpenAI API.
type Client struct {
	*openai.Client
	Model       string
	SpeechModel string
}

var (
	_ ai.TextModel    = (*Client)(nil)
	_ ai.SpeechToText = (*Client)(nil)
)

// NewClient builds a client; baseURL may be empty for the public API.
func NewClient(apiKey, baseURL, model, speechModel string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if speechModel == "" {
		speechModel = DefaultSpeechModel
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model, SpeechModel: speechModel}
}

func (c *Client) Complete(ctx context.Context, in ai.CompletionRequest) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: in.Prompt},
		},
	}
	if in.JSONObject {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(c.Model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", mapError(err))
	}
	if len(resp.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := c.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.SpeechModel,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create transcription: %w", mapError(err))
	}
	return resp.Text, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

// mapError turns provider rate-limit responses into ai.ErrQuotaExceeded.
func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ai.ErrQuotaExceeded, apiErr.Message)
	}
	return err
}
