package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client wraps the two OpenAI calls the voice pipeline makes: Whisper
// transcription and chat-completion task extraction.
type Client struct {
	api             *openai.Client
	chatModel       string
	transcribeModel string
}

type Options struct {
	APIKey          string
	BaseURL         string // override for tests
	ChatModel       string
	TranscribeModel string
	Timeout         time.Duration
}

func New(opts Options) *Client {
	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}

	httpClient := &http.Client{}
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}
	config.HTTPClient = httpClient

	chatModel := opts.ChatModel
	if chatModel == "" {
		chatModel = "gpt-4-turbo"
	}
	transcribeModel := opts.TranscribeModel
	if transcribeModel == "" {
		transcribeModel = openai.Whisper1
	}

	return &Client{
		api:             openai.NewClientWithConfig(config),
		chatModel:       chatModel,
		transcribeModel: transcribeModel,
	}
}

// Transcribe converts an audio byte stream into plain text. An empty string
// is a valid result and means nothing was said.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.transcribeModel,
		Reader:   audio,
		FilePath: filename,
	})
	if err != nil {
		if unavailable(err) {
			return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	return resp.Text, nil
}

// ExtractTasks sends the fixed chunking instruction plus the transcript and
// returns the model's raw completion text. The transcript goes through
// unmodified so the model sees the original English/Japanese text.
func (c *Client) ExtractTasks(ctx context.Context, transcript string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: taskChunkSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		if unavailable(err) {
			return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrNoCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// unavailable reports whether the error is a transport failure or a
// server-side (5xx / 429) rejection rather than a bad request.
func unavailable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500 || apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	// no structured API error => the call never completed
	return true
}
