package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Completer is the narrow surface the extractor needs from a language model:
// one prompt in, one text reply out. Tests substitute deterministic fakes.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GroqClient talks to Groq's OpenAI-compatible chat completion endpoint.
type GroqClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewGroqClient(apiKey, model string, temperature float32) *GroqClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	return &GroqClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}
}

func (c *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from Groq")
	}

	slog.Debug("groq completion",
		"model", c.model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}

// GeminiClient is the alternate provider, kept for deployments without a Groq
// key. Same single-user-message shape as the Groq client.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float32) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	if resp.UsageMetadata != nil {
		slog.Debug("gemini completion",
			"model", c.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount)
	}

	return string(text), nil
}
