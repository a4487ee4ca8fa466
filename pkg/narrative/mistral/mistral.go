package mistral

import (
	"context"
	"fmt"

	"myjourney-be/pkg/narrative"

	openai "github.com/sashabaranov/go-openai"
)

// MistralProvider talks to the Mistral chat-completions API, which is
// OpenAI-compatible, through the go-openai client with a swapped base URL.
type MistralProvider struct {
	client *openai.Client
	model  string
}

var _ narrative.Provider = &MistralProvider{}

func NewMistralProvider(apiKey, baseURL, modelName string) (*MistralProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("mistral API key is required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &MistralProvider{
		client: openai.NewClientWithConfig(config),
		model:  modelName,
	}, nil
}

func (p *MistralProvider) Chat(ctx context.Context, history []narrative.Message, opts ...narrative.Option) (string, error) {
	options := &narrative.Options{
		Temperature: 0.85, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages[i] = openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("mistral request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("mistral returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *MistralProvider) Generate(ctx context.Context, prompt string, opts ...narrative.Option) (string, error) {
	return p.Chat(ctx, []narrative.Message{{Role: "user", Content: prompt}}, opts...)
}
