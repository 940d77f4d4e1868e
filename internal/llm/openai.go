package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const DefaultTranscriptionModel = openai.Whisper1

type OpenAIClient struct {
	client             *openai.Client
	model              string
	transcriptionModel string
}

func NewOpenAIClient(apiKey string, model string, baseURL string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIClient{
		client:             client,
		model:              model,
		transcriptionModel: DefaultTranscriptionModel,
	}
}

// WithTranscriptionModel overrides the speech-to-text model.
func (c *OpenAIClient) WithTranscriptionModel(model string) *OpenAIClient {
	if model != "" {
		c.transcriptionModel = model
	}
	return c
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, ChatRequest{User: prompt})
}

func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.chatRequest(req))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content, nil
	}
	return "", ErrNoChoices
}

func (c *OpenAIClient) Stream(ctx context.Context, req ChatRequest, onDelta func(string)) (string, error) {
	r := c.chatRequest(req)
	r.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, r)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		sb.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	return sb.String(), nil
}

// Transcribe sends one audio file to the transcription endpoint. Language is
// pinned to English and the JSON response's text field is returned.
func (c *OpenAIClient) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.transcriptionModel,
		FilePath: path,
		Format:   openai.AudioResponseFormatJSON,
		Language: "en",
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *OpenAIClient) chatRequest(req ChatRequest) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = c.model
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	r := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if len(req.Schema) > 0 {
		r.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
			},
		}
	}
	return r
}
