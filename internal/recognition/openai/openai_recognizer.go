package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"casedesk/internal/config"
	"casedesk/internal/port"
	"casedesk/internal/recognition"
)

const (
	providerName = "openai"
	// OpenRouter speaks the same chat completions protocol.
	openRouterName    = "openrouter"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultModel      = "gpt-4o"
)

func init() {
	recognition.RegisterProvider(providerName, func(cfg *config.ProviderConfig) (port.DocumentRecognizer, error) {
		return NewRecognizer(cfg), nil
	})
	recognition.RegisterProvider(openRouterName, func(cfg *config.ProviderConfig) (port.DocumentRecognizer, error) {
		c := *cfg
		if c.Endpoint == "" {
			c.Endpoint = openRouterBaseURL
		}
		return NewRecognizer(&c), nil
	})
}

// Recognizer implements port.DocumentRecognizer over an OpenAI-compatible
// chat completions endpoint.
type Recognizer struct {
	client openai.Client
	model  string
	name   string
}

// NewRecognizer creates a recognizer. cfg.Endpoint, when set, is the API base URL.
func NewRecognizer(cfg *config.ProviderConfig) *Recognizer {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: 120 * time.Second}),
		// The fallback model is the retry.
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	name := cfg.Provider
	if name == "" {
		name = providerName
	}
	return &Recognizer{
		client: openai.NewClient(opts...),
		model:  model,
		name:   name,
	}
}

func (r *Recognizer) Recognize(ctx context.Context, input port.RecognizeInput) (*port.RecognizeOutput, error) {
	filePart, err := buildFilePart(input)
	if err != nil {
		return nil, fmt.Errorf("building content parts: %w", err)
	}

	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(input.Prompt),
				filePart,
			}),
		},
	})
	if err != nil {
		return nil, r.mapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}
	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length)")
	}

	model := resp.Model
	if model == "" {
		model = r.model
	}
	return &port.RecognizeOutput{Text: resp.Choices[0].Message.Content, ModelUsed: model}, nil
}

func buildFilePart(input port.RecognizeInput) (openai.ChatCompletionContentPartUnionParam, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", input.MimeType, base64.StdEncoding.EncodeToString(input.FileBytes))
	switch input.MimeType {
	case "application/pdf":
		return openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			FileData: openai.String(dataURI),
			Filename: openai.String("document.pdf"),
		}), nil
	case "image/jpeg", "image/png":
		return openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURI}), nil
	default:
		return openai.ChatCompletionContentPartUnionParam{}, fmt.Errorf("unsupported mime type: %s", input.MimeType)
	}
}

func (r *Recognizer) mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return recognition.NewProviderError(r.name, apiErr.StatusCode, err)
	}
	return recognition.NewProviderError(r.name, 0, err)
}
