package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"casedesk/internal/config"
	"casedesk/internal/port"
	"casedesk/internal/recognition"
)

const (
	providerName = "claude"
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
)

func init() {
	recognition.RegisterProvider(providerName, func(cfg *config.ProviderConfig) (port.DocumentRecognizer, error) {
		return NewRecognizer(cfg), nil
	})
}

// Recognizer implements port.DocumentRecognizer using the Anthropic Messages API.
type Recognizer struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewRecognizer creates a Claude-based recognizer from a provider config.
func NewRecognizer(cfg *config.ProviderConfig) *Recognizer {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	return NewRecognizerWithEndpoint(cfg, endpoint)
}

// NewRecognizerWithEndpoint creates a recognizer pointing at a custom API endpoint (for testing).
func NewRecognizerWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Recognizer {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Recognizer{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (r *Recognizer) Recognize(ctx context.Context, input port.RecognizeInput) (*port.RecognizeOutput, error) {
	contentBlocks, err := buildContentBlocks(input)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":      r.model,
		"max_tokens": 8192,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", r.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, recognition.NewProviderError(providerName, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, recognition.NewProviderError(providerName, resp.StatusCode,
			fmt.Errorf("%s", recognition.Truncate(string(respBody), 500)))
	}

	return parseResponse(respBody, r.model)
}

func buildContentBlocks(input port.RecognizeInput) ([]map[string]interface{}, error) {
	encoded := base64.StdEncoding.EncodeToString(input.FileBytes)
	var blocks []map[string]interface{}

	switch input.MimeType {
	case "application/pdf":
		blocks = append(blocks, map[string]interface{}{
			"type": "document",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": "application/pdf",
				"data":       encoded,
			},
		})
	case "image/jpeg", "image/png":
		blocks = append(blocks, map[string]interface{}{
			"type": "image",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": input.MimeType,
				"data":       encoded,
			},
		})
	default:
		return nil, fmt.Errorf("unsupported mime type: %s", input.MimeType)
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": input.Prompt,
	})

	return blocks, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model string) (*port.RecognizeOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}
	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens)")
	}
	return &port.RecognizeOutput{Text: resp.Content[0].Text, ModelUsed: model}, nil
}
