package gemini

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
	providerName = "gemini"
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.0-flash"
)

func init() {
	recognition.RegisterProvider(providerName, func(cfg *config.ProviderConfig) (port.DocumentRecognizer, error) {
		return NewRecognizer(cfg), nil
	})
}

// Recognizer implements port.DocumentRecognizer using Google's Gemini API.
type Recognizer struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewRecognizer creates a Gemini-based recognizer. A non-empty cfg.Endpoint
// replaces the generateContent URL.
func NewRecognizer(cfg *config.ProviderConfig) *Recognizer {
	return NewRecognizerWithEndpoint(cfg, cfg.Endpoint)
}

// NewRecognizerWithEndpoint creates a recognizer pointing at a custom API endpoint (for testing).
func NewRecognizerWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Recognizer {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Recognizer{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (r *Recognizer) Recognize(ctx context.Context, input port.RecognizeInput) (*port.RecognizeOutput, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": input.Prompt},
					{
						"inline_data": map[string]interface{}{
							"mime_type": input.MimeType,
							"data":      base64.StdEncoding.EncodeToString(input.FileBytes),
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  8192,
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
	req.Header.Set("x-goog-api-key", r.apiKey)

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

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte, model string) (*port.RecognizeOutput, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from API: no candidates")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from API: no parts")
	}
	return &port.RecognizeOutput{
		Text:      resp.Candidates[0].Content.Parts[0].Text,
		ModelUsed: model,
	}, nil
}
