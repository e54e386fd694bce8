package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/config"
	"casedesk/internal/port"
	"casedesk/internal/recognition"
	"casedesk/internal/recognition/claude"
)

func newTestRecognizer(serverURL string) *claude.Recognizer {
	return claude.NewRecognizerWithEndpoint(&config.ProviderConfig{
		Provider: "claude",
		APIKey:   "test-key",
	}, serverURL)
}

func TestClaudeRecognizer_PDF_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		msg := reqBody["messages"].([]interface{})[0].(map[string]interface{})
		blocks := msg["content"].([]interface{})
		require.Len(t, blocks, 2)
		assert.Equal(t, "document", blocks[0].(map[string]interface{})["type"])
		assert.Equal(t, "text", blocks[1].(map[string]interface{})["type"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content":     []map[string]interface{}{{"type": "text", "text": `{"doc_type":"snils"}`}},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	out, err := newTestRecognizer(server.URL).Recognize(context.Background(), port.RecognizeInput{
		FileBytes: []byte("%PDF"),
		MimeType:  "application/pdf",
		Prompt:    "p",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"doc_type":"snils"}`, out.Text)
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
}

func TestClaudeRecognizer_UnsupportedMime(t *testing.T) {
	_, err := newTestRecognizer("http://unused").Recognize(context.Background(), port.RecognizeInput{MimeType: "text/plain"})

	assert.ErrorContains(t, err, "unsupported mime type")
}

func TestClaudeRecognizer_Truncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{"}],"stop_reason":"max_tokens"}`))
	}))
	defer server.Close()

	_, err := newTestRecognizer(server.URL).Recognize(context.Background(), port.RecognizeInput{MimeType: "image/jpeg"})

	assert.ErrorContains(t, err, "truncated")
}

func TestClaudeRecognizer_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestRecognizer(server.URL).Recognize(context.Background(), port.RecognizeInput{MimeType: "image/jpeg"})

	var pe *recognition.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
}
