package recognition_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/config"
	"casedesk/internal/port"
	"casedesk/internal/recognition"
	"casedesk/mocks"
)

func TestDetectMime(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://x/clients/1/scan.PDF", "application/pdf"},
		{"photo.jpg", "image/jpeg"},
		{"photo.JPEG", "image/jpeg"},
		{"scan.png", "image/png"},
		{"blob-without-extension", "application/pdf"},
		{"archive.tiff", "application/pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, recognition.DetectMime(tt.url))
		})
	}
}

func TestParseJSON_WholeText(t *testing.T) {
	d := recognition.ParseJSON(` {"surname":"Иванов","age":30} `)

	require.NotNil(t, d)
	assert.Equal(t, []string{"surname", "age"}, d.Keys())
	assert.Equal(t, "Иванов", d.Text("surname"))
	assert.Equal(t, "30", d.Text("age"))
}

func TestParseJSON_FencedOutput(t *testing.T) {
	d := recognition.ParseJSON("Here you go:\n```json\n{\"doc_type\": \"passport\"}\n```\nThanks")

	require.NotNil(t, d)
	assert.Equal(t, "passport", d.Text("doc_type"))
}

func TestParseJSON_NotAnObject(t *testing.T) {
	assert.Nil(t, recognition.ParseJSON(""))
	assert.Nil(t, recognition.ParseJSON("no json here"))
	assert.Nil(t, recognition.ParseJSON(`["a","b"]`))
	assert.Nil(t, recognition.ParseJSON(`{"broken": `))
	assert.Nil(t, recognition.ParseJSON(`} reversed {`))
}

func TestParseJSON_TrailingContent(t *testing.T) {
	assert.Nil(t, recognition.ParseJSON(`{"a":"1"} and also {"b":"2"}`))
	assert.Nil(t, recognition.ParseJSON(`{"a":"1"}}`))
	assert.Nil(t, recognition.ParseJSON(`{"a":"1"}{"b":"2"}`))
}

func TestBuildPrompt_DefaultLanguage(t *testing.T) {
	assert.Contains(t, recognition.BuildPrompt(""), "Язык интерфейса: ru.")
	assert.Contains(t, recognition.BuildPrompt("en"), "Язык интерфейса: en.")
	assert.Contains(t, recognition.BuildPrompt("ru"), `"diploma_reg_number"`)
}

func TestNewRecognizer_UnknownProvider(t *testing.T) {
	_, err := recognition.NewRecognizer(&config.ProviderConfig{Provider: "nope"})

	assert.ErrorContains(t, err, "unknown recognition provider: nope")
}

func TestNewClientFromConfig(t *testing.T) {
	primary := new(mocks.MockDocumentRecognizer)
	recognition.RegisterProvider("test-static", func(*config.ProviderConfig) (port.DocumentRecognizer, error) {
		return primary, nil
	})

	client, err := recognition.NewClientFromConfig(&config.RecognitionConfig{
		Primary:  config.ProviderConfig{Provider: "test-static", Model: "m1"},
		Fallback: config.ProviderConfig{Provider: "test-static", Model: "m2"},
	}, nil)
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = recognition.NewClientFromConfig(&config.RecognitionConfig{
		Primary:  config.ProviderConfig{Provider: "test-static"},
		Fallback: config.ProviderConfig{Provider: "missing"},
	}, nil)
	assert.ErrorContains(t, err, "fallback recognizer")

	names := recognition.Providers()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "test-static")
}

func TestProviderError(t *testing.T) {
	base := assert.AnError
	err := recognition.NewProviderError("gemini", 500, base)

	assert.Equal(t, "gemini API error (status 500): "+base.Error(), err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "gemini: "+base.Error(), recognition.NewProviderError("gemini", 0, base).Error())
	assert.Equal(t, "abc...", recognition.Truncate("abcdef", 3))
}
