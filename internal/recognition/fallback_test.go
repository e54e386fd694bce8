package recognition_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casedesk/internal/domain"
	"casedesk/internal/port"
	"casedesk/internal/recognition"
	"casedesk/mocks"
)

type recordingObserver struct {
	mu       sync.Mutex
	attempts []string
	failures int
	outcomes []string
}

func (o *recordingObserver) ObserveAttempt(model string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attempts = append(o.attempts, model)
	if err != nil {
		o.failures++
	}
}

func (o *recordingObserver) ObserveOutcome(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func newClient(primary, fallback *mocks.MockDocumentRecognizer, obs recognition.Observer) *recognition.Client {
	opts := recognition.ClientOptions{
		Primary:     primary,
		PrimaryName: "gemini-1.5-pro-002",
		Language:    "ru",
		Observer:    obs,
	}
	if fallback != nil {
		opts.Fallback = fallback
		opts.FallbackName = "gemini-2.0-flash"
	}
	return recognition.NewClient(opts)
}

func TestClient_PrimarySucceeds(t *testing.T) {
	primary := new(mocks.MockDocumentRecognizer)
	fallback := new(mocks.MockDocumentRecognizer)
	obs := &recordingObserver{}

	primary.On("Recognize", mock.Anything, mock.MatchedBy(func(in port.RecognizeInput) bool {
		return in.MimeType == "image/png" && in.Prompt != ""
	})).Return(&port.RecognizeOutput{Text: `{"doc_type":"passport","number":"123456"}`}, nil)

	out := newClient(primary, fallback, obs).Recognize(context.Background(), []byte("img"), "image/png")

	require.True(t, out.Succeeded())
	assert.False(t, out.Fallback)
	assert.Equal(t, "gemini-1.5-pro-002", out.ModelUsed)
	assert.Equal(t, "123456", out.Raw.Text("number"))
	assert.Equal(t, []string{"primary"}, obs.outcomes)
	fallback.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestClient_PrimaryErrorFallsBack(t *testing.T) {
	primary := new(mocks.MockDocumentRecognizer)
	fallback := new(mocks.MockDocumentRecognizer)
	obs := &recordingObserver{}

	primary.On("Recognize", mock.Anything, mock.Anything).Return(nil, errors.New("503"))
	fallback.On("Recognize", mock.Anything, mock.Anything).
		Return(&port.RecognizeOutput{Text: "```json\n{\"doc_type\":\"snils\"}\n```", ModelUsed: "flash-001"}, nil)

	out := newClient(primary, fallback, obs).Recognize(context.Background(), nil, "application/pdf")

	require.True(t, out.Succeeded())
	assert.True(t, out.Fallback)
	assert.Equal(t, "flash-001", out.ModelUsed)
	assert.Equal(t, "snils", out.Raw.Text("doc_type"))
	assert.Len(t, out.Errors, 1)
	assert.Equal(t, []string{"gemini-1.5-pro-002", "gemini-2.0-flash"}, obs.attempts)
	assert.Equal(t, 1, obs.failures)
	assert.Equal(t, []string{"fallback"}, obs.outcomes)
}

func TestClient_UnparseablePrimaryFallsBack(t *testing.T) {
	primary := new(mocks.MockDocumentRecognizer)
	fallback := new(mocks.MockDocumentRecognizer)

	primary.On("Recognize", mock.Anything, mock.Anything).Return(&port.RecognizeOutput{Text: "I cannot read this"}, nil)
	fallback.On("Recognize", mock.Anything, mock.Anything).Return(&port.RecognizeOutput{Text: `{"a":"b"}`}, nil)

	out := newClient(primary, fallback, nil).Recognize(context.Background(), nil, "application/pdf")

	require.True(t, out.Succeeded())
	assert.True(t, out.Fallback)
	require.Len(t, out.Errors, 1)
	assert.ErrorIs(t, out.Errors[0], recognition.ErrUnparseableOutput)
}

func TestClient_BothFail(t *testing.T) {
	primary := new(mocks.MockDocumentRecognizer)
	fallback := new(mocks.MockDocumentRecognizer)
	obs := &recordingObserver{}

	primary.On("Recognize", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	fallback.On("Recognize", mock.Anything, mock.Anything).Return(&port.RecognizeOutput{Text: "[1,2]"}, nil)

	out := newClient(primary, fallback, obs).Recognize(context.Background(), nil, "image/jpeg")

	assert.Equal(t, recognition.StateFailed, out.State)
	require.NotNil(t, out.Raw)
	assert.True(t, out.Raw.IsEmpty())
	assert.Len(t, out.Errors, 2)
	assert.Equal(t, []string{"failed"}, obs.outcomes)
	primary.AssertNumberOfCalls(t, "Recognize", 1)
	fallback.AssertNumberOfCalls(t, "Recognize", 1)
}

func TestClient_NoFallbackConfigured(t *testing.T) {
	primary := new(mocks.MockDocumentRecognizer)
	primary.On("Recognize", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	out := newClient(primary, nil, nil).Recognize(context.Background(), nil, "application/pdf")

	assert.Equal(t, recognition.StateFailed, out.State)
	assert.True(t, out.Raw.IsEmpty())
	primary.AssertNumberOfCalls(t, "Recognize", 1)
}

func TestClient_Extract_Normalizes(t *testing.T) {
	primary := new(mocks.MockDocumentRecognizer)
	primary.On("Recognize", mock.Anything, mock.Anything).
		Return(&port.RecognizeOutput{Text: `{"doc_type":"Диплом","номер диплома":"АБ 123456"}`}, nil)

	data, out := newClient(primary, nil, nil).Extract(context.Background(), nil, "application/pdf")

	require.True(t, out.Succeeded())
	assert.Equal(t, "diploma", data.Text(domain.FieldDocType))
	assert.Equal(t, "АБ", data.Text(domain.FieldDiplomaSeries))
	assert.Equal(t, "123456", data.Text(domain.FieldDiplomaNumber))
	assert.Equal(t, "old", data.Text(domain.FieldDiplomaFormat))
}

func TestClient_Extract_FailureYieldsEmptyMap(t *testing.T) {
	primary := new(mocks.MockDocumentRecognizer)
	primary.On("Recognize", mock.Anything, mock.Anything).Return(nil, errors.New("down"))

	data, out := newClient(primary, nil, nil).Extract(context.Background(), nil, "application/pdf")

	assert.False(t, out.Succeeded())
	assert.True(t, data.IsEmpty())
	assert.False(t, data.Has(domain.FieldDocType))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "trying_primary", recognition.StateTryingPrimary.String())
	assert.Equal(t, "trying_fallback", recognition.StateTryingFallback.String())
	assert.Equal(t, "succeeded", recognition.StateSucceeded.String())
	assert.Equal(t, "failed", recognition.StateFailed.String())
}
