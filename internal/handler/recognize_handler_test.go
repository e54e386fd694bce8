package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"casedesk/internal/domain"
	"casedesk/internal/handler"
	"casedesk/internal/service"
	"casedesk/mocks"
)

func TestRecognizeHandler_RecognizeForClient(t *testing.T) {
	svc := new(mocks.MockRecognitionService)
	h := handler.NewRecognizeHandler(svc)
	id := uuid.New()
	svc.On("RecognizeForClient", mock.Anything, id, "clients/a/b/p.pdf").Return(&service.RecognitionResult{
		ExtractedData: domain.ExtractedDataFromStrings("doc_type", "passport"),
		DocType:       domain.DocTypePassport,
		Recognized:    true,
	}, nil)

	c, w := newTestContext(http.MethodPost, "/", `{"file_url":"clients/a/b/p.pdf"}`, id.String())
	h.RecognizeForClient(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"success":true,"data":{"extracted_data":{"doc_type":"passport"},"doc_type":"passport","recognized":true,"fallback":false}}`,
		w.Body.String())
}

func TestRecognizeHandler_MissingFileURL(t *testing.T) {
	h := handler.NewRecognizeHandler(new(mocks.MockRecognitionService))

	c, w := newTestContext(http.MethodPost, "/", `{}`, uuid.New().String())
	h.RecognizeForClient(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecognizeHandler_FetchFailure(t *testing.T) {
	svc := new(mocks.MockRecognitionService)
	h := handler.NewRecognizeHandler(svc)
	id := uuid.New()
	svc.On("RecognizeDocument", mock.Anything, id).Return(nil, errors.Join(domain.ErrFileFetch, context.DeadlineExceeded))

	c, w := newTestContext(http.MethodPost, "/", "", id.String())
	h.RecognizeDocument(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "FILE_FETCH_FAILED", decodeResponse(t, w).Error.Code)
}
