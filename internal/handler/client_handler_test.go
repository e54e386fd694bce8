package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casedesk/internal/domain"
	"casedesk/internal/handler"
	"casedesk/internal/service"
	"casedesk/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target, body string, id string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request, _ = http.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if id != "" {
		c.Params = gin.Params{{Key: "id", Value: id}}
	}
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newClientHandler() (*handler.ClientHandler, *mocks.MockClientService) {
	svc := new(mocks.MockClientService)
	return handler.NewClientHandler(svc, handler.MustExtractedDataValidator()), svc
}

func TestClientHandler_Create_Success(t *testing.T) {
	h, svc := newClientHandler()
	client := &domain.Client{ID: uuid.New(), FullName: "Иванов", Status: domain.ClientStatusNew}
	svc.On("Create", mock.Anything, service.CreateClientInput{FullName: "Иванов"}).Return(client, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/clients", `{"full_name":"Иванов"}`, "")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
	svc.AssertExpectations(t)
}

func TestClientHandler_Create_MissingName(t *testing.T) {
	h, svc := newClientHandler()

	c, w := newTestContext(http.MethodPost, "/api/v1/clients", `{}`, "")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClientHandler_GetByID_InvalidID(t *testing.T) {
	h, _ := newClientHandler()

	c, w := newTestContext(http.MethodGet, "/api/v1/clients/nope", "", "nope")
	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeResponse(t, w).Error.Code)
}

func TestClientHandler_GetByID_NotFound(t *testing.T) {
	h, svc := newClientHandler()
	id := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrClientNotFound)

	c, w := newTestContext(http.MethodGet, "/api/v1/clients/"+id.String(), "", id.String())
	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CLIENT_NOT_FOUND", decodeResponse(t, w).Error.Code)
}

func TestClientHandler_List(t *testing.T) {
	h, svc := newClientHandler()
	svc.On("List", mock.Anything).Return([]domain.Client{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/clients", "", "")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
}

func TestClientHandler_UpdateExtractedData_Valid(t *testing.T) {
	h, svc := newClientHandler()
	id := uuid.New()
	merged := domain.ExtractedDataFromStrings("surname", "Петров")
	svc.On("UpdateExtractedData", mock.Anything, id, mock.MatchedBy(func(d *domain.ExtractedData) bool {
		v, _ := d.Get("issuer")
		return d.Text("surname") == "Петров" && v.IsNull()
	})).Return(merged, nil)

	c, w := newTestContext(http.MethodPatch, "/", `{"surname":"Петров","issuer":null}`, id.String())
	h.UpdateExtractedData(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestClientHandler_UpdateExtractedData_RejectsNonStringValues(t *testing.T) {
	h, svc := newClientHandler()
	id := uuid.New()

	for _, body := range []string{`{"age":42}`, `["a"]`, `{"nested":{"a":"b"}}`, `not json`} {
		c, w := newTestContext(http.MethodPatch, "/", body, id.String())
		h.UpdateExtractedData(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "INVALID_EXTRACTED_DATA", decodeResponse(t, w).Error.Code, body)
	}
	svc.AssertNotCalled(t, "UpdateExtractedData", mock.Anything, mock.Anything, mock.Anything)
}

func TestClientHandler_UpdateProfile(t *testing.T) {
	h, svc := newClientHandler()
	id := uuid.New()
	svc.On("UpdateProfile", mock.Anything, id, service.UpdateProfileInput{
		Fields:         map[string]string{"diploma_reg_number": "R-1", "cert_reg_number": ""},
		PassportNumber: "4510 123456",
	}).Return(&domain.Client{ID: id}, nil)

	c, w := newTestContext(http.MethodPut, "/",
		`{"diploma_reg_number":"R-1","cert_reg_number":null,"passport_number":"4510 123456"}`, id.String())
	h.UpdateProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestClientHandler_UpdateProfile_UnknownField(t *testing.T) {
	h, _ := newClientHandler()
	id := uuid.New()

	c, w := newTestContext(http.MethodPut, "/", `{"inn":"123"}`, id.String())
	h.UpdateProfile(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_FIELD", decodeResponse(t, w).Error.Code)
}

func TestClientHandler_UpdateProfile_Duplicate(t *testing.T) {
	h, svc := newClientHandler()
	id := uuid.New()
	svc.On("UpdateProfile", mock.Anything, id, mock.Anything).Return(nil, domain.ErrDuplicateDiplomaRegNumber)

	c, w := newTestContext(http.MethodPut, "/", `{"diploma_reg_number":"R-1"}`, id.String())
	h.UpdateProfile(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_DIPLOMA_REG_NUMBER", decodeResponse(t, w).Error.Code)
}

func TestClientHandler_Validate(t *testing.T) {
	h, svc := newClientHandler()
	exclude := uuid.New()
	svc.On("CheckDuplicate", mock.Anything, "passport_number", "4510 123456", &exclude).Return(true, nil)

	c, w := newTestContext(http.MethodGet,
		"/api/v1/clients/validate?field=passport_number&value=4510+123456&exclude_id="+exclude.String(), "", "")
	h.Validate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"exists":true}}`, w.Body.String())
}

func TestClientHandler_Validate_UnsupportedField(t *testing.T) {
	h, svc := newClientHandler()
	svc.On("CheckDuplicate", mock.Anything, "inn", "1", (*uuid.UUID)(nil)).Return(false, domain.ErrUnsupportedField)

	c, w := newTestContext(http.MethodGet, "/api/v1/clients/validate?field=inn&value=1", "", "")
	h.Validate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_FIELD", decodeResponse(t, w).Error.Code)
}

func TestClientHandler_Validate_MissingValue(t *testing.T) {
	for _, target := range []string{
		"/api/v1/clients/validate?field=passport_number",
		"/api/v1/clients/validate?field=passport_number&value=++",
		"/api/v1/clients/validate?value=4510+123456",
	} {
		h, svc := newClientHandler()

		c, w := newTestContext(http.MethodGet, target, "", "")
		h.Validate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, "INVALID_REQUEST", decodeResponse(t, w).Error.Code)
		svc.AssertNotCalled(t, "CheckDuplicate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestClientHandler_Delete(t *testing.T) {
	h, svc := newClientHandler()
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(&service.DeleteClientResult{DeletedDocuments: 2}, nil)

	c, w := newTestContext(http.MethodDelete, "/", "", id.String())
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"deletedDocuments":2}}`, w.Body.String())
}

func TestClientHandler_Export(t *testing.T) {
	h, svc := newClientHandler()
	svc.On("List", mock.Anything).Return([]domain.Client{{ID: uuid.New(), FullName: "Иванов"}}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/clients/export?format=csv", "", "")
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="clients_`))
	assert.Contains(t, w.Body.String(), "Иванов")
}

func TestClientHandler_Export_BadFormat(t *testing.T) {
	h, svc := newClientHandler()

	c, w := newTestContext(http.MethodGet, "/api/v1/clients/export?format=pdf", "", "")
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything)
}
