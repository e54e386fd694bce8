package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casedesk/internal/domain"
	"casedesk/internal/port"
	"casedesk/internal/service"
	"casedesk/mocks"
)

// createMultipartFile creates a fake multipart file header and content for testing.
func createMultipartFile(filename string, content []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content) + 1024))
	file, _ := form.File["file"][0].Open()
	return file, form.File["file"][0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4 test content that is at least a few bytes long for detection purposes")
}

func setupDocumentService() (service.DocumentService, *mocks.MockDocumentRepo, *mocks.MockClientRepo, *mocks.MockObjectStorage) {
	docRepo := new(mocks.MockDocumentRepo)
	clientRepo := new(mocks.MockClientRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	return service.NewDocumentService(docRepo, clientRepo, storage, &cfg), docRepo, clientRepo, storage
}

func TestDocumentService_Upload(t *testing.T) {
	svc, docRepo, clientRepo, storage := setupDocumentService()
	clientID := uuid.New()
	file, header := createMultipartFile("passport.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	clientRepo.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID}, nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{}, nil)
	docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	doc, err := svc.Upload(context.Background(), service.DocumentUploadInput{ClientID: clientID, File: file, Header: header})

	require.NoError(t, err)
	assert.Equal(t, "passport.pdf", domain.Deref(doc.OriginalName))
	assert.Equal(t, "clients/"+clientID.String()+"/"+doc.ID.String()+"/passport.pdf", domain.Deref(doc.FileURL))
	assert.Equal(t, "application/pdf", domain.Deref(doc.MimeType))
}

func TestDocumentService_Upload_RejectsExtension(t *testing.T) {
	svc, _, _, storage := setupDocumentService()
	file, header := createMultipartFile("notes.txt", []byte("hello"), "text/plain")
	defer file.Close()

	_, err := svc.Upload(context.Background(), service.DocumentUploadInput{ClientID: uuid.New(), File: file, Header: header})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDocumentService_Upload_RejectsSpoofedContent(t *testing.T) {
	svc, _, _, _ := setupDocumentService()
	file, header := createMultipartFile("scan.pdf", []byte("plain text pretending to be a pdf"), "application/pdf")
	defer file.Close()

	_, err := svc.Upload(context.Background(), service.DocumentUploadInput{ClientID: uuid.New(), File: file, Header: header})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestDocumentService_Upload_RemovesOrphanOnCreateFailure(t *testing.T) {
	svc, docRepo, clientRepo, storage := setupDocumentService()
	clientID := uuid.New()
	file, header := createMultipartFile("d.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	clientRepo.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID}, nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	docRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	storage.On("Delete", mock.Anything, "test-bucket", mock.AnythingOfType("string")).Return(nil)

	_, err := svc.Upload(context.Background(), service.DocumentUploadInput{ClientID: clientID, File: file, Header: header})

	assert.Error(t, err)
	storage.AssertExpectations(t)
}

func TestDocumentService_Register(t *testing.T) {
	svc, docRepo, clientRepo, _ := setupDocumentService()
	clientID := uuid.New()
	clientRepo.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID}, nil)
	docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	doc, err := svc.Register(context.Background(), service.RegisterDocumentInput{
		ClientID: clientID,
		FileURL:  " https://cdn.example.com/a.jpg ",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", domain.Deref(doc.FileURL))

	_, err = svc.Register(context.Background(), service.RegisterDocumentInput{ClientID: clientID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_Delete(t *testing.T) {
	svc, docRepo, _, storage := setupDocumentService()
	id := uuid.New()
	docRepo.On("GetByID", mock.Anything, id).Return(&domain.Document{ID: id, FileURL: domain.StringPtr("clients/c/d/x.png")}, nil)
	storage.On("Delete", mock.Anything, "test-bucket", "clients/c/d/x.png").Return(errors.New("gone"))
	docRepo.On("Delete", mock.Anything, id).Return(nil)

	err := svc.Delete(context.Background(), id)

	require.NoError(t, err)
	docRepo.AssertExpectations(t)
}

func TestDocumentService_GetDownloadURL(t *testing.T) {
	svc, docRepo, _, storage := setupDocumentService()
	stored, remote, empty := uuid.New(), uuid.New(), uuid.New()
	docRepo.On("GetByID", mock.Anything, stored).Return(&domain.Document{ID: stored, FileURL: domain.StringPtr("clients/c/d/x.png")}, nil)
	docRepo.On("GetByID", mock.Anything, remote).Return(&domain.Document{ID: remote, FileURL: domain.StringPtr("https://cdn.example.com/y.pdf")}, nil)
	docRepo.On("GetByID", mock.Anything, empty).Return(&domain.Document{ID: empty}, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", "clients/c/d/x.png", int64(3600)).Return("https://signed", nil)

	url, err := svc.GetDownloadURL(context.Background(), stored)
	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)

	url, err = svc.GetDownloadURL(context.Background(), remote)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/y.pdf", url)

	_, err = svc.GetDownloadURL(context.Background(), empty)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
