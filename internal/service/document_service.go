package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"casedesk/internal/config"
	"casedesk/internal/domain"
	"casedesk/internal/port"
)

// DocumentUploadInput is the DTO for multipart uploads.
type DocumentUploadInput struct {
	ClientID uuid.UUID
	File     multipart.File
	Header   *multipart.FileHeader
}

// RegisterDocumentInput records a file that is already stored somewhere.
type RegisterDocumentInput struct {
	ClientID uuid.UUID
	FileURL  string
	Name     *string
	MimeType *string
	Size     *int64
}

// UpdateDocumentInput patches document metadata. Nil fields are left untouched.
type UpdateDocumentInput struct {
	Name     *string
	FileURL  *string
	MimeType *string
	Size     *int64
}

// DocumentService defines the document management contract.
type DocumentService interface {
	Upload(ctx context.Context, input DocumentUploadInput) (*domain.Document, error)
	Register(ctx context.Context, input RegisterDocumentInput) (*domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, clientID *uuid.UUID) ([]domain.Document, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDocumentInput) (*domain.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
}

type documentService struct {
	docRepo    port.DocumentRepository
	clientRepo port.ClientRepository
	storage    port.ObjectStorage
	cfg        *config.S3Config
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	clientRepo port.ClientRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) DocumentService {
	return &documentService{
		docRepo:    docRepo,
		clientRepo: clientRepo,
		storage:    storage,
		cfg:        cfg,
	}
}

func (s *documentService) Upload(ctx context.Context, input DocumentUploadInput) (*domain.Document, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	if _, valid := domain.AllowedContentTypes[http.DetectContentType(buf[:n])]; !valid {
		return nil, domain.ErrUnsupportedFileType
	}
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	if _, err := s.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	docID := uuid.New()
	name := filepath.Base(input.Header.Filename)
	key := fmt.Sprintf("clients/%s/%s/%s", input.ClientID, docID, name)
	contentType := domain.AllowedFileTypes[fileType]

	log.Printf("documentService.Upload: uploading %s (%s, %d bytes) for client %s",
		name, contentType, input.Header.Size, input.ClientID)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("documentService.Upload: storage upload failed for %s: %v", key, err)
		return nil, domain.ErrUploadFailed
	}

	size := input.Header.Size
	doc := &domain.Document{
		ID:           docID,
		ClientID:     input.ClientID,
		OriginalName: domain.StringPtr(name),
		FileURL:      domain.StringPtr(key),
		MimeType:     domain.StringPtr(contentType),
		Size:         &size,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, s.cfg.Bucket, key); delErr != nil {
			log.Printf("documentService.Upload: failed to remove orphaned file %s: %v", key, delErr)
		}
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return doc, nil
}

func (s *documentService) Register(ctx context.Context, input RegisterDocumentInput) (*domain.Document, error) {
	fileURL := strings.TrimSpace(input.FileURL)
	if input.ClientID == uuid.Nil || fileURL == "" {
		return nil, fmt.Errorf("%w: client_id and file_url are required", domain.ErrInvalidInput)
	}
	if _, err := s.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:           uuid.New(),
		ClientID:     input.ClientID,
		OriginalName: input.Name,
		FileURL:      domain.StringPtr(fileURL),
		MimeType:     input.MimeType,
		Size:         input.Size,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

func (s *documentService) List(ctx context.Context, clientID *uuid.UUID) ([]domain.Document, error) {
	return s.docRepo.List(ctx, clientID)
}

func (s *documentService) Update(ctx context.Context, id uuid.UUID, input UpdateDocumentInput) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		doc.OriginalName = input.Name
	}
	if input.FileURL != nil {
		doc.FileURL = input.FileURL
	}
	if input.MimeType != nil {
		doc.MimeType = input.MimeType
	}
	if input.Size != nil {
		doc.Size = input.Size
	}
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the stored file best-effort, then the row.
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if key := storageKey(doc.FileURL); key != "" {
		if err := s.storage.Delete(ctx, s.cfg.Bucket, key); err != nil {
			log.Printf("documentService.Delete: failed to remove file %s: %v", key, err)
		}
	}
	return s.docRepo.Delete(ctx, id)
}

func (s *documentService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	ref := strings.TrimSpace(domain.Deref(doc.FileURL))
	if ref == "" {
		return "", domain.ErrNotFound
	}
	if isRemoteURL(ref) {
		return ref, nil
	}
	return s.storage.GetPresignedURL(ctx, s.cfg.Bucket, ref, s.cfg.PresignExpiry)
}
