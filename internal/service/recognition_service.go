package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"casedesk/internal/config"
	"casedesk/internal/domain"
	"casedesk/internal/extract"
	"casedesk/internal/port"
	"casedesk/internal/recognition"
)

// signedURLExpirySecs is the lifetime of the URL used to fetch stored files.
const signedURLExpirySecs = 600

// Extractor recognizes a document and returns canonical fields. A failed
// recognition yields an empty map.
type Extractor interface {
	Extract(ctx context.Context, fileBytes []byte, mimeType string) (*domain.ExtractedData, *recognition.Outcome)
}

// MergeObserver is notified when a profile write falls back to extracted_data only.
type MergeObserver interface {
	IncMergeFallback()
}

// RecognitionResult is returned to the caller of a recognition.
type RecognitionResult struct {
	ExtractedData *domain.ExtractedData `json:"extracted_data"`
	DocType       domain.DocType        `json:"doc_type,omitempty"`
	Recognized    bool                  `json:"recognized"`
	ModelUsed     string                `json:"model_used,omitempty"`
	Fallback      bool                  `json:"fallback"`
}

// RecognitionService defines the recognize-and-merge contract.
type RecognitionService interface {
	RecognizeForClient(ctx context.Context, clientID uuid.UUID, fileURL string) (*RecognitionResult, error)
	RecognizeDocument(ctx context.Context, documentID uuid.UUID) (*RecognitionResult, error)
}

type recognitionService struct {
	clientRepo port.ClientRepository
	docRepo    port.DocumentRepository
	storage    port.ObjectStorage
	extractor  Extractor
	observer   MergeObserver
	httpClient *http.Client
	cfg        *config.S3Config
}

// NewRecognitionService creates a new RecognitionService. observer may be nil.
func NewRecognitionService(
	clientRepo port.ClientRepository,
	docRepo port.DocumentRepository,
	storage port.ObjectStorage,
	extractor Extractor,
	observer MergeObserver,
	cfg *config.S3Config,
) RecognitionService {
	return &recognitionService{
		clientRepo: clientRepo,
		docRepo:    docRepo,
		storage:    storage,
		extractor:  extractor,
		observer:   observer,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cfg:        cfg,
	}
}

func (s *recognitionService) RecognizeDocument(ctx context.Context, documentID uuid.UUID) (*RecognitionResult, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	fileURL := strings.TrimSpace(domain.Deref(doc.FileURL))
	if fileURL == "" {
		return nil, fmt.Errorf("%w: document has no file", domain.ErrInvalidInput)
	}
	return s.RecognizeForClient(ctx, doc.ClientID, fileURL)
}

// RecognizeForClient runs a recognition for fileURL and merges the result
// into the client's stored data. A failed recognition is not an error: the
// stored data is returned unchanged and nothing is written.
func (s *recognitionService) RecognizeForClient(ctx context.Context, clientID uuid.UUID, fileURL string) (*RecognitionResult, error) {
	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		return nil, fmt.Errorf("%w: file_url is required", domain.ErrInvalidInput)
	}
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	fileBytes, err := s.fetch(ctx, fileURL)
	if err != nil {
		return nil, err
	}

	data, outcome := s.extractor.Extract(ctx, fileBytes, recognition.DetectMime(mimeSource(fileURL)))
	if outcome == nil {
		outcome = &recognition.Outcome{State: recognition.StateFailed}
	}
	if data.IsEmpty() {
		log.Printf("recognitionService.RecognizeForClient: nothing recognized for client %s (%s)", clientID, outcome.State)
		return &RecognitionResult{ExtractedData: client.ExtractedData.Clone()}, nil
	}

	docType := extract.DocTypeOf(data)
	merged, patch := extract.Merge(&client.ExtractedData, data, docType)
	extract.AttachFileURL(patch, client.Profile, docType, fileURL)

	if err := s.clientRepo.UpdateProfile(ctx, clientID, merged, patch); err != nil {
		log.Printf("recognitionService.RecognizeForClient: profile write failed for client %s, retrying extracted_data only: %v", clientID, err)
		if s.observer != nil {
			s.observer.IncMergeFallback()
		}
		if err := s.clientRepo.UpdateExtractedData(ctx, clientID, merged); err != nil {
			return nil, fmt.Errorf("persisting extracted data: %w", err)
		}
	}

	if err := s.docRepo.SetDocTypeByFileURL(ctx, clientID, fileURL, docType); err != nil {
		log.Printf("recognitionService.RecognizeForClient: failed to tag document %s: %v", fileURL, err)
	}

	return &RecognitionResult{
		ExtractedData: merged,
		DocType:       docType,
		Recognized:    true,
		ModelUsed:     outcome.ModelUsed,
		Fallback:      outcome.Fallback,
	}, nil
}

// fetch reads the file bytes. Storage paths go through a short-lived signed URL.
func (s *recognitionService) fetch(ctx context.Context, fileURL string) ([]byte, error) {
	fetchURL := fileURL
	if !isRemoteURL(fileURL) {
		signed, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, fileURL, signedURLExpirySecs)
		if err != nil {
			return nil, fmt.Errorf("%w: signing %s: %v", domain.ErrFileFetch, fileURL, err)
		}
		fetchURL = signed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFileFetch, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFileFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFileFetch, resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if s.cfg.MaxFileSizeMB > 0 {
		body = io.LimitReader(resp.Body, s.cfg.MaxFileSizeMB*1024*1024+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrFileFetch, err)
	}
	if s.cfg.MaxFileSizeMB > 0 && int64(len(data)) > s.cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}
	return data, nil
}

// mimeSource drops the query and fragment of absolute URLs so the extension
// is the tail of the string.
func mimeSource(fileURL string) string {
	if !isRemoteURL(fileURL) {
		return fileURL
	}
	u, err := url.Parse(fileURL)
	if err != nil {
		return fileURL
	}
	return u.Path
}
