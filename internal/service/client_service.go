package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"casedesk/internal/config"
	"casedesk/internal/domain"
	"casedesk/internal/port"
)

// CreateClientInput is the DTO for creating a client.
type CreateClientInput struct {
	FullName string
	Status   string
}

// UpdateClientInput is the DTO for updating a client. Nil fields are left untouched;
// ExtractedData is shallow-merged into the stored value.
type UpdateClientInput struct {
	FullName      *string
	Status        *string
	ExtractedData *domain.ExtractedData
}

// UpdateProfileInput carries the operator's profile form. Every editable
// profile column is written; a blank or missing value clears the column.
type UpdateProfileInput struct {
	Fields         map[string]string
	PassportNumber string
}

// editableProfileColumns are written by UpdateProfile. diploma_format is
// derived by recognition and never edited by hand.
var editableProfileColumns = []string{
	domain.FieldRegistrationPlace,
	domain.FieldDiplomaSeries, domain.FieldDiplomaNumber, domain.FieldDiplomaRegNumber,
	domain.FieldDiplomaUniversityName, domain.FieldDiplomaUniversityLocation,
	domain.FieldDiplomaSpecialty, domain.FieldDiplomaSpecialization,
	domain.FieldDiplomaQualification, domain.FieldDiplomaQualificationDate,
	domain.FieldDiplomaFileURL,
	domain.FieldCertRegNumber, domain.FieldCertIssueDate, domain.FieldCertExpiryDate,
	domain.FieldCertCenterName, domain.FieldCertCenterLocation, domain.FieldCertFileURL,
}

// DeleteClientResult reports what a client deletion removed.
type DeleteClientResult struct {
	DeletedDocuments int `json:"deletedDocuments"`
}

// ClientService defines the client management contract.
type ClientService interface {
	Create(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*domain.Client, error)
	UpdateExtractedData(ctx context.Context, id uuid.UUID, patch *domain.ExtractedData) (*domain.ExtractedData, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*domain.Client, error)
	CheckDuplicate(ctx context.Context, field, value string, excludeID *uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (*DeleteClientResult, error)
}

type clientService struct {
	clientRepo port.ClientRepository
	docRepo    port.DocumentRepository
	storage    port.ObjectStorage
	cfg        *config.S3Config
}

// NewClientService creates a new ClientService implementation.
func NewClientService(
	clientRepo port.ClientRepository,
	docRepo port.DocumentRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		docRepo:    docRepo,
		storage:    storage,
		cfg:        cfg,
	}
}

func (s *clientService) Create(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(input.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: full_name is required", domain.ErrInvalidInput)
	}
	status := domain.ClientStatus(strings.TrimSpace(input.Status))
	if status == "" {
		status = domain.ClientStatusNew
	}

	client := &domain.Client{
		ID:            uuid.New(),
		FullName:      name,
		Status:        status,
		ExtractedData: *domain.NewExtractedData(),
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	log.Printf("clientService.Create: created client %s", client.ID)
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *clientService) List(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, fmt.Errorf("%w: full_name cannot be blank", domain.ErrInvalidInput)
		}
		client.FullName = name
	}
	if input.Status != nil {
		client.Status = domain.ClientStatus(strings.TrimSpace(*input.Status))
	}
	if input.ExtractedData != nil {
		client.ExtractedData = *shallowMerge(&client.ExtractedData, input.ExtractedData)
	}
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) UpdateExtractedData(ctx context.Context, id uuid.UUID, patch *domain.ExtractedData) (*domain.ExtractedData, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := shallowMerge(&client.ExtractedData, patch)
	if err := s.clientRepo.UpdateExtractedData(ctx, id, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *clientService) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := domain.ProfilePatch{}
	for _, col := range editableProfileColumns {
		if v := strings.TrimSpace(input.Fields[col]); v != "" {
			patch[col] = domain.StringPtr(v)
		} else {
			patch[col] = nil
		}
	}
	passport := strings.TrimSpace(input.PassportNumber)

	checks := []struct {
		field domain.UniqueField
		value string
		err   error
	}{
		{domain.UniqueDiplomaRegNumber, domain.Deref(patch[domain.FieldDiplomaRegNumber]), domain.ErrDuplicateDiplomaRegNumber},
		{domain.UniqueCertRegNumber, domain.Deref(patch[domain.FieldCertRegNumber]), domain.ErrDuplicateCertRegNumber},
		{domain.UniquePassportNumber, passport, domain.ErrDuplicatePassportNumber},
	}
	for _, chk := range checks {
		if chk.value == "" {
			continue
		}
		exists, err := s.clientRepo.ExistsByField(ctx, chk.field, chk.value, &id)
		if err != nil {
			return nil, fmt.Errorf("checking %s uniqueness: %w", chk.field, err)
		}
		if exists {
			return nil, chk.err
		}
	}

	var data *domain.ExtractedData
	if passport != "" {
		data = client.ExtractedData.Clone()
		data.SetString(domain.FieldNumber, passport)
	}
	if err := s.clientRepo.UpdateProfile(ctx, id, data, patch); err != nil {
		return nil, err
	}
	return s.clientRepo.GetByID(ctx, id)
}

func (s *clientService) CheckDuplicate(ctx context.Context, field, value string, excludeID *uuid.UUID) (bool, error) {
	f, err := domain.ParseUniqueField(field)
	if err != nil {
		return false, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	return s.clientRepo.ExistsByField(ctx, f, value, excludeID)
}

// Delete removes the client's stored files best-effort, then the document
// rows, then the client itself.
func (s *clientService) Delete(ctx context.Context, id uuid.UUID) (*DeleteClientResult, error) {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	docs, err := s.docRepo.List(ctx, &id)
	if err != nil {
		return nil, fmt.Errorf("listing client documents: %w", err)
	}
	var keys []string
	for i := range docs {
		if key := storageKey(docs[i].FileURL); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) > 0 {
		if err := s.storage.DeleteMany(ctx, s.cfg.Bucket, keys); err != nil {
			log.Printf("clientService.Delete: failed to remove %d files for client %s: %v", len(keys), id, err)
		}
	}

	deleted, err := s.docRepo.DeleteByClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("deleting client documents: %w", err)
	}
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	log.Printf("clientService.Delete: deleted client %s with %d documents", id, deleted)
	return &DeleteClientResult{DeletedDocuments: deleted}, nil
}

func shallowMerge(stored, patch *domain.ExtractedData) *domain.ExtractedData {
	merged := stored.Clone()
	patch.Range(func(k string, v domain.Value) bool {
		merged.Set(k, v)
		return true
	})
	return merged
}

// storageKey returns the blob-store path of a file reference, or "" for
// absolute URLs and empty references.
func storageKey(fileURL *string) string {
	ref := strings.TrimSpace(domain.Deref(fileURL))
	if ref == "" || isRemoteURL(ref) {
		return ""
	}
	return ref
}

func isRemoteURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
