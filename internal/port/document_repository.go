package port

import (
	"context"

	"github.com/google/uuid"

	"casedesk/internal/domain"
)

// DocumentRepository persists client documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, clientID *uuid.UUID) ([]domain.Document, error)
	Update(ctx context.Context, doc *domain.Document) error
	SetDocTypeByFileURL(ctx context.Context, clientID uuid.UUID, fileURL string, docType domain.DocType) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByClient(ctx context.Context, clientID uuid.UUID) (int, error)
}
