package port

import (
	"context"

	"github.com/google/uuid"

	"casedesk/internal/domain"
)

// ClientRepository persists clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	UpdateExtractedData(ctx context.Context, id uuid.UUID, data *domain.ExtractedData) error
	UpdateProfile(ctx context.Context, id uuid.UUID, data *domain.ExtractedData, patch domain.ProfilePatch) error
	ExistsByField(ctx context.Context, field domain.UniqueField, value string, excludeID *uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
