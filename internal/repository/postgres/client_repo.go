package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"casedesk/internal/domain"
	"casedesk/internal/port"
)

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new PostgreSQL-backed ClientRepository.
func NewClientRepo(db *sqlx.DB) port.ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *domain.Client) error {
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `INSERT INTO clients (id, full_name, status, extracted_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		client.ID, client.FullName, client.Status, client.ExtractedData, client.CreatedAt, client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("clientRepo.Create: %w", err)
	}
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}
	return &client, nil
}

func (r *clientRepo) List(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.SelectContext(ctx, &clients, "SELECT * FROM clients ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("clientRepo.List: %w", err)
	}
	return clients, nil
}

func (r *clientRepo) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE clients SET full_name = $1, status = $2, extracted_data = $3, updated_at = $4
		 WHERE id = $5`,
		client.FullName, client.Status, client.ExtractedData, client.UpdatedAt, client.ID)
	if err != nil {
		return fmt.Errorf("clientRepo.Update: %w", err)
	}
	return expectRow(result, domain.ErrClientNotFound)
}

func (r *clientRepo) UpdateExtractedData(ctx context.Context, id uuid.UUID, data *domain.ExtractedData) error {
	if data == nil {
		data = domain.NewExtractedData()
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE clients SET extracted_data = $1, updated_at = $2 WHERE id = $3",
		data, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("clientRepo.UpdateExtractedData: %w", err)
	}
	return expectRow(result, domain.ErrClientNotFound)
}

// UpdateProfile writes extracted_data and the patched profile columns in one
// statement. Column names come from a fixed whitelist.
func (r *clientRepo) UpdateProfile(ctx context.Context, id uuid.UUID, data *domain.ExtractedData, patch domain.ProfilePatch) error {
	query, args, err := buildProfileUpdate(id, data, patch)
	if err != nil {
		return fmt.Errorf("clientRepo.UpdateProfile: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("clientRepo.UpdateProfile: %w", err)
	}
	return expectRow(result, domain.ErrClientNotFound)
}

func buildProfileUpdate(id uuid.UUID, data *domain.ExtractedData, patch domain.ProfilePatch) (string, []interface{}, error) {
	columns := make([]string, 0, len(patch))
	for col := range patch {
		if !domain.IsProfileColumn(col) {
			return "", nil, fmt.Errorf("%w: unknown profile column %q", domain.ErrInvalidInput, col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now().UTC()}
	if data != nil {
		args = append(args, data)
		sets = append(sets, fmt.Sprintf("extracted_data = $%d", len(args)))
	}
	for _, col := range columns {
		args = append(args, patch[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE clients SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return query, args, nil
}

func (r *clientRepo) ExistsByField(ctx context.Context, field domain.UniqueField, value string, excludeID *uuid.UUID) (bool, error) {
	var column string
	switch field {
	case domain.UniquePassportNumber:
		column = "extracted_data->>'number'"
	case domain.UniqueDiplomaRegNumber:
		column = "diploma_reg_number"
	case domain.UniqueCertRegNumber:
		column = "cert_reg_number"
	default:
		return false, domain.ErrUnsupportedField
	}

	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM clients WHERE %s = $1", column)
	args := []interface{}{value}
	if excludeID != nil {
		query += " AND id <> $2"
		args = append(args, *excludeID)
	}
	query += ")"

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("clientRepo.ExistsByField: %w", err)
	}
	return exists, nil
}

func (r *clientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("clientRepo.Delete: %w", err)
	}
	return expectRow(result, domain.ErrClientNotFound)
}

func expectRow(result sql.Result, notFound error) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound
	}
	return nil
}
