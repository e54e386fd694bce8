package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"casedesk/internal/domain"
	"casedesk/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	doc.CreatedAt = time.Now().UTC()

	query := `INSERT INTO documents (
		id, client_id, original_name, file_url, mime_type, size, doc_type, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.ClientID, doc.OriginalName, doc.FileURL, doc.MimeType, doc.Size, doc.DocType, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, clientID *uuid.UUID) ([]domain.Document, error) {
	var docs []domain.Document
	var err error
	if clientID != nil {
		err = r.db.SelectContext(ctx, &docs,
			"SELECT * FROM documents WHERE client_id = $1 ORDER BY created_at DESC", *clientID)
	} else {
		err = r.db.SelectContext(ctx, &docs, "SELECT * FROM documents ORDER BY created_at DESC")
	}
	if err != nil {
		return nil, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) Update(ctx context.Context, doc *domain.Document) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET original_name = $1, file_url = $2, mime_type = $3, size = $4, doc_type = $5
		 WHERE id = $6`,
		doc.OriginalName, doc.FileURL, doc.MimeType, doc.Size, doc.DocType, doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.Update: %w", err)
	}
	return expectRow(result, domain.ErrDocumentNotFound)
}

// SetDocTypeByFileURL tags every document of the client stored at fileURL.
// Matching no row is not an error: the file may not be registered yet.
func (r *documentRepo) SetDocTypeByFileURL(ctx context.Context, clientID uuid.UUID, fileURL string, docType domain.DocType) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE documents SET doc_type = $1 WHERE client_id = $2 AND file_url = $3",
		docType, clientID, fileURL)
	if err != nil {
		return fmt.Errorf("documentRepo.SetDocTypeByFileURL: %w", err)
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	return expectRow(result, domain.ErrDocumentNotFound)
}

func (r *documentRepo) DeleteByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE client_id = $1", clientID)
	if err != nil {
		return 0, fmt.Errorf("documentRepo.DeleteByClient: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}
