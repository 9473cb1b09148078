package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docassist/internal/domain"
	"docassist/internal/port"
)

type fileMetaRepo struct {
	db *sqlx.DB
}

// NewFileMetaRepo creates a PostgreSQL-backed FileMetaRepository.
func NewFileMetaRepo(db *sqlx.DB) port.FileMetaRepository {
	return &fileMetaRepo{db: db}
}

func (r *fileMetaRepo) Create(ctx context.Context, meta *domain.FileMeta) error {
	now := time.Now().UTC()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, `INSERT INTO documents
		(id, tenant_id, uploaded_by, file_name, original_name, file_type, file_role, file_size,
		 s3_bucket, s3_key, content_type, status, created_at, updated_at)
		VALUES (:id, :tenant_id, :uploaded_by, :file_name, :original_name, :file_type, :file_role, :file_size,
		 :s3_bucket, :s3_key, :content_type, :status, :created_at, :updated_at)`, meta)
	if err != nil {
		return fmt.Errorf("fileMetaRepo.Create: %w", err)
	}
	return nil
}

func (r *fileMetaRepo) GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.FileMeta, error) {
	var meta domain.FileMeta
	err := r.db.GetContext(ctx, &meta,
		"SELECT * FROM documents WHERE id = $1 AND tenant_id = $2 AND status != $3",
		fileID, tenantID, domain.FileStatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fileMetaRepo.GetByID: %w", err)
	}
	return &meta, nil
}

// ListByTenant lists live documents, newest first. An empty role lists both roles.
func (r *fileMetaRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, role domain.FileRole, offset, limit int) ([]domain.FileMeta, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM documents
		 WHERE tenant_id = $1 AND status != $2 AND ($3 = '' OR file_role = $3)`,
		tenantID, domain.FileStatusDeleted, role)
	if err != nil {
		return nil, 0, fmt.Errorf("fileMetaRepo.ListByTenant count: %w", err)
	}

	files := []domain.FileMeta{}
	err = r.db.SelectContext(ctx, &files,
		`SELECT * FROM documents
		 WHERE tenant_id = $1 AND status != $2 AND ($3 = '' OR file_role = $3)
		 ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		tenantID, domain.FileStatusDeleted, role, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("fileMetaRepo.ListByTenant: %w", err)
	}
	return files, total, nil
}

func (r *fileMetaRepo) UpdateStatus(ctx context.Context, tenantID, fileID uuid.UUID, status domain.FileStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = $1, updated_at = $2 WHERE id = $3 AND tenant_id = $4",
		status, time.Now().UTC(), fileID, tenantID)
	if err != nil {
		return fmt.Errorf("fileMetaRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete soft-deletes the row; the object is removed from storage by the caller.
func (r *fileMetaRepo) Delete(ctx context.Context, tenantID, fileID uuid.UUID) error {
	return r.UpdateStatus(ctx, tenantID, fileID, domain.FileStatusDeleted)
}
