package port

import (
	"context"

	"github.com/google/uuid"

	"docassist/internal/domain"
)

// FileMetaRepository persists document metadata.
// All query methods include tenantID for tenant isolation.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.FileMeta, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, role domain.FileRole, offset, limit int) ([]domain.FileMeta, int, error)
	UpdateStatus(ctx context.Context, tenantID, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, tenantID, fileID uuid.UUID) error
}

// ToolRunFilter narrows a tool run listing. Zero values match everything.
type ToolRunFilter struct {
	Tool           domain.ToolIdentifier
	OriginalFileID *uuid.UUID
}

// ToolRunRepository persists tool runs. Edits made in a view are never written here.
type ToolRunRepository interface {
	Create(ctx context.Context, run *domain.ToolRun) error
	GetByID(ctx context.Context, tenantID, runID uuid.UUID) (*domain.ToolRun, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ToolRunFilter, offset, limit int) ([]domain.ToolRun, int, error)
}
