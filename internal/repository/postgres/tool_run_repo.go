package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docassist/internal/domain"
	"docassist/internal/port"
)

type toolRunRepo struct {
	db *sqlx.DB
}

// NewToolRunRepo creates a PostgreSQL-backed ToolRunRepository.
func NewToolRunRepo(db *sqlx.DB) port.ToolRunRepository {
	return &toolRunRepo{db: db}
}

func (r *toolRunRepo) Create(ctx context.Context, run *domain.ToolRun) error {
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, `INSERT INTO tool_runs
		(id, tenant_id, tool, original_file_id, output_file_id, raw_result, model_used,
		 status, error, created_by, created_at, updated_at)
		VALUES (:id, :tenant_id, :tool, :original_file_id, :output_file_id, :raw_result, :model_used,
		 :status, :error, :created_by, :created_at, :updated_at)`, run)
	if err != nil {
		return fmt.Errorf("toolRunRepo.Create: %w", err)
	}
	return nil
}

func (r *toolRunRepo) GetByID(ctx context.Context, tenantID, runID uuid.UUID) (*domain.ToolRun, error) {
	var run domain.ToolRun
	err := r.db.GetContext(ctx, &run,
		"SELECT * FROM tool_runs WHERE id = $1 AND tenant_id = $2", runID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrToolRunNotFound
		}
		return nil, fmt.Errorf("toolRunRepo.GetByID: %w", err)
	}
	return &run, nil
}

func (r *toolRunRepo) List(ctx context.Context, tenantID uuid.UUID, filter port.ToolRunFilter, offset, limit int) ([]domain.ToolRun, int, error) {
	where, args := toolRunWhere(tenantID, filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM tool_runs WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("toolRunRepo.List count: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM tool_runs WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	runs := []domain.ToolRun{}
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("toolRunRepo.List: %w", err)
	}
	return runs, total, nil
}

func toolRunWhere(tenantID uuid.UUID, filter port.ToolRunFilter) (string, []interface{}) {
	clauses := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}

	if filter.Tool != "" {
		args = append(args, filter.Tool)
		clauses = append(clauses, fmt.Sprintf("tool = $%d", len(args)))
	}
	if filter.OriginalFileID != nil {
		args = append(args, *filter.OriginalFileID)
		clauses = append(clauses, fmt.Sprintf("original_file_id = $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}
