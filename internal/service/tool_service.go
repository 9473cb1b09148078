package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docassist/internal/domain"
	"docassist/internal/port"
)

// RunToolInput is the DTO for starting a tool run.
type RunToolInput struct {
	TenantID       uuid.UUID
	UserID         uuid.UUID
	FileID         uuid.UUID
	Tool           domain.ToolIdentifier
	TargetLanguage string
}

// ToolService runs AI tools against stored documents and keeps their raw results.
type ToolService interface {
	Run(ctx context.Context, input RunToolInput) (*domain.ToolRun, error)
	GetByID(ctx context.Context, tenantID, runID uuid.UUID) (*domain.ToolRun, error)
	List(ctx context.Context, tenantID uuid.UUID, filter port.ToolRunFilter, offset, limit int) ([]domain.ToolRun, int, error)
	Pair(ctx context.Context, run *domain.ToolRun) (domain.DocumentPair, error)
}

type toolService struct {
	runRepo port.ToolRunRepository
	files   FileService
	runner  port.ToolRunner
	logger  *zap.Logger
}

// NewToolService creates a new ToolService implementation.
func NewToolService(
	runRepo port.ToolRunRepository,
	files FileService,
	runner port.ToolRunner,
	logger *zap.Logger,
) ToolService {
	return &toolService{
		runRepo: runRepo,
		files:   files,
		runner:  runner,
		logger:  logger,
	}
}

// Run invokes the tool and records the outcome. A failed provider call is
// still recorded, as a failed run, and reported with domain.ErrToolFailed.
func (s *toolService) Run(ctx context.Context, input RunToolInput) (*domain.ToolRun, error) {
	if !domain.RunnableTools[input.Tool] {
		return nil, domain.ErrUnsupportedTool
	}

	original, err := s.files.GetByID(ctx, input.TenantID, input.FileID)
	if err != nil {
		return nil, err
	}
	if original.FileRole != domain.FileRoleOriginal {
		return nil, fmt.Errorf("%w: tools run on original documents only", domain.ErrUnsupportedFileType)
	}

	content, err := s.files.Content(ctx, original)
	if err != nil {
		return nil, fmt.Errorf("toolService.Run: loading document: %w", err)
	}

	run := &domain.ToolRun{
		ID:             uuid.New(),
		TenantID:       input.TenantID,
		Tool:           input.Tool,
		OriginalFileID: original.ID,
		CreatedBy:      input.UserID,
	}

	log := s.logger.With(
		zap.Stringer("run_id", run.ID),
		zap.String("tool", string(input.Tool)),
		zap.Stringer("file_id", original.ID))
	log.Info("toolService.Run: invoking tool")

	out, runErr := s.runner.Run(ctx, port.ToolInput{
		Tool:           input.Tool,
		FileName:       original.OriginalName,
		FileBytes:      content,
		ContentType:    original.ContentType,
		TargetLanguage: input.TargetLanguage,
	})
	if runErr != nil {
		log.Warn("toolService.Run: tool failed", zap.Error(runErr))
		run.Status = domain.ToolRunStatusFailed
		run.Error = runErr.Error()
		if err := s.runRepo.Create(ctx, run); err != nil {
			log.Error("toolService.Run: failed to record failed run", zap.Error(err))
		}
		return run, fmt.Errorf("%w: %w", domain.ErrToolFailed, runErr)
	}

	run.Status = domain.ToolRunStatusCompleted
	run.RawResult = out.RawResult
	run.ModelUsed = out.ModelUsed

	output, err := s.files.StoreOutput(ctx, OutputInput{
		TenantID:  input.TenantID,
		CreatedBy: input.UserID,
		Original:  original,
		Tool:      input.Tool,
		Content:   out.RawResult,
	})
	if err != nil {
		// The raw result is still kept on the run; only the output document is missing.
		log.Warn("toolService.Run: storing output document failed", zap.Error(err))
	} else {
		run.OutputFileID = &output.ID
	}

	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("toolService.Run: recording run: %w", err)
	}

	log.Info("toolService.Run: tool completed",
		zap.String("model", run.ModelUsed), zap.Int("result_bytes", len(run.RawResult)))
	return run, nil
}

func (s *toolService) GetByID(ctx context.Context, tenantID, runID uuid.UUID) (*domain.ToolRun, error) {
	return s.runRepo.GetByID(ctx, tenantID, runID)
}

func (s *toolService) List(ctx context.Context, tenantID uuid.UUID, filter port.ToolRunFilter, offset, limit int) ([]domain.ToolRun, int, error) {
	return s.runRepo.List(ctx, tenantID, filter, offset, limit)
}

// Pair resolves the original and output documents of run. A side whose
// document is gone is left empty.
func (s *toolService) Pair(ctx context.Context, run *domain.ToolRun) (domain.DocumentPair, error) {
	var pair domain.DocumentPair

	original, err := s.ref(ctx, run.TenantID, run.OriginalFileID)
	if err != nil {
		return pair, err
	}
	pair.Original = original

	if run.OutputFileID != nil {
		output, err := s.ref(ctx, run.TenantID, *run.OutputFileID)
		if err != nil {
			return pair, err
		}
		pair.Output = output
	}
	return pair, nil
}

func (s *toolService) ref(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.DocumentRef, error) {
	meta, err := s.files.GetByID(ctx, tenantID, fileID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ref, err := s.files.Ref(ctx, meta)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
