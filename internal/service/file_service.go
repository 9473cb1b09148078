package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docassist/internal/config"
	"docassist/internal/domain"
	"docassist/internal/port"
)

// FileUploadInput is the DTO for file upload requests.
type FileUploadInput struct {
	TenantID   uuid.UUID
	UploadedBy uuid.UUID
	File       multipart.File
	Header     *multipart.FileHeader
}

// OutputInput describes a document produced by a tool run.
type OutputInput struct {
	TenantID  uuid.UUID
	CreatedBy uuid.UUID
	Original  *domain.FileMeta
	Tool      domain.ToolIdentifier
	Content   string
}

// FileService defines the document management contract.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error)
	StoreOutput(ctx context.Context, input OutputInput) (*domain.FileMeta, error)
	GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.FileMeta, error)
	List(ctx context.Context, tenantID uuid.UUID, role domain.FileRole, offset, limit int) ([]domain.FileMeta, int, error)
	Content(ctx context.Context, meta *domain.FileMeta) ([]byte, error)
	Ref(ctx context.Context, meta *domain.FileMeta) (domain.DocumentRef, error)
	Delete(ctx context.Context, tenantID, fileID uuid.UUID) error
}

type fileService struct {
	fileRepo port.FileMetaRepository
	storage  port.ObjectStorage
	cfg      *config.S3Config
	logger   *zap.Logger
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
	logger *zap.Logger,
) FileService {
	return &fileService{
		fileRepo: fileRepo,
		storage:  storage,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Sniff the first 512 bytes; the extension alone is not trusted.
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("fileService.Upload: reading file header: %w", err)
	}
	detected, ok := domain.AllowedContentTypes[http.DetectContentType(buf[:n])]
	if !ok || detected != fileType {
		return nil, domain.ErrUnsupportedFileType
	}

	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("fileService.Upload: seeking file: %w", err)
	}

	fileID := uuid.New()
	meta := &domain.FileMeta{
		ID:           fileID,
		TenantID:     input.TenantID,
		UploadedBy:   input.UploadedBy,
		FileName:     fileID.String() + "." + ext,
		OriginalName: input.Header.Filename,
		FileType:     fileType,
		FileRole:     domain.FileRoleOriginal,
		FileSize:     input.Header.Size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        objectKey(input.TenantID, fileID, input.Header.Filename),
		ContentType:  domain.AllowedFileTypes[fileType],
		Status:       domain.FileStatusPending,
	}

	s.logger.Info("fileService.Upload: uploading document",
		zap.String("name", meta.OriginalName),
		zap.String("content_type", meta.ContentType),
		zap.Int64("size", meta.FileSize),
		zap.Stringer("tenant_id", meta.TenantID),
		zap.Stringer("user_id", meta.UploadedBy))

	if err := s.put(ctx, meta, input.File); err != nil {
		return nil, err
	}
	return meta, nil
}

// StoreOutput saves a tool's raw result as a text document named after the original.
func (s *fileService) StoreOutput(ctx context.Context, input OutputInput) (*domain.FileMeta, error) {
	name := OutputName(input.Original.OriginalName, input.Tool)
	fileID := uuid.New()
	body := []byte(input.Content)

	meta := &domain.FileMeta{
		ID:           fileID,
		TenantID:     input.TenantID,
		UploadedBy:   input.CreatedBy,
		FileName:     fileID.String() + ".txt",
		OriginalName: name,
		FileType:     domain.FileTypeTXT,
		FileRole:     domain.FileRoleOutput,
		FileSize:     int64(len(body)),
		S3Bucket:     s.cfg.Bucket,
		S3Key:        objectKey(input.TenantID, fileID, name),
		ContentType:  domain.AllowedFileTypes[domain.FileTypeTXT],
		Status:       domain.FileStatusPending,
	}

	if err := s.put(ctx, meta, bytes.NewReader(body)); err != nil {
		return nil, err
	}
	return meta, nil
}

// put records meta as pending, uploads body and marks the row uploaded or failed.
func (s *fileService) put(ctx context.Context, meta *domain.FileMeta, body io.Reader) error {
	if err := s.fileRepo.Create(ctx, meta); err != nil {
		s.logger.Error("fileService.put: failed to create file metadata", zap.Error(err))
		return fmt.Errorf("creating file metadata: %w", err)
	}

	_, err := s.storage.Put(ctx, port.PutObjectInput{
		Key:         meta.S3Key,
		Body:        body,
		ContentType: meta.ContentType,
		Size:        meta.FileSize,
	})
	if err != nil {
		s.logger.Error("fileService.put: storage upload failed",
			zap.Stringer("file_id", meta.ID), zap.Error(err))
		_ = s.fileRepo.UpdateStatus(ctx, meta.TenantID, meta.ID, domain.FileStatusFailed)
		return domain.ErrUploadFailed
	}

	if err := s.fileRepo.UpdateStatus(ctx, meta.TenantID, meta.ID, domain.FileStatusUploaded); err != nil {
		return fmt.Errorf("updating file status: %w", err)
	}
	meta.Status = domain.FileStatusUploaded
	return nil
}

func (s *fileService) GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.FileMeta, error) {
	return s.fileRepo.GetByID(ctx, tenantID, fileID)
}

func (s *fileService) List(ctx context.Context, tenantID uuid.UUID, role domain.FileRole, offset, limit int) ([]domain.FileMeta, int, error) {
	return s.fileRepo.ListByTenant(ctx, tenantID, role, offset, limit)
}

func (s *fileService) Content(ctx context.Context, meta *domain.FileMeta) ([]byte, error) {
	if meta.Status != domain.FileStatusUploaded {
		return nil, domain.ErrNotFound
	}
	return s.storage.Get(ctx, meta.S3Key)
}

// Ref returns the viewable reference for meta, with a presigned URL.
func (s *fileService) Ref(ctx context.Context, meta *domain.FileMeta) (domain.DocumentRef, error) {
	url, err := s.storage.PresignGet(ctx, meta.S3Key, s.cfg.PresignExpiry)
	if err != nil {
		return domain.DocumentRef{}, fmt.Errorf("fileService.Ref: %w", err)
	}
	return domain.DocumentRef{Name: meta.OriginalName, URL: url}, nil
}

func (s *fileService) Delete(ctx context.Context, tenantID, fileID uuid.UUID) error {
	s.logger.Info("fileService.Delete: deleting document",
		zap.Stringer("file_id", fileID), zap.Stringer("tenant_id", tenantID))

	meta, err := s.fileRepo.GetByID(ctx, tenantID, fileID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, meta.S3Key); err != nil {
		s.logger.Error("fileService.Delete: storage delete failed", zap.Error(err))
		return fmt.Errorf("deleting from storage: %w", err)
	}

	return s.fileRepo.Delete(ctx, tenantID, fileID)
}

func objectKey(tenantID, fileID uuid.UUID, name string) string {
	return fmt.Sprintf("tenants/%s/files/%s/%s", tenantID, fileID, filepath.Base(name))
}

// OutputName derives the output document name from the original's:
// "report.pdf" run through summarize becomes "report.summarize.txt".
func OutputName(original string, tool domain.ToolIdentifier) string {
	stem := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if stem == "" || stem == "." {
		stem = "document"
	}
	return stem + "." + string(tool) + ".txt"
}
