package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileMeta holds metadata about a stored document.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TenantID     uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	UploadedBy   uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileRole     FileRole   `db:"file_role" json:"file_role"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ToolRun records one invocation of an AI tool against an original document.
// RawResult is stored verbatim; normalization happens on read.
type ToolRun struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	TenantID       uuid.UUID      `db:"tenant_id" json:"tenant_id"`
	Tool           ToolIdentifier `db:"tool" json:"tool"`
	OriginalFileID uuid.UUID      `db:"original_file_id" json:"original_file_id"`
	OutputFileID   *uuid.UUID     `db:"output_file_id" json:"output_file_id"`
	RawResult      string         `db:"raw_result" json:"raw_result"`
	ModelUsed      string         `db:"model_used" json:"model_used"`
	Status         ToolRunStatus  `db:"status" json:"status"`
	Error          string         `db:"error" json:"error,omitempty"`
	CreatedBy      uuid.UUID      `db:"created_by" json:"created_by"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// DocumentRef identifies a viewable file.
type DocumentRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DocumentPair groups an original document with the output a tool produced from it.
// Either side may be absent.
type DocumentPair struct {
	Original *DocumentRef `json:"original,omitempty"`
	Output   *DocumentRef `json:"output,omitempty"`
}
