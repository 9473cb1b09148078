package domain

import "strings"

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
	FileTypeTXT FileType = "txt"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
	FileTypeTXT: "text/plain",
}

// AllowedContentTypes maps detected MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf":           FileTypePDF,
	"image/jpeg":                FileTypeJPG,
	"image/png":                 FileTypePNG,
	"text/plain; charset=utf-8": FileTypeTXT,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"txt":  FileTypeTXT,
}

// UserRole defines the role hierarchy within a tenant.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// FileStatus represents the lifecycle of a stored file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// FileRole distinguishes user uploads from files produced by a tool run.
type FileRole string

const (
	FileRoleOriginal FileRole = "original"
	FileRoleOutput   FileRole = "output"
)

// ToolIdentifier names the AI capability that produced a result.
type ToolIdentifier string

const (
	ToolSummarize         ToolIdentifier = "summarize"
	ToolCrossDocLink      ToolIdentifier = "cross_doc_link"
	ToolTranslateLocalize ToolIdentifier = "translate_localize"
	ToolUnknown           ToolIdentifier = "unknown"
)

// RunnableTools lists the tools a user can invoke. Unknown is display-only.
var RunnableTools = map[ToolIdentifier]bool{
	ToolSummarize:         true,
	ToolCrossDocLink:      true,
	ToolTranslateLocalize: true,
}

// ParseToolIdentifier maps a free-form label to a ToolIdentifier.
// Empty and unrecognized labels map to ToolUnknown.
func ParseToolIdentifier(s string) ToolIdentifier {
	switch ToolIdentifier(strings.ToLower(strings.TrimSpace(s))) {
	case ToolSummarize:
		return ToolSummarize
	case ToolCrossDocLink:
		return ToolCrossDocLink
	case ToolTranslateLocalize:
		return ToolTranslateLocalize
	default:
		return ToolUnknown
	}
}

// ToolRunStatus represents the outcome of a tool run.
type ToolRunStatus string

const (
	ToolRunStatusCompleted ToolRunStatus = "completed"
	ToolRunStatusFailed    ToolRunStatus = "failed"
)
