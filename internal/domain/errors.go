package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")

	ErrUnsupportedTool   = errors.New("unsupported tool")
	ErrToolFailed        = errors.New("tool run failed")
	ErrToolRunNotFound   = errors.New("tool run not found")
	ErrViewNotFound      = errors.New("view not found")
	ErrNothingToEdit     = errors.New("nothing to edit")
	ErrNotEditing        = errors.New("no edit in progress")
	ErrEmptyDraft        = errors.New("draft is empty")
	ErrNothingToCopy     = errors.New("nothing to copy")
	ErrNoOutputPreviewed = errors.New("previewed document is not the tool output")
)
