// Package export writes tool runs, with their normalized results, as CSV,
// XLSX or HTML.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"docassist/internal/domain"
	"docassist/internal/normalize"
	"docassist/internal/present"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// ParseFormat maps a query value to a Format. Blank means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

// columns defines the header row shared by CSV and XLSX.
var columns = []string{
	"Run ID",
	"Tool",
	"Title",
	"Status",
	"Result Kind",
	"Result",
	"Model Used",
	"Error",
	"Created At",
}

// Row is one tool run as it appears in an export.
type Row struct {
	RunID     string
	Tool      domain.ToolIdentifier
	Title     string
	Status    domain.ToolRunStatus
	Kind      normalize.Kind
	Text      string
	ModelUsed string
	Error     string
	CreatedAt time.Time

	model normalize.DisplayModel
}

// NewRow normalizes run's raw result the same way a view would show it.
func NewRow(run *domain.ToolRun) Row {
	model := normalize.Normalize(run.RawResult)
	return Row{
		RunID:     run.ID.String(),
		Tool:      run.Tool,
		Title:     present.Describe(run.Tool).Title,
		Status:    run.Status,
		Kind:      model.Kind(),
		Text:      normalize.Text(model),
		ModelUsed: run.ModelUsed,
		Error:     run.Error,
		CreatedAt: run.CreatedAt,
		model:     model,
	}
}

// Rows converts a batch of runs.
func Rows(runs []domain.ToolRun) []Row {
	rows := make([]Row, len(runs))
	for i := range runs {
		rows[i] = NewRow(&runs[i])
	}
	return rows
}

func (r Row) cells() []string {
	return []string{
		r.RunID,
		string(r.Tool),
		r.Title,
		string(r.Status),
		string(r.Kind),
		r.Text,
		r.ModelUsed,
		r.Error,
		formatTime(r.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "export"
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{format}.
func BuildFilename(name string, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), format)
}
