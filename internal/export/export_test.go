package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docassist/internal/domain"
	"docassist/internal/export"
	"docassist/internal/normalize"
)

func sampleRuns() []domain.ToolRun {
	created := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	return []domain.ToolRun{
		{
			ID:        uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Tool:      domain.ToolSummarize,
			RawResult: `{"output": "Point one\nPoint two"}`,
			ModelUsed: "claude-test",
			Status:    domain.ToolRunStatusCompleted,
			CreatedAt: created,
		},
		{
			ID:        uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Tool:      domain.ToolCrossDocLink,
			RawResult: `{"output": {"links": [{"a": 1}]}}`,
			Status:    domain.ToolRunStatusCompleted,
			CreatedAt: created,
		},
		{
			ID:        uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			Tool:      domain.ToolTranslateLocalize,
			Status:    domain.ToolRunStatusFailed,
			Error:     "rate limited",
			CreatedAt: created,
		},
	}
}

func TestNewRow(t *testing.T) {
	runs := sampleRuns()
	rows := export.Rows(runs)

	require.Len(t, rows, 3)
	assert.Equal(t, "Summary", rows[0].Title)
	assert.Equal(t, normalize.KindLines, rows[0].Kind)
	assert.Equal(t, "Point one\nPoint two", rows[0].Text)
	assert.Equal(t, normalize.KindStructured, rows[1].Kind)
	assert.Contains(t, rows[1].Text, `"links"`)
	assert.Equal(t, normalize.KindEmpty, rows[2].Kind)
	assert.Empty(t, rows[2].Text)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, export.Rows(sampleRuns())))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, export.BOM))

	records, err := csv.NewReader(bytes.NewReader(data[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "Run ID", records[0][0])
	assert.Equal(t, "Created At", records[0][len(records[0])-1])

	assert.Equal(t, "11111111-1111-1111-1111-111111111111", records[1][0])
	assert.Equal(t, "summarize", records[1][1])
	assert.Equal(t, "lines", records[1][4])
	assert.Equal(t, "Point one\nPoint two", records[1][5])
	assert.Equal(t, "claude-test", records[1][6])
	assert.Equal(t, "2026-03-04T10:30:00Z", records[1][8])

	assert.Equal(t, "failed", records[3][3])
	assert.Equal(t, "rate limited", records[3][7])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, export.Rows(sampleRuns())))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, "Tool Runs", f.GetSheetName(0))
	rows, err := f.GetRows("Tool Runs")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Run ID", rows[0][0])
	assert.Equal(t, "Summary", rows[1][2])
	assert.Equal(t, "Cross-document links", rows[2][2])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Tool Runs")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMarkdown(t *testing.T) {
	md := export.Markdown(export.Rows(sampleRuns()))

	assert.Contains(t, md, "## Summary")
	assert.Contains(t, md, "1. Point one\n2. Point two\n")
	assert.Contains(t, md, "```json\n{")
	assert.Contains(t, md, "> rate limited")
}

func TestWriteHTML(t *testing.T) {
	runs := sampleRuns()
	runs = append(runs, domain.ToolRun{
		ID:        uuid.New(),
		Tool:      domain.ToolSummarize,
		RawResult: "<script>alert(1)</script>",
		Status:    domain.ToolRunStatusCompleted,
	})

	var buf bytes.Buffer
	require.NoError(t, export.WriteHTML(&buf, export.Rows(runs), "Runs <Q3>"))

	out := buf.String()
	assert.Contains(t, out, "<title>Runs &lt;Q3&gt;</title>")
	assert.Contains(t, out, "<h2>Summary</h2>")
	assert.Contains(t, out, "<ol>")
	assert.Contains(t, out, "<li>Point one</li>")
	assert.Contains(t, out, `class="language-json"`)
	assert.NotContains(t, out, "<script>")
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, f)

	f, err = export.ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)

	_, err = export.ParseFormat("pdf")
	assert.Error(t, err)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "tool_runs_2026-01-02.csv", export.BuildFilename("tool runs", export.FormatCSV, now))
	assert.Equal(t, "export_2026-01-02.xlsx", export.BuildFilename("***", export.FormatXLSX, now))
	assert.Equal(t, "Q3_report_2026-01-02.html", export.BuildFilename("Q3 / report", export.FormatHTML, now))
}
