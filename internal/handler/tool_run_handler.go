package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docassist/internal/domain"
	"docassist/internal/export"
	"docassist/internal/middleware"
	"docassist/internal/normalize"
	"docassist/internal/port"
	"docassist/internal/present"
	"docassist/internal/service"
)

// exportBatchSize is how many runs are fetched per page while exporting.
const exportBatchSize = 100

// ToolRunHandler handles AI tool run endpoints.
type ToolRunHandler struct {
	toolService service.ToolService
}

// NewToolRunHandler creates a new ToolRunHandler.
func NewToolRunHandler(toolService service.ToolService) *ToolRunHandler {
	return &ToolRunHandler{toolService: toolService}
}

// RunToolRequest is the body of POST /api/v1/tool-runs.
type RunToolRequest struct {
	FileID         string `json:"file_id" binding:"required,uuid"`
	Tool           string `json:"tool" binding:"required"`
	TargetLanguage string `json:"target_language"`
}

// ToolRunDetail is a run together with its normalized presentation.
type ToolRunDetail struct {
	Run          *domain.ToolRun     `json:"run"`
	Presentation present.View        `json:"presentation"`
	Pair         domain.DocumentPair `json:"pair"`
}

func (h *ToolRunHandler) detail(c *gin.Context, run *domain.ToolRun) (*ToolRunDetail, error) {
	pair, err := h.toolService.Pair(c.Request.Context(), run)
	if err != nil {
		return nil, err
	}
	return &ToolRunDetail{
		Run:          run,
		Presentation: present.Present(normalize.Normalize(run.RawResult), run.Tool, ""),
		Pair:         pair,
	}, nil
}

// Run handles POST /api/v1/tool-runs
func (h *ToolRunHandler) Run(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req RunToolRequest
	if !bindJSON(c, &req) {
		return
	}

	run, err := h.toolService.Run(c.Request.Context(), service.RunToolInput{
		TenantID:       tenantID,
		UserID:         userID,
		FileID:         uuid.MustParse(req.FileID),
		Tool:           domain.ParseToolIdentifier(req.Tool),
		TargetLanguage: req.TargetLanguage,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	d, err := h.detail(c, run)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, d)
}

// List handles GET /api/v1/tool-runs?tool=&original_file_id=
func (h *ToolRunHandler) List(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return
	}

	filter, ok := parseRunFilter(c)
	if !ok {
		return
	}

	offset, limit := paginate(c)
	runs, total, err := h.toolService.List(c.Request.Context(), tenantID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, runs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/tool-runs/:id
func (h *ToolRunHandler) GetByID(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return
	}
	runID, ok := parseID(c, "id", "tool run")
	if !ok {
		return
	}

	run, err := h.toolService.GetByID(c.Request.Context(), tenantID, runID)
	if err != nil {
		HandleError(c, err)
		return
	}

	d, err := h.detail(c, run)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, d)
}

// Export handles GET /api/v1/tool-runs/export?format=csv|xlsx|html
func (h *ToolRunHandler) Export(c *gin.Context) {
	tenantID, err := middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv, xlsx or html")
		return
	}
	filter, ok := parseRunFilter(c)
	if !ok {
		return
	}

	var runs []domain.ToolRun
	for offset := 0; ; offset += exportBatchSize {
		batch, total, err := h.toolService.List(c.Request.Context(), tenantID, filter, offset, exportBatchSize)
		if err != nil {
			HandleError(c, err)
			return
		}
		runs = append(runs, batch...)
		if len(batch) < exportBatchSize || len(runs) >= total {
			break
		}
	}
	rows := export.Rows(runs)

	var buf bytes.Buffer
	switch format {
	case export.FormatXLSX:
		err = export.WriteXLSX(&buf, rows)
	case export.FormatHTML:
		err = export.WriteHTML(&buf, rows, "Tool runs")
	default:
		err = export.WriteCSV(&buf, rows)
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("tool_runs", format, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func parseRunFilter(c *gin.Context) (port.ToolRunFilter, bool) {
	var filter port.ToolRunFilter
	if tool := c.Query("tool"); tool != "" {
		filter.Tool = domain.ParseToolIdentifier(tool)
	}
	if raw := c.Query("original_file_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid original_file_id")
			return filter, false
		}
		filter.OriginalFileID = &id
	}
	return filter, true
}
