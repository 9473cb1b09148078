package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docassist/internal/domain"
	"docassist/internal/export"
	"docassist/internal/handler"
	"docassist/internal/port"
	"docassist/internal/service"
	"docassist/mocks"
)

func TestToolRunHandler_Run_Success(t *testing.T) {
	mockTools := new(mocks.MockToolService)
	h := handler.NewToolRunHandler(mockTools)
	tenantID, userID, fileID := uuid.New(), uuid.New(), uuid.New()

	run := &domain.ToolRun{ID: uuid.New(), Tool: domain.ToolSummarize, RawResult: "first\nsecond", Status: domain.ToolRunStatusCompleted}
	mockTools.On("Run", mock.Anything, service.RunToolInput{
		TenantID: tenantID, UserID: userID, FileID: fileID, Tool: domain.ToolSummarize,
	}).Return(run, nil)
	mockTools.On("Pair", mock.Anything, run).Return(domain.DocumentPair{}, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/tool-runs", gin.H{"file_id": fileID.String(), "tool": "Summarize"})
	setAuthContext(c, tenantID, userID, "member")

	h.Run(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data handler.ToolRunDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Summary", resp.Data.Presentation.Descriptor.Title)
	assert.Equal(t, []string{"first", "second"}, resp.Data.Presentation.Block.Items)
	mockTools.AssertExpectations(t)
}

func TestToolRunHandler_Run_Validation(t *testing.T) {
	h := handler.NewToolRunHandler(new(mocks.MockToolService))

	c, w := newContext(t, http.MethodPost, "/api/v1/tool-runs", gin.H{"file_id": "not-a-uuid", "tool": "summarize"})
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.Run(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "fileid must be a UUID")
}

func TestToolRunHandler_Run_ToolFailed(t *testing.T) {
	mockTools := new(mocks.MockToolService)
	h := handler.NewToolRunHandler(mockTools)
	mockTools.On("Run", mock.Anything, mock.Anything).Return(&domain.ToolRun{}, domain.ErrToolFailed)

	c, w := newContext(t, http.MethodPost, "/api/v1/tool-runs", gin.H{"file_id": uuid.NewString(), "tool": "translate_localize"})
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.Run(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestToolRunHandler_GetByID_NotFound(t *testing.T) {
	mockTools := new(mocks.MockToolService)
	h := handler.NewToolRunHandler(mockTools)
	tenantID, runID := uuid.New(), uuid.New()
	mockTools.On("GetByID", mock.Anything, tenantID, runID).Return(nil, domain.ErrToolRunNotFound)

	c, w := newContext(t, http.MethodGet, "/", nil, gin.Param{Key: "id", Value: runID.String()})
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToolRunHandler_List_Filter(t *testing.T) {
	mockTools := new(mocks.MockToolService)
	h := handler.NewToolRunHandler(mockTools)
	tenantID, fileID := uuid.New(), uuid.New()

	mockTools.On("List", mock.Anything, tenantID, mock.MatchedBy(func(f port.ToolRunFilter) bool {
		return f.Tool == domain.ToolCrossDocLink && f.OriginalFileID != nil && *f.OriginalFileID == fileID
	}), 0, 20).Return([]domain.ToolRun{}, 0, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/tool-runs?tool=cross_doc_link&original_file_id="+fileID.String(), nil)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockTools.AssertExpectations(t)
}

func TestToolRunHandler_Export_CSV(t *testing.T) {
	mockTools := new(mocks.MockToolService)
	h := handler.NewToolRunHandler(mockTools)
	tenantID := uuid.New()

	runs := []domain.ToolRun{{ID: uuid.New(), Tool: domain.ToolSummarize, RawResult: "done", Status: domain.ToolRunStatusCompleted}}
	mockTools.On("List", mock.Anything, tenantID, port.ToolRunFilter{}, 0, 100).Return(runs, 1, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/tool-runs/export", nil)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "tool_runs_")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), export.BOM))
	assert.Contains(t, w.Body.String(), "done")
}

func TestToolRunHandler_Export_Pages(t *testing.T) {
	mockTools := new(mocks.MockToolService)
	h := handler.NewToolRunHandler(mockTools)
	tenantID := uuid.New()

	page := make([]domain.ToolRun, 100)
	for i := range page {
		page[i] = domain.ToolRun{ID: uuid.New(), Tool: domain.ToolSummarize, Status: domain.ToolRunStatusCompleted}
	}
	mockTools.On("List", mock.Anything, tenantID, port.ToolRunFilter{}, 0, 100).Return(page, 101, nil)
	mockTools.On("List", mock.Anything, tenantID, port.ToolRunFilter{}, 100, 100).
		Return([]domain.ToolRun{{ID: uuid.New(), Tool: domain.ToolSummarize}}, 101, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/tool-runs/export?format=html", nil)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 101, strings.Count(w.Body.String(), "<h2>"))
	mockTools.AssertExpectations(t)
}

func TestToolRunHandler_Export_BadFormat(t *testing.T) {
	h := handler.NewToolRunHandler(new(mocks.MockToolService))
	c, w := newContext(t, http.MethodGet, "/api/v1/tool-runs/export?format=pdf", nil)
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
