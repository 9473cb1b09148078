package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docassist/internal/service"
)

// ViewHandler handles the preview/edit/copy lifecycle of an open result.
type ViewHandler struct {
	viewService service.ViewService
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(viewService service.ViewService) *ViewHandler {
	return &ViewHandler{viewService: viewService}
}

// RunRefRequest names a tool run.
type RunRefRequest struct {
	RunID string `json:"run_id" binding:"required,uuid"`
}

// PreviewRequest names the document to preview.
type PreviewRequest struct {
	Name string `json:"name" binding:"required"`
}

// DraftRequest carries the edited text.
type DraftRequest struct {
	Draft string `json:"draft"`
}

// Open handles POST /api/v1/views
func (h *ViewHandler) Open(c *gin.Context) {
	owner, ok := viewOwner(c)
	if !ok {
		return
	}
	var req RunRefRequest
	if !bindJSON(c, &req) {
		return
	}

	snap, err := h.viewService.Open(c.Request.Context(), owner, uuid.MustParse(req.RunID))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, snap)
}

// Get handles GET /api/v1/views/:id
func (h *ViewHandler) Get(c *gin.Context) {
	h.act(c, func(owner service.ViewOwner, id uuid.UUID) (*service.ViewSnapshot, error) {
		return h.viewService.Get(owner, id)
	})
}

// Replace handles POST /api/v1/views/:id/run
func (h *ViewHandler) Replace(c *gin.Context) {
	var req RunRefRequest
	h.actWithBody(c, &req, func(owner service.ViewOwner, id uuid.UUID) (*service.ViewSnapshot, error) {
		return h.viewService.Replace(c.Request.Context(), owner, id, uuid.MustParse(req.RunID))
	})
}

// Preview handles POST /api/v1/views/:id/preview
func (h *ViewHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	h.actWithBody(c, &req, func(owner service.ViewOwner, id uuid.UUID) (*service.ViewSnapshot, error) {
		return h.viewService.Preview(owner, id, req.Name)
	})
}

// ClosePreview handles DELETE /api/v1/views/:id/preview
func (h *ViewHandler) ClosePreview(c *gin.Context) {
	h.act(c, h.viewService.ClosePreview)
}

// StartEdit handles POST /api/v1/views/:id/edit
func (h *ViewHandler) StartEdit(c *gin.Context) {
	h.act(c, h.viewService.StartEdit)
}

// UpdateDraft handles PUT /api/v1/views/:id/edit
func (h *ViewHandler) UpdateDraft(c *gin.Context) {
	var req DraftRequest
	h.actWithBody(c, &req, func(owner service.ViewOwner, id uuid.UUID) (*service.ViewSnapshot, error) {
		return h.viewService.UpdateDraft(owner, id, req.Draft)
	})
}

// Save handles POST /api/v1/views/:id/edit/save
func (h *ViewHandler) Save(c *gin.Context) {
	h.act(c, h.viewService.Save)
}

// Cancel handles POST /api/v1/views/:id/edit/cancel
func (h *ViewHandler) Cancel(c *gin.Context) {
	h.act(c, h.viewService.Cancel)
}

// Copy handles POST /api/v1/views/:id/copy
func (h *ViewHandler) Copy(c *gin.Context) {
	owner, ok := viewOwner(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "view")
	if !ok {
		return
	}

	result, err := h.viewService.Copy(owner, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Close handles DELETE /api/v1/views/:id
func (h *ViewHandler) Close(c *gin.Context) {
	owner, ok := viewOwner(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "view")
	if !ok {
		return
	}

	if err := h.viewService.Close(owner, id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "view closed"})
}

type viewAction func(owner service.ViewOwner, id uuid.UUID) (*service.ViewSnapshot, error)

func (h *ViewHandler) act(c *gin.Context, fn viewAction) {
	owner, ok := viewOwner(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "view")
	if !ok {
		return
	}

	snap, err := fn(owner, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, snap)
}

func (h *ViewHandler) actWithBody(c *gin.Context, req interface{}, fn viewAction) {
	owner, ok := viewOwner(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "view")
	if !ok {
		return
	}
	if !bindJSON(c, req) {
		return
	}

	snap, err := fn(owner, id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, snap)
}
