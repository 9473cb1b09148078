package handler

import (
	"github.com/gin-gonic/gin"

	"docassist/internal/domain"
	"docassist/internal/normalize"
	"docassist/internal/present"
)

// NormalizeHandler exposes the normalizer and presenter without any stored state.
type NormalizeHandler struct {
	placeholder string
}

// NewNormalizeHandler creates a new NormalizeHandler. placeholder is shown for
// empty results when the request names none.
func NewNormalizeHandler(placeholder string) *NormalizeHandler {
	return &NormalizeHandler{placeholder: placeholder}
}

// NormalizeRequest is the body of POST /api/v1/normalize.
type NormalizeRequest struct {
	Raw         string `json:"raw"`
	Tool        string `json:"tool"`
	Placeholder string `json:"placeholder"`
}

// NormalizeResponse is the normalized result and how to present it.
type NormalizeResponse struct {
	Tool          domain.ToolIdentifier `json:"tool"`
	DisplayedText string                `json:"displayed_text"`
	Presentation  present.View          `json:"presentation"`
}

// Normalize handles POST /api/v1/normalize
func (h *NormalizeHandler) Normalize(c *gin.Context) {
	var req NormalizeRequest
	if !bindJSON(c, &req) {
		return
	}

	placeholder := req.Placeholder
	if placeholder == "" {
		placeholder = h.placeholder
	}

	tool := domain.ParseToolIdentifier(req.Tool)
	model := normalize.Normalize(req.Raw)
	RespondOK(c, NormalizeResponse{
		Tool:          tool,
		DisplayedText: normalize.Text(model),
		Presentation:  present.Present(model, tool, placeholder),
	})
}
