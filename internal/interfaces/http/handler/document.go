package handler

import (
	"context"
	"maps"
	"slices"

	"github.com/gin-gonic/gin"
	printingapp "github.com/logiport/backend/internal/application/printing"
)

// DocumentService is the render facade used by DocumentHandler
type DocumentService interface {
	RenderDocument(ctx context.Context, req printingapp.RenderRequest) (*printingapp.RenderResult, error)
	AllocateDocNo(ctx context.Context, req printingapp.AllocateDocNoRequest) (*printingapp.DocNoResponse, error)
	DocumentTypes(ctx context.Context, lang string) ([]printingapp.DocumentTypeResponse, error)
	Engines() map[string]bool
}

// DocumentHandler handles document generation endpoints
type DocumentHandler struct {
	BaseHandler
	service DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// EngineStatus reports one PDF engine
// @name HandlerEngineStatus
type EngineStatus struct {
	Name      string `json:"name" example:"chromedp"`
	Available bool   `json:"available" example:"true"`
}

// Render godoc
// @ID           renderDocument
// @Summary      Render a trade document
// @Description  Builds the document context for a transaction, renders HTML and PDF and records the result.
// @Description  A PDF engine failure still returns 200 with the HTML path and the failed attempts.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-User-Roles header string false "Caller roles"
// @Param        request body printingapp.RenderRequest true "Render request"
// @Success      200 {object} APIResponse[printingapp.RenderResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /documents/render [post]
func (h *DocumentHandler) Render(c *gin.Context) {
	var req printingapp.RenderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.RenderDocument(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AllocateDocNo godoc
// @ID           allocateDocNo
// @Summary      Allocate a shared document number
// @Description  Reuses or creates the doc group {prefix}-{transaction_no} of a transaction
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        request body printingapp.AllocateDocNoRequest true "Allocation request"
// @Success      200 {object} APIResponse[printingapp.DocNoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /documents/groups [post]
func (h *DocumentHandler) AllocateDocNo(c *gin.Context) {
	var req printingapp.AllocateDocNoRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.AllocateDocNo(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListTypes godoc
// @ID           listDocumentTypes
// @Summary      List document types
// @Tags         documents
// @Produce      json
// @Param        lang query string false "Title language (ar, en, tr)"
// @Success      200 {object} APIResponse[[]printingapp.DocumentTypeResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /documents/types [get]
func (h *DocumentHandler) ListTypes(c *gin.Context) {
	types, err := h.service.DocumentTypes(c.Request.Context(), c.Query("lang"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, types)
}

// Engines godoc
// @ID           listPDFEngines
// @Summary      List PDF engines
// @Description  Reports the registered engines and whether each can run on this host
// @Tags         documents
// @Produce      json
// @Success      200 {object} APIResponse[[]EngineStatus]
// @Router       /documents/engines [get]
func (h *DocumentHandler) Engines(c *gin.Context) {
	engines := h.service.Engines()
	out := make([]EngineStatus, 0, len(engines))
	for _, name := range slices.Sorted(maps.Keys(engines)) {
		out = append(out, EngineStatus{Name: name, Available: engines[name]})
	}
	h.Success(c, out)
}
