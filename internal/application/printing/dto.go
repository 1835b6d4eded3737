package printing

import (
	"time"

	domain "github.com/logiport/backend/internal/domain/printing"
)

// =============================================================================
// Render DTOs
// =============================================================================

// RenderRequest asks for one document of one transaction in one language
type RenderRequest struct {
	DocCode       string `json:"doc_code" binding:"required,doccode"`
	TransactionID uint   `json:"transaction_id" binding:"required"`
	Lang          string `json:"lang" binding:"omitempty,oneof=ar en tr"`
	ForceHTMLOnly bool   `json:"force_html_only"`
	// DocumentNo overrides the default {prefix}-{transaction_no}
	DocumentNo string `json:"document_no"`
}

// RenderResult describes the produced artifacts
type RenderResult struct {
	DocCode    string          `json:"doc_code"`
	Lang       string          `json:"lang"`
	DocumentNo string          `json:"document_no"`
	GroupID    uint            `json:"group_id"`
	DocumentID uint            `json:"document_id"`
	Seq        int             `json:"seq"`
	OutHTML    string          `json:"out_html"`
	OutPDF     string          `json:"out_pdf,omitempty"`
	Engine     string          `json:"engine,omitempty"`
	Attempts   []AttemptResult `json:"attempts"`
	Warnings   []string        `json:"warnings"`
	Archived   bool            `json:"archived"`
	RenderedAt time.Time       `json:"rendered_at"`
}

// AttemptResult is one PDF engine attempt
type AttemptResult struct {
	Engine  string `json:"engine"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func toAttemptResults(attempts []domain.RenderAttempt) []AttemptResult {
	out := make([]AttemptResult, len(attempts))
	for i, a := range attempts {
		out[i] = AttemptResult{Engine: a.Engine, Success: a.Success}
		if a.Err != nil {
			out[i].Error = a.Err.Error()
		}
	}
	return out
}

// DocumentTypeResponse is one document type with its localized title
type DocumentTypeResponse struct {
	Code      string   `json:"code"`
	Title     string   `json:"title"`
	GroupCode string   `json:"group_code,omitempty"`
	IsActive  bool     `json:"is_active"`
	SortOrder int      `json:"sort_order"`
	DocCodes  []string `json:"doc_codes"`
}

// =============================================================================
// Doc group DTOs
// =============================================================================

// AllocateDocNoRequest asks for the shared doc group of a transaction
type AllocateDocNoRequest struct {
	TransactionID uint   `json:"transaction_id" binding:"required"`
	Prefix        string `json:"prefix" binding:"max=16"`
}

// DocNoResponse is an allocated doc group
type DocNoResponse struct {
	GroupID    uint   `json:"group_id"`
	DocumentNo string `json:"document_no"`
	Seq        int    `json:"seq"`
}
