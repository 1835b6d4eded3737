package printing

import (
	"strings"
	"time"

	"github.com/logiport/backend/internal/domain/shared"
)

// DocumentType is an entry of the document-type catalog
type DocumentType struct {
	ID           uint
	Code         string
	Names        shared.LocalizedText
	IsActive     bool
	GroupCode    string
	TemplatePath string
	SortOrder    int
}

// Title returns the localized display name, falling back to the code
func (t *DocumentType) Title(lang shared.Language) string {
	if title := t.Names.In(lang); title != "" {
		return title
	}
	return t.Code
}

// DocGroup is one sequence allocation for a (transaction, doc_no) pair.
// (Year, Month, Seq) is unique, and so is (TransactionID, DocNo).
type DocGroup struct {
	ID            uint
	TransactionID uint
	DocNo         string
	Year          int
	Month         int
	Seq           int
	CreatedAt     time.Time
}

// GeneratedDocument is the record of one rendered artifact.
// (GroupID, DocumentTypeID, Language) is unique; re-renders update the row.
type GeneratedDocument struct {
	ID             uint
	GroupID        uint
	DocumentTypeID uint
	Language       shared.Language
	Status         DocumentStatus
	FilePath       string
	Totals         map[string]any
	Data           map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TemplateSpec is a resolved template file
type TemplateSpec struct {
	DocCode string
	Lang    shared.Language
	// Path is relative to the templates root
	Path string
	// Extra is merged into the render context (e.g. a default title)
	Extra map[string]any
}

// RenderAttempt records one engine's try at producing a PDF
type RenderAttempt struct {
	Engine  string
	Success bool
	Err     error
}

var docNoSeparators = strings.NewReplacer("/", "-", "\\", "-")

// DocNo builds the default document number {prefix}-{transactionNo} with
// path separators in the transaction number replaced by dashes.
func DocNo(prefix, transactionNo string) string {
	return prefix + "-" + docNoSeparators.Replace(transactionNo)
}
