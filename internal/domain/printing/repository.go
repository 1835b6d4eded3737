package printing

import (
	"context"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
)

// DocumentTypeRepository defines the interface for the document-type catalog
type DocumentTypeRepository interface {
	// FindByCode finds a document type by its unique code
	FindByCode(ctx context.Context, code string) (*DocumentType, error)

	// FindAll returns every document type ordered by sort order
	FindAll(ctx context.Context) ([]DocumentType, error)
}

// DocGroupRepository defines the interface for doc-group allocations
type DocGroupRepository interface {
	// FindByTransactionAndDocNo returns the group for the pair, shared.ErrNotFound if absent
	FindByTransactionAndDocNo(ctx context.Context, transactionID uint, docNo string) (*DocGroup, error)

	// MaxSeq returns the highest sequence used in the period, 0 if none
	MaxSeq(ctx context.Context, year, month int) (int, error)

	// Create inserts the group and sets its ID.
	// A unique-constraint violation is reported as shared.ErrAlreadyExists
	// and leaves the surrounding transaction usable.
	Create(ctx context.Context, group *DocGroup) error
}

// GeneratedDocumentRepository defines the interface for generated documents
type GeneratedDocumentRepository interface {
	// FindByKey returns the document for (group, type, language), shared.ErrNotFound if absent
	FindByKey(ctx context.Context, groupID, documentTypeID uint, lang shared.Language) (*GeneratedDocument, error)

	// Upsert inserts the document or overwrites the existing row with the same key.
	// The stored ID is written back to doc.
	Upsert(ctx context.Context, doc *GeneratedDocument) error

	// FindByGroup lists documents of a group
	FindByGroup(ctx context.Context, groupID uint) ([]GeneratedDocument, error)
}

// TransactionScope runs a unit of work in one database transaction.
// If fn returns an error the transaction is rolled back, otherwise committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories sharing one transaction
type TransactionalRepositories interface {
	Transactions() trade.TransactionRepository
	Settings() trade.SettingsRepository
	DocumentTypes() DocumentTypeRepository
	DocGroups() DocGroupRepository
	Documents() GeneratedDocumentRepository
}
