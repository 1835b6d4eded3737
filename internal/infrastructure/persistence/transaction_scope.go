package persistence

import (
	"context"

	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements printing.TransactionScope using GORM transactions.
// Numbering, doc-group allocation and document upserts run through it.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos printing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Transactions() trade.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Settings() trade.SettingsRepository {
	return NewGormSettingsRepository(r.tx)
}

func (r *gormTransactionalRepositories) DocumentTypes() printing.DocumentTypeRepository {
	return NewGormDocumentTypeRepository(r.tx)
}

func (r *gormTransactionalRepositories) DocGroups() printing.DocGroupRepository {
	return NewGormDocGroupRepository(r.tx)
}

func (r *gormTransactionalRepositories) Documents() printing.GeneratedDocumentRepository {
	return NewGormDocumentRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ printing.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ printing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
