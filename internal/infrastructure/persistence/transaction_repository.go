package persistence

import (
	"context"

	"github.com/logiport/backend/internal/domain/trade"
	"github.com/logiport/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// detailPreloads are the associations a document builder reads
var detailPreloads = []string{
	"Client.Country",
	"Exporter.Country",
	"Importer.Country",
	"Intermediary.Country",
	"OriginCountry",
	"DestCountry",
	"Currency",
	"DeliveryMethod",
	"Transport.Carrier.Country",
	"Items.Material",
	"Items.PackagingType",
	"Items.PricingType",
	"Items.OriginCountry",
}

// GormTransactionRepository implements trade.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormTransactionRepository) WithTx(tx *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: tx}
}

// FindByID finds a transaction header by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uint) (*trade.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindDetail loads the transaction with parties, items and transport details
func (r *GormTransactionRepository) FindDetail(ctx context.Context, id uint) (*trade.TransactionDetail, error) {
	query := r.db.WithContext(ctx)
	for _, p := range detailPreloads {
		query = query.Preload(p)
	}
	var model models.TransactionModel
	if err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("transaction_items.id ASC")
	}).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDetail(), nil
}

// ListNumbers returns every non-empty transaction number
func (r *GormTransactionRepository) ListNumbers(ctx context.Context) ([]string, error) {
	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("transaction_no IS NOT NULL AND transaction_no <> ''").
		Pluck("transaction_no", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

// ExistsNumber reports whether a transaction already uses no
func (r *GormTransactionRepository) ExistsNumber(ctx context.Context, no string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("transaction_no = ?", no).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormTransactionRepository implements trade.TransactionRepository
var _ trade.TransactionRepository = (*GormTransactionRepository)(nil)
