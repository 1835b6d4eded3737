package persistence

import (
	"context"
	"time"

	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocGroupRepository implements printing.DocGroupRepository using GORM
type GormDocGroupRepository struct {
	db *gorm.DB
}

// NewGormDocGroupRepository creates a new GormDocGroupRepository
func NewGormDocGroupRepository(db *gorm.DB) *GormDocGroupRepository {
	return &GormDocGroupRepository{db: db}
}

// FindByTransactionAndDocNo returns the group for the pair
func (r *GormDocGroupRepository) FindByTransactionAndDocNo(ctx context.Context, transactionID uint, docNo string) (*printing.DocGroup, error) {
	var model models.DocGroupModel
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ? AND doc_no = ?", transactionID, docNo).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// MaxSeq returns the highest sequence used in the period, 0 if none
func (r *GormDocGroupRepository) MaxSeq(ctx context.Context, year, month int) (int, error) {
	var maxSeq int
	if err := r.db.WithContext(ctx).
		Model(&models.DocGroupModel{}).
		Where("year = ? AND month = ?", year, month).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error; err != nil {
		return 0, err
	}
	return maxSeq, nil
}

// Create inserts the group inside a savepoint so that a unique violation
// rolls back only the insert and the caller can retry with another seq.
func (r *GormDocGroupRepository) Create(ctx context.Context, group *printing.DocGroup) error {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now()
	}
	model := models.DocGroupModelFromDomain(group)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return translateError(err)
	}
	group.ID = model.ID
	return nil
}

// Ensure GormDocGroupRepository implements printing.DocGroupRepository
var _ printing.DocGroupRepository = (*GormDocGroupRepository)(nil)
