package persistence

import (
	"context"

	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocumentTypeRepository implements printing.DocumentTypeRepository using GORM
type GormDocumentTypeRepository struct {
	db *gorm.DB
}

// NewGormDocumentTypeRepository creates a new GormDocumentTypeRepository
func NewGormDocumentTypeRepository(db *gorm.DB) *GormDocumentTypeRepository {
	return &GormDocumentTypeRepository{db: db}
}

// FindByCode finds a document type by its unique code
func (r *GormDocumentTypeRepository) FindByCode(ctx context.Context, code string) (*printing.DocumentType, error) {
	var model models.DocumentTypeModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns every document type ordered by sort order
func (r *GormDocumentTypeRepository) FindAll(ctx context.Context) ([]printing.DocumentType, error) {
	var typeModels []models.DocumentTypeModel
	if err := r.db.WithContext(ctx).Order("sort_order ASC, code ASC").Find(&typeModels).Error; err != nil {
		return nil, err
	}
	types := make([]printing.DocumentType, len(typeModels))
	for i := range typeModels {
		types[i] = *typeModels[i].ToDomain()
	}
	return types, nil
}

// Ensure GormDocumentTypeRepository implements printing.DocumentTypeRepository
var _ printing.DocumentTypeRepository = (*GormDocumentTypeRepository)(nil)
