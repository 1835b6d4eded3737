package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDocumentRepository implements printing.GeneratedDocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByKey returns the document for (group, type, language)
func (r *GormDocumentRepository) FindByKey(ctx context.Context, groupID, documentTypeID uint, lang shared.Language) (*printing.GeneratedDocument, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND document_type_id = ? AND language = ?", groupID, documentTypeID, lang.String()).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Upsert inserts the document or overwrites status, path and payload of the
// existing row with the same key. The stored ID is written back to doc.
func (r *GormDocumentRepository) Upsert(ctx context.Context, doc *printing.GeneratedDocument) error {
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	model, err := models.DocumentModelFromDomain(doc)
	if err != nil {
		return fmt.Errorf("encode document payload: %w", err)
	}
	model.ID = 0

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "group_id"}, {Name: "document_type_id"}, {Name: "language"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "file_path", "totals_json", "data_json", "updated_at",
		}),
	}).Create(model).Error; err != nil {
		return translateError(err)
	}

	// the conflict path does not report the id on every driver
	stored, err := r.FindByKey(ctx, doc.GroupID, doc.DocumentTypeID, doc.Language)
	if err != nil {
		return err
	}
	doc.ID = stored.ID
	doc.CreatedAt = stored.CreatedAt
	return nil
}

// FindByGroup lists documents of a group
func (r *GormDocumentRepository) FindByGroup(ctx context.Context, groupID uint) ([]printing.GeneratedDocument, error) {
	var docModels []models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&docModels).Error; err != nil {
		return nil, err
	}
	docs := make([]printing.GeneratedDocument, len(docModels))
	for i := range docModels {
		docs[i] = *docModels[i].ToDomain()
	}
	return docs, nil
}

// Ensure GormDocumentRepository implements printing.GeneratedDocumentRepository
var _ printing.GeneratedDocumentRepository = (*GormDocumentRepository)(nil)
