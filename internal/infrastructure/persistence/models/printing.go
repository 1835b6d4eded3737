package models

import (
	"encoding/json"
	"time"

	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// AppSettingModel is the GORM model for app_settings table
type AppSettingModel struct {
	Key       string    `gorm:"column:key;type:varchar(100);primaryKey"`
	Value     string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for AppSettingModel
func (AppSettingModel) TableName() string {
	return "app_settings"
}

// DocumentTypeModel is the GORM model for document_types table
type DocumentTypeModel struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"type:varchar(50);not null;uniqueIndex"`
	LocalizedNames
	IsActive     bool   `gorm:"column:is_active;not null;default:true"`
	GroupCode    string `gorm:"type:varchar(50)"`
	TemplatePath string `gorm:"type:varchar(255)"`
	SortOrder    int    `gorm:"not null;default:0"`
}

// TableName returns the table name for DocumentTypeModel
func (DocumentTypeModel) TableName() string {
	return "document_types"
}

// ToDomain converts DocumentTypeModel to domain DocumentType
func (m *DocumentTypeModel) ToDomain() *printing.DocumentType {
	return &printing.DocumentType{
		ID:           m.ID,
		Code:         m.Code,
		Names:        m.LocalizedNames.ToDomain(),
		IsActive:     m.IsActive,
		GroupCode:    m.GroupCode,
		TemplatePath: m.TemplatePath,
		SortOrder:    m.SortOrder,
	}
}

// DocumentTypeModelFromDomain creates a DocumentTypeModel from domain DocumentType
func DocumentTypeModelFromDomain(t *printing.DocumentType) *DocumentTypeModel {
	return &DocumentTypeModel{
		ID:             t.ID,
		Code:           t.Code,
		LocalizedNames: LocalizedNamesFromDomain(t.Names),
		IsActive:       t.IsActive,
		GroupCode:      t.GroupCode,
		TemplatePath:   t.TemplatePath,
		SortOrder:      t.SortOrder,
	}
}

// DocGroupModel is the GORM model for doc_groups table
type DocGroupModel struct {
	ID            uint      `gorm:"primaryKey"`
	TransactionID uint      `gorm:"not null;uniqueIndex:uq_doc_groups_tx_doc_no,priority:1"`
	DocNo         string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_doc_groups_tx_doc_no,priority:2"`
	Year          int       `gorm:"not null;uniqueIndex:uq_doc_groups_period_seq,priority:1"`
	Month         int       `gorm:"not null;uniqueIndex:uq_doc_groups_period_seq,priority:2"`
	Seq           int       `gorm:"not null;uniqueIndex:uq_doc_groups_period_seq,priority:3"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for DocGroupModel
func (DocGroupModel) TableName() string {
	return "doc_groups"
}

// ToDomain converts DocGroupModel to domain DocGroup
func (m *DocGroupModel) ToDomain() *printing.DocGroup {
	return &printing.DocGroup{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		DocNo:         m.DocNo,
		Year:          m.Year,
		Month:         m.Month,
		Seq:           m.Seq,
		CreatedAt:     m.CreatedAt,
	}
}

// DocGroupModelFromDomain creates a DocGroupModel from domain DocGroup
func DocGroupModelFromDomain(g *printing.DocGroup) *DocGroupModel {
	return &DocGroupModel{
		ID:            g.ID,
		TransactionID: g.TransactionID,
		DocNo:         g.DocNo,
		Year:          g.Year,
		Month:         g.Month,
		Seq:           g.Seq,
		CreatedAt:     g.CreatedAt,
	}
}

// DocumentModel is the GORM model for documents table
type DocumentModel struct {
	ID             uint           `gorm:"primaryKey"`
	GroupID        uint           `gorm:"not null;uniqueIndex:uq_documents_key,priority:1"`
	DocumentTypeID uint           `gorm:"not null;uniqueIndex:uq_documents_key,priority:2"`
	Language       string         `gorm:"type:varchar(2);not null;uniqueIndex:uq_documents_key,priority:3"`
	Status         string         `gorm:"type:varchar(20);not null;default:'draft'"`
	FilePath       string         `gorm:"type:text"`
	TotalsJSON     datatypes.JSON `gorm:"column:totals_json"`
	DataJSON       datatypes.JSON `gorm:"column:data_json"`
	CreatedAt      time.Time      `gorm:"not null"`
	UpdatedAt      time.Time      `gorm:"not null"`
}

// TableName returns the table name for DocumentModel
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts DocumentModel to domain GeneratedDocument.
// Undecodable JSON columns come back as nil maps.
func (m *DocumentModel) ToDomain() *printing.GeneratedDocument {
	return &printing.GeneratedDocument{
		ID:             m.ID,
		GroupID:        m.GroupID,
		DocumentTypeID: m.DocumentTypeID,
		Language:       shared.Language(m.Language),
		Status:         printing.DocumentStatus(m.Status),
		FilePath:       m.FilePath,
		Totals:         decodeJSONMap(m.TotalsJSON),
		Data:           decodeJSONMap(m.DataJSON),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// DocumentModelFromDomain creates a DocumentModel from domain GeneratedDocument
func DocumentModelFromDomain(d *printing.GeneratedDocument) (*DocumentModel, error) {
	totals, err := encodeJSONMap(d.Totals)
	if err != nil {
		return nil, err
	}
	data, err := encodeJSONMap(d.Data)
	if err != nil {
		return nil, err
	}
	return &DocumentModel{
		ID:             d.ID,
		GroupID:        d.GroupID,
		DocumentTypeID: d.DocumentTypeID,
		Language:       d.Language.String(),
		Status:         d.Status.String(),
		FilePath:       d.FilePath,
		TotalsJSON:     totals,
		DataJSON:       data,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func encodeJSONMap(m map[string]any) (datatypes.JSON, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func decodeJSONMap(raw datatypes.JSON) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// AllModels returns every model in dependency order for AutoMigrate
func AllModels() []any {
	return []any{
		&CountryModel{},
		&CompanyModel{},
		&ClientModel{},
		&CurrencyModel{},
		&DeliveryMethodModel{},
		&MaterialModel{},
		&PackagingTypeModel{},
		&PricingTypeModel{},
		&TransactionModel{},
		&TransactionItemModel{},
		&TransportDetailModel{},
		&AppSettingModel{},
		&DocumentTypeModel{},
		&DocGroupModel{},
		&DocumentModel{},
	}
}
