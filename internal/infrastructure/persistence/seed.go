package persistence

import (
	"context"

	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultDocumentTypes is the document-type catalog referenced by the default
// printing.Catalog's DocumentTypeCodes
func DefaultDocumentTypes() []printing.DocumentType {
	return []printing.DocumentType{
		{Code: "INV_NORMAL", GroupCode: "invoice", SortOrder: 10, TemplatePath: "invoices/normal",
			Names: shared.LocalizedText{AR: "فاتورة", EN: "Invoice", TR: "Fatura"}},
		{Code: "INV_EXT", GroupCode: "invoice", SortOrder: 20, TemplatePath: "invoices/commercial",
			Names: shared.LocalizedText{AR: "فاتورة تجارية", EN: "Commercial Invoice", TR: "Ticari Fatura"}},
		{Code: "INV_PROFORMA", GroupCode: "invoice", SortOrder: 30, TemplatePath: "invoices/proforma",
			Names: shared.LocalizedText{AR: "فاتورة أولية", EN: "Proforma Invoice", TR: "Ön Fatura"}},
		{Code: "INV_SY", GroupCode: "invoice", SortOrder: 40, TemplatePath: "invoices/syrian/transit",
			Names: shared.LocalizedText{AR: "فاتورة سورية", EN: "Syrian Invoice", TR: "Suriye Faturası"}},
		{Code: "INV_SYR_TRANS", GroupCode: "invoice", SortOrder: 41, TemplatePath: "invoices/syrian/transit",
			Names: shared.LocalizedText{AR: "فاتورة ترانزيت", EN: "Syrian Transit Invoice", TR: "Suriye Transit Faturası"}},
		{Code: "INV_SYR_INTERM", GroupCode: "invoice", SortOrder: 42, TemplatePath: "invoices/syrian/intermediary",
			Names: shared.LocalizedText{AR: "فاتورة وسيطة", EN: "Syrian Intermediary Invoice", TR: "Suriye Aracı Faturası"}},
		{Code: "invoice.syrian.entry", GroupCode: "invoice", SortOrder: 43, TemplatePath: "invoices/syrian/entry",
			Names: shared.LocalizedText{AR: "فاتورة إدخال", EN: "Syrian Entry Invoice", TR: "Suriye Giriş Faturası"}},
		{Code: "PL_EXPORT_SIMPLE", GroupCode: "packing_list", SortOrder: 50, TemplatePath: "packing_list/export/simple",
			Names: shared.LocalizedText{AR: "قائمة تعبئة", EN: "Packing List", TR: "Çeki Listesi"}},
		{Code: "PL_EXPORT_WITH_DATES", GroupCode: "packing_list", SortOrder: 51, TemplatePath: "packing_list/export/with_dates",
			Names: shared.LocalizedText{AR: "قائمة تعبئة مع التواريخ", EN: "Packing List (with dates)", TR: "Çeki Listesi (tarihli)"}},
		{Code: "PL_EXPORT_WITH_LINE_ID", GroupCode: "packing_list", SortOrder: 52, TemplatePath: "packing_list/export/with_line_id",
			Names: shared.LocalizedText{AR: "قائمة تعبئة مع رقم السطر", EN: "Packing List (with line id)", TR: "Çeki Listesi (satır no)"}},
		{Code: "cmr", GroupCode: "transport", SortOrder: 60, TemplatePath: "cmr",
			Names: shared.LocalizedText{AR: "سند شحن CMR", EN: "CMR Consignment Note", TR: "CMR Taşıma Senedi"}},
		{Code: "form_a", GroupCode: "certificate", SortOrder: 70, TemplatePath: "form_a",
			Names: shared.LocalizedText{AR: "شهادة منشأ فورم A", EN: "Certificate of Origin Form A", TR: "Menşe Şahadetnamesi Form A"}},
	}
}

// SeedDocumentTypes inserts the default document types, leaving existing codes untouched
func SeedDocumentTypes(ctx context.Context, db *gorm.DB) error {
	types := DefaultDocumentTypes()
	rows := make([]models.DocumentTypeModel, len(types))
	for i := range types {
		types[i].IsActive = true
		rows[i] = *models.DocumentTypeModelFromDomain(&types[i])
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&rows).Error
}
