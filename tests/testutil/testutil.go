// Package testutil provides shared fixtures for package tests: an in-memory
// SQLite store with the full schema, trade data factories and gin helpers.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/logiport/backend/internal/infrastructure/persistence"
	"github.com/logiport/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestDB opens an in-memory SQLite database with every table migrated and
// the document-type catalog seeded. The single connection keeps the memory
// database alive for the whole test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	require.NoError(t, persistence.SeedDocumentTypes(context.Background(), db))
	return db
}

// CreateTransaction inserts a fully populated export transaction: a client, an
// exporter, an importer, a carrier, transport details and two item lines.
// An empty no leaves transaction_no NULL.
func CreateTransaction(t *testing.T, db *gorm.DB, no string) uint {
	t.Helper()

	syria := firstOrCreate(t, db, &models.CountryModel{Code: "SY",
		LocalizedNames: models.LocalizedNames{NameAR: "سوريا", NameEN: "Syria", NameTR: "Suriye"}})
	turkey := firstOrCreate(t, db, &models.CountryModel{Code: "TR",
		LocalizedNames: models.LocalizedNames{NameAR: "تركيا", NameEN: "Turkey", NameTR: "Türkiye"}})
	usd := firstOrCreate(t, db, &models.CurrencyModel{Code: "USD",
		LocalizedNames: models.LocalizedNames{NameAR: "دولار أمريكي", NameEN: "US Dollar", NameTR: "ABD Doları"}})
	fca := firstOrCreate(t, db, &models.DeliveryMethodModel{Code: "FCA",
		LocalizedNames: models.LocalizedNames{NameEN: "Free Carrier"}})
	wheat := firstOrCreate(t, db, &models.MaterialModel{Code: "1001.99",
		LocalizedNames: models.LocalizedNames{NameAR: "قمح", NameEN: "Wheat", NameTR: "Buğday"}})
	bags := firstOrCreate(t, db, &models.PackagingTypeModel{
		LocalizedNames: models.LocalizedNames{NameAR: "أكياس", NameEN: "Bags", NameTR: "Çuval"}})

	exporter := &models.CompanyModel{PartyColumns: models.PartyColumns{
		LocalizedNames: models.LocalizedNames{NameAR: "لوجيبورت", NameEN: "Logiport Trading", NameTR: "Logiport Ticaret"},
		AddressEN:      "Mersin Free Zone",
		CountryID:      &turkey.ID,
		TaxID:          "1234567890",
	}}
	require.NoError(t, db.Create(exporter).Error)
	importer := &models.CompanyModel{PartyColumns: models.PartyColumns{
		LocalizedNames: models.LocalizedNames{NameAR: "شركة الشام", NameEN: "Sham Co"},
		Address:        "Damascus",
		CountryID:      &syria.ID,
	}}
	require.NoError(t, db.Create(importer).Error)
	carrier := &models.CompanyModel{PartyColumns: models.PartyColumns{
		LocalizedNames: models.LocalizedNames{NameEN: "Anatolia Lines"},
		CountryID:      &turkey.ID,
	}}
	require.NoError(t, db.Create(carrier).Error)

	shipped := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	tx := &models.TransactionModel{
		TransactionNo:     nullableNo(no),
		TransactionDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		TransactionType:   "export",
		Status:            "active",
		ExporterCompanyID: &exporter.ID,
		ImporterCompanyID: &importer.ID,
		OriginCountryID:   &turkey.ID,
		DestCountryID:     &syria.ID,
		CurrencyID:        &usd.ID,
		DeliveryMethodID:  &fca.ID,
		TransportType:     "truck",
		TransportRef:      "34 ABC 123",
		Items: []models.TransactionItemModel{
			{
				MaterialID:      wheat.ID,
				PackagingTypeID: &bags.ID,
				Quantity:        decimal.NewFromInt(10),
				UnitLabel:       "ton",
				NetWeightKg:     decimal.NewFromInt(10000),
				GrossWeightKg:   decimal.NewFromInt(10100),
				UnitPrice:       decimal.RequireFromString("250.50"),
				OriginCountryID: &turkey.ID,
				BatchNo:         "B-1",
			},
			{
				MaterialID:      wheat.ID,
				PackagingTypeID: &bags.ID,
				Quantity:        decimal.NewFromInt(4),
				UnitLabel:       "ton",
				NetWeightKg:     decimal.NewFromInt(4000),
				GrossWeightKg:   decimal.NewFromInt(4040),
				UnitPrice:       decimal.NewFromInt(300),
				BatchNo:         "B-2",
			},
		},
		Transport: &models.TransportDetailModel{
			CarrierCompanyID: &carrier.ID,
			TruckPlate:       "34 ABC 123",
			DriverName:       "Ahmet Yilmaz",
			LoadingPlace:     "Mersin",
			DeliveryPlace:    "Damascus",
			ShipmentDate:     &shipped,
			CertificateNo:    "FA-77",
		},
	}
	require.NoError(t, db.Create(tx).Error)
	return tx.ID
}

// CreateBareTransaction inserts a transaction header with no parties or items
func CreateBareTransaction(t *testing.T, db *gorm.DB, no string) uint {
	t.Helper()
	tx := &models.TransactionModel{
		TransactionNo:   nullableNo(no),
		TransactionDate: time.Now(),
		TransactionType: "export",
	}
	require.NoError(t, db.Create(tx).Error)
	return tx.ID
}

// DeleteTransaction removes a transaction header by id
func DeleteTransaction(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	require.NoError(t, db.Delete(&models.TransactionModel{}, id).Error)
}

// SetSetting writes an app setting directly
func SetSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	require.NoError(t, persistence.NewGormSettingsRepository(db).Set(context.Background(), key, value))
}

// ContextWithTimeout creates a context with timeout for testing.
func ContextWithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

func nullableNo(no string) *string {
	if no == "" {
		return nil
	}
	return &no
}

func firstOrCreate[M any](t *testing.T, db *gorm.DB, m *M) *M {
	t.Helper()
	require.NoError(t, db.Where(m).FirstOrCreate(m).Error)
	return m
}
