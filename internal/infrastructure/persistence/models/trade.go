package models

import (
	"time"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CountryModel is the GORM model for countries table
type CountryModel struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"type:varchar(8);index"`
	LocalizedNames
}

// TableName returns the table name for CountryModel
func (CountryModel) TableName() string {
	return "countries"
}

// ToDomain converts CountryModel to domain Country
func (m *CountryModel) ToDomain() *trade.Country {
	if m == nil {
		return nil
	}
	return &trade.Country{ID: m.ID, Code: m.Code, Names: m.LocalizedNames.ToDomain()}
}

// PartyColumns holds the columns shared by companies and clients
type PartyColumns struct {
	LocalizedNames
	AddressAR          string        `gorm:"column:address_ar;type:text"`
	AddressEN          string        `gorm:"column:address_en;type:text"`
	AddressTR          string        `gorm:"column:address_tr;type:text"`
	Address            string        `gorm:"type:text"`
	City               string        `gorm:"type:varchar(100)"`
	CountryID          *uint         `gorm:"index"`
	Country            *CountryModel `gorm:"foreignKey:CountryID"`
	Phone              string        `gorm:"type:varchar(50)"`
	Email              string        `gorm:"type:varchar(255)"`
	Website            string        `gorm:"type:varchar(255)"`
	TaxID              string        `gorm:"column:tax_id;type:varchar(50)"`
	RegistrationNumber string        `gorm:"type:varchar(50)"`
	BankInfo           string        `gorm:"type:text"`
}

func (p *PartyColumns) toDomain(id uint) *trade.Party {
	return &trade.Party{
		ID:                 id,
		Names:              p.LocalizedNames.ToDomain(),
		Addresses:          shared.LocalizedText{AR: p.AddressAR, EN: p.AddressEN, TR: p.AddressTR},
		Address:            p.Address,
		City:               p.City,
		Country:            p.Country.ToDomain(),
		Phone:              p.Phone,
		Email:              p.Email,
		Website:            p.Website,
		TaxID:              p.TaxID,
		RegistrationNumber: p.RegistrationNumber,
		BankInfo:           p.BankInfo,
	}
}

// CompanyModel is the GORM model for companies table
type CompanyModel struct {
	ID uint `gorm:"primaryKey"`
	PartyColumns
}

// TableName returns the table name for CompanyModel
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts CompanyModel to domain Party
func (m *CompanyModel) ToDomain() *trade.Party {
	if m == nil {
		return nil
	}
	return m.PartyColumns.toDomain(m.ID)
}

// ClientModel is the GORM model for clients table
type ClientModel struct {
	ID uint `gorm:"primaryKey"`
	PartyColumns
}

// TableName returns the table name for ClientModel
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts ClientModel to domain Party
func (m *ClientModel) ToDomain() *trade.Party {
	if m == nil {
		return nil
	}
	return m.PartyColumns.toDomain(m.ID)
}

// CurrencyModel is the GORM model for currencies table
type CurrencyModel struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"type:varchar(8);uniqueIndex"`
	LocalizedNames
}

// TableName returns the table name for CurrencyModel
func (CurrencyModel) TableName() string {
	return "currencies"
}

// DeliveryMethodModel is the GORM model for delivery_methods table
type DeliveryMethodModel struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"type:varchar(20)"`
	LocalizedNames
}

// TableName returns the table name for DeliveryMethodModel
func (DeliveryMethodModel) TableName() string {
	return "delivery_methods"
}

// MaterialModel is the GORM model for materials table. Code doubles as HS code.
type MaterialModel struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"type:varchar(50)"`
	LocalizedNames
}

// TableName returns the table name for MaterialModel
func (MaterialModel) TableName() string {
	return "materials"
}

// PackagingTypeModel is the GORM model for packaging_types table
type PackagingTypeModel struct {
	ID uint `gorm:"primaryKey"`
	LocalizedNames
}

// TableName returns the table name for PackagingTypeModel
func (PackagingTypeModel) TableName() string {
	return "packaging_types"
}

// PricingTypeModel is the GORM model for pricing_types table
type PricingTypeModel struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"type:varchar(20)"`
	LocalizedNames
}

// TableName returns the table name for PricingTypeModel
func (PricingTypeModel) TableName() string {
	return "pricing_types"
}

// TransactionModel is the GORM model for transactions table
type TransactionModel struct {
	ID                uint                 `gorm:"primaryKey"`
	TransactionNo     *string              `gorm:"column:transaction_no;type:varchar(32);uniqueIndex"`
	TransactionDate   time.Time            `gorm:"not null"`
	TransactionType   string               `gorm:"type:varchar(20)"`
	Status            string               `gorm:"type:varchar(20);default:'draft'"`
	ClientID          *uint                `gorm:"index"`
	Client            *ClientModel         `gorm:"foreignKey:ClientID"`
	ExporterCompanyID *uint                `gorm:"index"`
	Exporter          *CompanyModel        `gorm:"foreignKey:ExporterCompanyID"`
	ImporterCompanyID *uint                `gorm:"index"`
	Importer          *CompanyModel        `gorm:"foreignKey:ImporterCompanyID"`
	OriginCountryID   *uint                `gorm:"index"`
	OriginCountry     *CountryModel        `gorm:"foreignKey:OriginCountryID"`
	DestCountryID     *uint                `gorm:"index"`
	DestCountry       *CountryModel        `gorm:"foreignKey:DestCountryID"`
	CurrencyID        *uint                `gorm:"index"`
	Currency          *CurrencyModel       `gorm:"foreignKey:CurrencyID"`
	DeliveryMethodID  *uint                `gorm:"index"`
	DeliveryMethod    *DeliveryMethodModel `gorm:"foreignKey:DeliveryMethodID"`
	TransportType     string               `gorm:"type:varchar(20)"`
	TransportRef      string               `gorm:"type:varchar(100)"`
	Notes             string               `gorm:"type:text"`

	// Intermediary invoice used by the Syrian transit intermediary documents
	IntermediaryInvoiceNo   string        `gorm:"type:varchar(50)"`
	IntermediaryInvoiceDate *time.Time
	IntermediaryCompanyID   *uint         `gorm:"index"`
	Intermediary            *CompanyModel `gorm:"foreignKey:IntermediaryCompanyID"`

	Items     []TransactionItemModel `gorm:"foreignKey:TransactionID"`
	Transport *TransportDetailModel  `gorm:"foreignKey:TransactionID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for TransactionModel
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts TransactionModel to domain Transaction
func (m *TransactionModel) ToDomain() *trade.Transaction {
	t := &trade.Transaction{
		ID:              m.ID,
		TransactionDate: m.TransactionDate,
		TransactionType: m.TransactionType,
		Status:          m.Status,
	}
	if m.TransactionNo != nil {
		t.TransactionNo = *m.TransactionNo
	}
	return t
}

// ToDetail converts a fully preloaded TransactionModel to the builder read model
func (m *TransactionModel) ToDetail() *trade.TransactionDetail {
	d := &trade.TransactionDetail{
		Transaction:   *m.ToDomain(),
		Client:        m.Client.ToDomain(),
		Exporter:      m.Exporter.ToDomain(),
		Importer:      m.Importer.ToDomain(),
		OriginCountry: m.OriginCountry.ToDomain(),
		DestCountry:   m.DestCountry.ToDomain(),
		TransportType: m.TransportType,
		TransportRef:  m.TransportRef,
		Notes:         m.Notes,
		Transport:     m.Transport.ToDomain(),
		Items:         make([]trade.Item, len(m.Items)),
	}
	if m.IntermediaryInvoiceNo != "" || m.Intermediary != nil {
		d.Intermediary = &trade.Intermediary{
			InvoiceNo:   m.IntermediaryInvoiceNo,
			InvoiceDate: m.IntermediaryInvoiceDate,
			Supplier:    m.Intermediary.ToDomain(),
		}
	}
	if m.Currency != nil {
		d.Currency = &trade.Currency{ID: m.Currency.ID, Code: m.Currency.Code, Names: m.Currency.LocalizedNames.ToDomain()}
	}
	if m.DeliveryMethod != nil {
		d.DeliveryMethod = &trade.DeliveryMethod{
			ID:    m.DeliveryMethod.ID,
			Code:  m.DeliveryMethod.Code,
			Names: m.DeliveryMethod.LocalizedNames.ToDomain(),
		}
	}
	for i := range m.Items {
		d.Items[i] = m.Items[i].ToDomain()
	}
	return d
}

// TransactionItemModel is the GORM model for transaction_items table
type TransactionItemModel struct {
	ID                uint                `gorm:"primaryKey"`
	TransactionID     uint                `gorm:"not null;index"`
	EntryItemID       *uint               `gorm:"index"`
	MaterialID        uint                `gorm:"not null;index"`
	Material          *MaterialModel      `gorm:"foreignKey:MaterialID"`
	PackagingTypeID   *uint               `gorm:"index"`
	PackagingType     *PackagingTypeModel `gorm:"foreignKey:PackagingTypeID"`
	PricingTypeID     *uint               `gorm:"index"`
	PricingType       *PricingTypeModel   `gorm:"foreignKey:PricingTypeID"`
	Quantity          decimal.Decimal     `gorm:"type:decimal(18,3);not null;default:0"`
	UnitLabel         string              `gorm:"type:varchar(20)"`
	NetWeightKg       decimal.Decimal     `gorm:"column:net_weight_kg;type:decimal(18,3);not null;default:0"`
	GrossWeightKg     decimal.Decimal     `gorm:"column:gross_weight_kg;type:decimal(18,3);not null;default:0"`
	UnitPrice         decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	BatchNo           string              `gorm:"type:varchar(50)"`
	MfgDate           *time.Time
	ExpDate           *time.Time
	OriginCountryID   *uint         `gorm:"index"`
	OriginCountry     *CountryModel `gorm:"foreignKey:OriginCountryID"`
	TransportRef      string        `gorm:"type:varchar(100)"`
	TransportUnitType string        `gorm:"type:varchar(50)"`
	Notes             string        `gorm:"type:text"`
}

// TableName returns the table name for TransactionItemModel
func (TransactionItemModel) TableName() string {
	return "transaction_items"
}

// ToDomain converts TransactionItemModel to domain Item
func (m *TransactionItemModel) ToDomain() trade.Item {
	item := trade.Item{
		ID:                m.ID,
		EntryItemID:       m.EntryItemID,
		Quantity:          m.Quantity,
		UnitLabel:         m.UnitLabel,
		NetWeightKg:       m.NetWeightKg,
		GrossWeightKg:     m.GrossWeightKg,
		UnitPrice:         m.UnitPrice,
		BatchNo:           m.BatchNo,
		MfgDate:           m.MfgDate,
		ExpDate:           m.ExpDate,
		OriginCountry:     m.OriginCountry.ToDomain(),
		TransportRef:      m.TransportRef,
		TransportUnitType: m.TransportUnitType,
		Notes:             m.Notes,
	}
	if m.Material != nil {
		item.MaterialCode = m.Material.Code
		item.MaterialNames = m.Material.LocalizedNames.ToDomain()
	}
	if m.PackagingType != nil {
		item.PackagingNames = m.PackagingType.LocalizedNames.ToDomain()
	}
	if m.PricingType != nil {
		item.PricingCode = m.PricingType.Code
		item.PricingNames = m.PricingType.LocalizedNames.ToDomain()
	}
	return item
}

// TransportDetailModel is the GORM model for transport_details table
type TransportDetailModel struct {
	ID                uint          `gorm:"primaryKey"`
	TransactionID     uint          `gorm:"not null;uniqueIndex"`
	CarrierCompanyID  *uint         `gorm:"index"`
	Carrier           *CompanyModel `gorm:"foreignKey:CarrierCompanyID"`
	TruckPlate        string        `gorm:"type:varchar(50)"`
	DriverName        string        `gorm:"type:varchar(100)"`
	LoadingPlace      string        `gorm:"type:varchar(255)"`
	DeliveryPlace     string        `gorm:"type:varchar(255)"`
	ShipmentDate      *time.Time
	AttachedDocuments string `gorm:"type:text"`
	CertificateNo     string `gorm:"type:varchar(50)"`
	IssuingAuthority  string `gorm:"type:varchar(255)"`
	PortOfLoading     string `gorm:"type:varchar(255)"`
	PortOfDischarge   string `gorm:"type:varchar(255)"`
	Incoterms         string `gorm:"type:varchar(20)"`
}

// TableName returns the table name for TransportDetailModel
func (TransportDetailModel) TableName() string {
	return "transport_details"
}

// ToDomain converts TransportDetailModel to domain TransportDetail
func (m *TransportDetailModel) ToDomain() *trade.TransportDetail {
	if m == nil {
		return nil
	}
	return &trade.TransportDetail{
		Carrier:           m.Carrier.ToDomain(),
		TruckPlate:        m.TruckPlate,
		DriverName:        m.DriverName,
		LoadingPlace:      m.LoadingPlace,
		DeliveryPlace:     m.DeliveryPlace,
		ShipmentDate:      m.ShipmentDate,
		AttachedDocuments: m.AttachedDocuments,
		CertificateNo:     m.CertificateNo,
		IssuingAuthority:  m.IssuingAuthority,
		PortOfLoading:     m.PortOfLoading,
		PortOfDischarge:   m.PortOfDischarge,
		Incoterms:         m.Incoterms,
	}
}
