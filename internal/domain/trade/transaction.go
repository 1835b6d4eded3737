package trade

import (
	"strconv"
	"strings"
	"time"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Transaction is the header of a trade transaction
type Transaction struct {
	ID              uint
	TransactionNo   string
	TransactionDate time.Time
	TransactionType string
	Status          string
}

// DisplayNo returns the transaction number, or the id when no number was assigned
func (t *Transaction) DisplayNo() string {
	if t.TransactionNo != "" {
		return t.TransactionNo
	}
	return strconv.FormatUint(uint64(t.ID), 10)
}

// Country is a country reference
type Country struct {
	ID    uint
	Code  string
	Names shared.LocalizedText
}

// Party is a company or client appearing on a document
type Party struct {
	ID                 uint
	Names              shared.LocalizedText
	Addresses          shared.LocalizedText
	Address            string
	City               string
	Country            *Country
	Phone              string
	Email              string
	Website            string
	TaxID              string
	RegistrationNumber string
	BankInfo           string
}

// AddressIn returns the localized address, falling back to the plain address
func (p *Party) AddressIn(lang shared.Language) string {
	if a := p.Addresses.In(lang); a != "" {
		return a
	}
	return p.Address
}

// Currency is a currency reference
type Currency struct {
	ID    uint
	Code  string
	Names shared.LocalizedText
}

// DeliveryMethod is an incoterm-like delivery method
type DeliveryMethod struct {
	ID    uint
	Code  string
	Names shared.LocalizedText
}

// TransportDetail holds carriage details used by CMR and Form A
type TransportDetail struct {
	Carrier           *Party
	TruckPlate        string
	DriverName        string
	LoadingPlace      string
	DeliveryPlace     string
	ShipmentDate      *time.Time
	AttachedDocuments string
	CertificateNo     string
	IssuingAuthority  string
	PortOfLoading     string
	PortOfDischarge   string
	Incoterms         string
}

// Intermediary is the third-party invoice a transit shipment travels under
type Intermediary struct {
	InvoiceNo   string
	InvoiceDate *time.Time
	Supplier    *Party
}

// Item is a line of a transaction
type Item struct {
	ID                uint
	EntryItemID       *uint
	MaterialCode      string
	MaterialNames     shared.LocalizedText
	PackagingNames    shared.LocalizedText
	PricingCode       string
	PricingNames      shared.LocalizedText
	Quantity          decimal.Decimal
	UnitLabel         string
	NetWeightKg       decimal.Decimal
	GrossWeightKg     decimal.Decimal
	UnitPrice         decimal.Decimal
	BatchNo           string
	MfgDate           *time.Time
	ExpDate           *time.Time
	OriginCountry     *Country
	TransportRef      string
	TransportUnitType string
	Notes             string
}

// Price units an item can be priced by
const (
	PriceUnitTon  = "TON"
	PriceUnitKg   = "KG"
	PriceUnitUnit = "UNIT"
)

var thousand = decimal.NewFromInt(1000)

// PriceUnit derives the unit the price is quoted in from the pricing code
func (i *Item) PriceUnit() string {
	switch strings.ToUpper(i.PricingCode) {
	case "TON", "T", "MT", "TON_NET", "TON_GROSS":
		return PriceUnitTon
	case "KG", "KILO", "KG_NET", "KG_GROSS", "GROSS", "BRUT":
		return PriceUnitKg
	default:
		return PriceUnitUnit
	}
}

// Amount returns the line value. Weight-based pricing codes multiply the unit
// price by net or gross kilograms (or tons); everything else by quantity.
func (i *Item) Amount() decimal.Decimal {
	var base decimal.Decimal
	switch strings.ToUpper(i.PricingCode) {
	case "KG", "KILO", "KG_NET":
		base = i.NetWeightKg
	case "KG_GROSS", "GROSS", "BRUT":
		base = i.GrossWeightKg
	case "TON", "T", "MT", "TON_NET":
		base = i.NetWeightKg.Div(thousand)
	case "TON_GROSS":
		base = i.GrossWeightKg.Div(thousand)
	default:
		base = i.Quantity
	}
	return base.Mul(i.UnitPrice)
}

// TransactionDetail is the full read model a document builder works from
type TransactionDetail struct {
	Transaction
	Client         *Party
	Exporter       *Party
	Importer       *Party
	OriginCountry  *Country
	DestCountry    *Country
	Currency       *Currency
	DeliveryMethod *DeliveryMethod
	TransportType  string
	TransportRef   string
	Notes          string
	Transport      *TransportDetail
	Intermediary   *Intermediary
	Items          []Item
}

// Consignee returns the client, or the importer when no client is set
func (d *TransactionDetail) Consignee() *Party {
	if d.Client != nil {
		return d.Client
	}
	return d.Importer
}
