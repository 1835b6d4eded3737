package builders

import (
	"context"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
)

// FormABuilder builds the Form A certificate of origin. Material codes are
// printed as HS codes.
type FormABuilder struct {
	repo trade.TransactionRepository
}

// NewFormABuilder creates a FormABuilder
func NewFormABuilder(repo trade.TransactionRepository) *FormABuilder {
	return &FormABuilder{repo: repo}
}

// Build loads the transaction and returns the Form A context
func (b *FormABuilder) Build(ctx context.Context, _ string, transactionID uint, lang shared.Language) (map[string]any, error) {
	d, err := loadDetail(ctx, b.repo, transactionID)
	if err != nil {
		return nil, err
	}

	td := d.Transport
	if td == nil {
		td = &trade.TransportDetail{}
	}
	no := documentNo(d)
	certificateNo := td.CertificateNo
	if certificateNo == "" {
		certificateNo = no
	}

	transportInfo := d.TransportRef
	switch {
	case td.LoadingPlace != "" && td.DeliveryPlace != "":
		transportInfo = td.LoadingPlace + " → " + td.DeliveryPlace
	case d.TransportType != "":
		transportInfo = d.TransportType + " / " + d.TransportRef
	}

	date := d.TransactionDate
	if td.ShipmentDate != nil {
		date = *td.ShipmentDate
	}

	origin := countryName(d.OriginCountry, lang)
	totals := sumItems(d.Items)

	return map[string]any{
		"certificate_no":    certificateNo,
		"reference_no":      no,
		"invoice_no":        no,
		"date":              date,
		"trx_date":          d.TransactionDate,
		"exporter":          partyBlock(d.Exporter, lang),
		"consignee":         partyBlock(d.Importer, lang),
		"origin_country":    origin,
		"dest_country":      countryName(d.DestCountry, lang),
		"transport_info":    transportInfo,
		"delivery_method":   deliveryMethodName(d, lang),
		"transport_ref":     d.TransportRef,
		"items":             itemRows(d, lang),
		"totals":            totals.toMap(),
		"currency_code":     currencyCode(d),
		"issuing_authority": td.IssuingAuthority,
		WarningsKey:         formAWarnings(td, origin, len(d.Items)),
	}, nil
}

func formAWarnings(td *trade.TransportDetail, origin string, items int) []string {
	w := []string{}
	if td.CertificateNo == "" {
		w = append(w, "certificate_no_missing")
	}
	if td.IssuingAuthority == "" {
		w = append(w, "issuing_authority_missing")
	}
	if origin == "" {
		w = append(w, "origin_country_missing")
	}
	if items == 0 {
		w = append(w, "no_items")
	}
	return w
}
