package builders

import (
	"context"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
)

// InvoiceBuilder builds the normal and commercial invoices
type InvoiceBuilder struct {
	repo trade.TransactionRepository
}

// NewInvoiceBuilder creates an InvoiceBuilder
func NewInvoiceBuilder(repo trade.TransactionRepository) *InvoiceBuilder {
	return &InvoiceBuilder{repo: repo}
}

// Build loads the transaction and returns the invoice context
func (b *InvoiceBuilder) Build(ctx context.Context, _ string, transactionID uint, lang shared.Language) (map[string]any, error) {
	d, err := loadDetail(ctx, b.repo, transactionID)
	if err != nil {
		return nil, err
	}
	return invoiceContext(d, lang), nil
}

// invoiceContext is the base every invoice family extends
func invoiceContext(d *trade.TransactionDetail, lang shared.Language) map[string]any {
	totals := sumItems(d.Items)
	exporter := partyBlock(d.Exporter, lang)
	consignee := partyBlock(d.Consignee(), lang)
	importer := partyBlock(d.Importer, lang)
	exporter["addr"] = exporter["address"]
	consignee["addr"] = consignee["address"]
	importer["addr"] = importer["address"]

	var pricingCode, pricingName string
	for i := range d.Items {
		if pricingCode == "" {
			pricingCode = d.Items[i].PricingCode
		}
		if pricingName == "" {
			pricingName = d.Items[i].PricingNames.In(lang)
		}
	}

	origin := countryName(d.OriginCountry, lang)
	dest := countryName(d.DestCountry, lang)
	amountWords := amountInWords(d, totals.Value, lang)

	return map[string]any{
		"title":               "",
		"invoice_no":          documentNo(d),
		"date":                d.TransactionDate,
		"exporter":            exporter,
		"consignee":           consignee,
		"importer":            importer,
		"client":              partyBlock(d.Client, lang),
		"shipment":            shipmentBlock(d, lang),
		"transport":           map[string]any{"type": d.TransportType, "ref": d.TransportRef, "delivery_method": deliveryMethodName(d, lang)},
		"delivery_method":     deliveryMethodName(d, lang),
		"origin_country":      origin,
		"country_of_origin":   origin,
		"destination_country": dest,
		"cur":                 currencyCode(d),
		"currency":            map[string]any{"code": currencyCode(d), "name": currencyName(d, lang)},
		"items":               itemRows(d, lang),
		"totals":              totals.toMap(),
		"amount_in_words":     amountWords,
		"pricing_type":        map[string]any{"code": pricingCode, "name": pricingName},
		"bank_info":           exporter["bank_info"],
		"notes":               d.Notes,
		WarningsKey:           invoiceWarnings(d),
	}
}

func invoiceWarnings(d *trade.TransactionDetail) []string {
	w := []string{}
	if d.Exporter == nil {
		w = append(w, "exporter_missing")
	}
	if d.Consignee() == nil {
		w = append(w, "consignee_missing")
	}
	if d.Currency == nil {
		w = append(w, "currency_missing")
	}
	if len(d.Items) == 0 {
		return append(w, "no_items")
	}
	for i := range d.Items {
		if d.Items[i].PackagingNames == (shared.LocalizedText{}) {
			w = append(w, "packaging_missing")
			break
		}
	}
	for i := range d.Items {
		if d.Items[i].UnitPrice.IsZero() {
			w = append(w, "unit_price_missing")
			break
		}
	}
	return w
}
