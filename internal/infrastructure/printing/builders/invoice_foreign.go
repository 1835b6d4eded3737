package builders

import (
	"context"
	"strings"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
)

// ForeignInvoiceBuilder builds the foreign commercial invoice. On top of the
// base invoice it spells totals in words and derives column headers from the
// price units and packaging of the lines.
type ForeignInvoiceBuilder struct {
	repo trade.TransactionRepository
}

// NewForeignInvoiceBuilder creates a ForeignInvoiceBuilder
func NewForeignInvoiceBuilder(repo trade.TransactionRepository) *ForeignInvoiceBuilder {
	return &ForeignInvoiceBuilder{repo: repo}
}

// Build loads the transaction and returns the foreign invoice context
func (b *ForeignInvoiceBuilder) Build(ctx context.Context, _ string, transactionID uint, lang shared.Language) (map[string]any, error) {
	d, err := loadDetail(ctx, b.repo, transactionID)
	if err != nil {
		return nil, err
	}
	return foreignContext(d, lang), nil
}

func foreignContext(d *trade.TransactionDetail, lang shared.Language) map[string]any {
	c := invoiceContext(d, lang)
	totals := sumItems(d.Items)
	labels := collectLabels(d.Items, lang)

	qtyUnit := strings.Join(labels.packaging, " & ")
	qtyWords := spell(totals.Qty, lang, qtyUnit, kindQty)
	grossWords := spell(totals.Gross, lang, weightUnitKg, kindWeight)
	netWords := spell(totals.Net, lang, weightUnitKg, kindWeight)
	amountWords := c["amount_in_words"]

	t := totals.toMap()
	t["gross_display"] = totals.Gross
	t["net_display"] = totals.Net
	c["totals"] = t

	exporter := c["exporter"].(map[string]any)
	c["prepared_by"] = exporter["name"]
	c["include_bank_from_company"] = true

	c["totals_in_words"] = amountWords
	c["value_in_words"] = amountWords
	c["qty_in_words"] = qtyWords
	c["totals_qty_in_words"] = qtyWords
	c["gross_in_words"] = grossWords
	c["totals_gross_in_words"] = grossWords
	c["net_in_words"] = netWords
	c["totals_net_in_words"] = netWords

	c["unit_price_per"] = labels.unitPricePer()
	c["unit_price_label"] = labels.unitPriceLabel()
	c["weight_unit_for_display"] = weightUnitKg
	c["qty_header_packaging"] = strings.Join(labels.packaging, " & ")
	c["pricing_type"] = labels.pricingType()
	c["pricing_types_label"] = strings.Join(labels.pricing, " & ")
	return c
}

var proformaTitles = shared.LocalizedText{
	AR: "فاتورة أولية",
	EN: "Proforma Invoice",
	TR: "Proforma Fatura",
}

// ProformaInvoiceBuilder builds the proforma invoice: the foreign invoice
// flagged as non-tax with the bank block shown.
type ProformaInvoiceBuilder struct {
	repo trade.TransactionRepository
}

// NewProformaInvoiceBuilder creates a ProformaInvoiceBuilder
func NewProformaInvoiceBuilder(repo trade.TransactionRepository) *ProformaInvoiceBuilder {
	return &ProformaInvoiceBuilder{repo: repo}
}

// Build loads the transaction and returns the proforma context
func (b *ProformaInvoiceBuilder) Build(ctx context.Context, _ string, transactionID uint, lang shared.Language) (map[string]any, error) {
	d, err := loadDetail(ctx, b.repo, transactionID)
	if err != nil {
		return nil, err
	}

	c := foreignContext(d, lang)
	c["doc_kind"] = "proforma"
	c["is_proforma"] = true
	c["doc_title"] = proformaTitles.In(lang)
	c["notify"] = partyBlock(nil, lang)
	if d.Intermediary != nil && d.Intermediary.Supplier != nil {
		c["notify"] = partyBlock(d.Intermediary.Supplier, lang)
	}
	c["flags"] = map[string]any{
		"hide_tax_fields": true,
		"show_bank_block": true,
		"non_tax_notice":  true,
	}
	return c, nil
}
