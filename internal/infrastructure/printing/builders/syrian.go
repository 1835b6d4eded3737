package builders

import (
	"context"
	"strings"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
)

var syrianTitles = shared.LocalizedText{AR: "فاتورة", EN: "Invoice", TR: "Fatura"}

// arabicUnits are the short unit labels of the Arabic price headers
var arabicUnits = map[string]string{
	trade.PriceUnitTon:  "طن",
	trade.PriceUnitKg:   "كغ",
	"KILOGRAM":          "كغ",
	trade.PriceUnitUnit: "وحدة",
	"PCS":               "وحدة",
}

func localizedUnit(unit string, lang shared.Language) string {
	if lang != shared.LanguageArabic {
		if unit == "" {
			return trade.PriceUnitUnit
		}
		return unit
	}
	if ar, ok := arabicUnits[strings.ToUpper(unit)]; ok {
		return ar
	}
	if unit == "" {
		return arabicUnits[trade.PriceUnitUnit]
	}
	return unit
}

// SyrianEntryBuilder builds the Syrian entry invoice. The transit and
// intermediary builders extend its context.
type SyrianEntryBuilder struct {
	repo trade.TransactionRepository
}

// NewSyrianEntryBuilder creates a SyrianEntryBuilder
func NewSyrianEntryBuilder(repo trade.TransactionRepository) *SyrianEntryBuilder {
	return &SyrianEntryBuilder{repo: repo}
}

// Build loads the transaction and returns the entry invoice context
func (b *SyrianEntryBuilder) Build(ctx context.Context, _ string, transactionID uint, lang shared.Language) (map[string]any, error) {
	d, err := loadDetail(ctx, b.repo, transactionID)
	if err != nil {
		return nil, err
	}
	return syrianEntryContext(d, lang), nil
}

func syrianEntryContext(d *trade.TransactionDetail, lang shared.Language) map[string]any {
	c := foreignContext(d, lang)
	totals := sumItems(d.Items)
	labels := collectLabels(d.Items, lang)

	cur := currencyCode(d)
	if cur == "" {
		cur = "USD"
	}

	items := c["items"].([]map[string]any)
	for i, row := range items {
		unit := d.Items[i].PriceUnit()
		row["pricing_type_label"] = cur + "/" + localizedUnit(unit, lang)
		row["description_ar"] = d.Items[i].MaterialNames.In(shared.LanguageArabic)
		row["bags"] = row["qty"]
		row["total_usd"] = row["amount"]
		row["unit_display"] = row["packaging"]
		row["unit"] = unit
	}

	t := c["totals"].(map[string]any)
	t["total_value"] = totals.Value
	t["total_qty"] = totals.Qty
	t["total_bags"] = totals.Qty
	t["total_gross"] = totals.Gross
	t["total_net"] = totals.Net

	header := labels.unitPriceLabel()
	if len(labels.units) == 1 {
		header = labels.unitPricePer()
	}
	c["pricing_type_header"] = cur + "/" + localizedUnit(header, lang)
	weightLabel := weightUnitKg
	if lang == shared.LanguageArabic {
		weightLabel = "كغ"
	}
	c["gross_unit_label"] = weightLabel
	c["net_unit_label"] = weightLabel
	c["qty_header_packaging"] = joinWithAnd(labels.packaging, lang)

	c["title"] = syrianTitles.In(lang)
	c["currency_symbol"] = currencyCode(d)
	c["currency"].(map[string]any)["symbol"] = currencyCode(d)

	// Every language's wording is included; bilingual layouts print two side by side.
	for _, l := range shared.AllLanguages() {
		suffix := "_" + l.String()
		pkg := joinWithAnd(collectLabels(d.Items, l).packaging, l)
		c["tafqit_qty"+suffix] = strings.TrimSpace(spellNumber(totals.Qty, l) + " " + pkg)
		c["tafqit_gross"+suffix] = spell(totals.Gross, l, weightUnitKg, kindWeight)
		c["tafqit_net"+suffix] = spell(totals.Net, l, weightUnitKg, kindWeight)
		c["tafqit_total_value"+suffix] = amountInWords(d, totals.Value, l)
	}
	return c
}

// SyrianTransitBuilder builds the Syrian transit invoice: the entry invoice
// marked with a TRANSIT label.
type SyrianTransitBuilder struct {
	repo trade.TransactionRepository
}

// NewSyrianTransitBuilder creates a SyrianTransitBuilder
func NewSyrianTransitBuilder(repo trade.TransactionRepository) *SyrianTransitBuilder {
	return &SyrianTransitBuilder{repo: repo}
}

// Build loads the transaction and returns the transit invoice context
func (b *SyrianTransitBuilder) Build(ctx context.Context, _ string, transactionID uint, lang shared.Language) (map[string]any, error) {
	d, err := loadDetail(ctx, b.repo, transactionID)
	if err != nil {
		return nil, err
	}
	c := syrianEntryContext(d, lang)
	c["doc"] = map[string]any{"type": "syrian_transit"}
	c["transit_label"] = "TRANSIT"
	return c, nil
}

var transitLabels = shared.LocalizedText{AR: "ترانزيت", EN: "TRANSIT", TR: "TRANSİT"}

// SyrianIntermediaryBuilder builds the transit invoice issued under an
// intermediary supplier's invoice.
type SyrianIntermediaryBuilder struct {
	repo trade.TransactionRepository
}

// NewSyrianIntermediaryBuilder creates a SyrianIntermediaryBuilder
func NewSyrianIntermediaryBuilder(repo trade.TransactionRepository) *SyrianIntermediaryBuilder {
	return &SyrianIntermediaryBuilder{repo: repo}
}

// Build loads the transaction and returns the intermediary invoice context
func (b *SyrianIntermediaryBuilder) Build(ctx context.Context, _ string, transactionID uint, lang shared.Language) (map[string]any, error) {
	d, err := loadDetail(ctx, b.repo, transactionID)
	if err != nil {
		return nil, err
	}

	c := syrianEntryContext(d, lang)
	c["doc"] = map[string]any{"type": "syrian_transit_intermediary"}
	c["transit_label"] = transitLabels.In(lang)
	c["has_intermediary"] = d.Intermediary != nil

	interm := map[string]any{
		"intermediary_invoice_no":       "",
		"intermediary_invoice_date":     "",
		"intermediary_supplier_name":    "",
		"intermediary_supplier_address": "",
		"intermediary_supplier_country": "",
		"intermediary_supplier_city":    "",
	}
	if d.Intermediary != nil {
		interm["intermediary_invoice_no"] = d.Intermediary.InvoiceNo
		interm["intermediary_invoice_date"] = isoDate(d.Intermediary.InvoiceDate)
		if s := d.Intermediary.Supplier; s != nil {
			interm["intermediary_supplier_name"] = s.Names.In(lang)
			interm["intermediary_supplier_address"] = s.AddressIn(lang)
			interm["intermediary_supplier_country"] = countryName(s.Country, lang)
			interm["intermediary_supplier_city"] = s.City
		}
	}
	c["transit"] = map[string]any{"intermediary": interm}

	dest := transitDestination(d)
	for _, l := range shared.AllLanguages() {
		text := transitToText(dest, l)
		if l == lang {
			c["transit_to_text"] = text
		}
		if l != shared.LanguageArabic {
			c["transit_to_text_"+l.String()] = text
		}
	}

	w := c[WarningsKey].([]string)
	if d.Intermediary == nil {
		c[WarningsKey] = append(w, "intermediary_missing")
	}
	return c, nil
}

// transitDestination is the importer's country, else the destination country
func transitDestination(d *trade.TransactionDetail) *trade.Country {
	if d.Importer != nil && d.Importer.Country != nil {
		return d.Importer.Country
	}
	return d.DestCountry
}

func transitToText(dest *trade.Country, lang shared.Language) string {
	name := ""
	if dest != nil {
		name = dest.Names.In(lang)
	}
	if name == "" {
		return transitLabels.In(lang)
	}
	switch lang {
	case shared.LanguageArabic:
		return "ترانزيت إلى " + name
	case shared.LanguageTurkish:
		return "Transit - Varış Ülkesi: " + name
	default:
		return "Transit to " + name
	}
}
