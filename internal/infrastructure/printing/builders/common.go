package builders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
	"github.com/logiport/backend/internal/infrastructure/printing/words"
	"github.com/shopspring/decimal"
)

// WarningsKey holds the list of missing optional fields. It is meant for the
// caller's UI and never printed on the document.
const WarningsKey = "_warnings"

const weightUnitKg = "KG"

// loadDetail reads the transaction read model, mapping a missing row to NOT_FOUND
func loadDetail(ctx context.Context, repo trade.TransactionRepository, id uint) (*trade.TransactionDetail, error) {
	d, err := repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError(shared.CodeNotFound,
				fmt.Sprintf("transaction #%d not found", id), err)
		}
		return nil, fmt.Errorf("failed to load transaction %d: %w", id, err)
	}
	return d, nil
}

// partyBlock flattens a company or client into the keys templates read.
// A nil party yields empty strings so templates never see a missing key.
func partyBlock(p *trade.Party, lang shared.Language) map[string]any {
	if p == nil {
		return map[string]any{
			"name": "", "address": "", "city": "", "country": "",
			"phone": "", "email": "", "website": "", "tax_id": "",
			"registration_number": "", "bank_info": "", "vat_no": "", "cr_no": "",
		}
	}
	return map[string]any{
		"name":                p.Names.In(lang),
		"address":             p.AddressIn(lang),
		"city":                strings.TrimSpace(p.City),
		"country":             countryName(p.Country, lang),
		"phone":               strings.TrimSpace(p.Phone),
		"email":               strings.TrimSpace(p.Email),
		"website":             strings.TrimSpace(p.Website),
		"tax_id":              strings.TrimSpace(p.TaxID),
		"registration_number": strings.TrimSpace(p.RegistrationNumber),
		"bank_info":           strings.TrimSpace(p.BankInfo),
		"vat_no":              strings.TrimSpace(p.TaxID),
		"cr_no":               strings.TrimSpace(p.RegistrationNumber),
	}
}

func countryName(c *trade.Country, lang shared.Language) string {
	if c == nil {
		return ""
	}
	return c.Names.In(lang)
}

func currencyCode(d *trade.TransactionDetail) string {
	if d.Currency == nil {
		return ""
	}
	return d.Currency.Code
}

func currencyName(d *trade.TransactionDetail, lang shared.Language) string {
	if d.Currency == nil {
		return ""
	}
	return d.Currency.Names.In(lang)
}

func deliveryMethodName(d *trade.TransactionDetail, lang shared.Language) string {
	if d.DeliveryMethod == nil {
		return ""
	}
	return d.DeliveryMethod.Names.In(lang)
}

// shipmentBlock is the transport summary shared by the invoice families
func shipmentBlock(d *trade.TransactionDetail, lang shared.Language) map[string]any {
	return map[string]any{
		"delivery_method":     deliveryMethodName(d, lang),
		"transport_type":      d.TransportType,
		"transport_ref":       d.TransportRef,
		"origin_country":      countryName(d.OriginCountry, lang),
		"destination":         countryName(d.DestCountry, lang),
		"destination_country": countryName(d.DestCountry, lang),
		"currency":            currencyCode(d),
		"currency_code":       currencyCode(d),
	}
}

// lineTotals sums quantities, weights and line values
type lineTotals struct {
	Qty   decimal.Decimal
	Gross decimal.Decimal
	Net   decimal.Decimal
	Value decimal.Decimal
}

func sumItems(items []trade.Item) lineTotals {
	var t lineTotals
	for i := range items {
		t.Qty = t.Qty.Add(items[i].Quantity)
		t.Gross = t.Gross.Add(items[i].GrossWeightKg)
		t.Net = t.Net.Add(items[i].NetWeightKg)
		t.Value = t.Value.Add(items[i].Amount())
	}
	return t
}

func (t lineTotals) toMap() map[string]any {
	return map[string]any{
		"qty":      t.Qty,
		"gross":    t.Gross,
		"net":      t.Net,
		"value":    t.Value,
		"total":    t.Value,
		"subtotal": t.Value,
	}
}

// dedup keeps the first occurrence of every non-blank value
func dedup(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		k := strings.TrimSpace(v)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// joinWithAnd joins names with a localized conjunction before the last one
func joinWithAnd(names []string, lang shared.Language) string {
	list := dedup(names)
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	}
	sep, conj := ", ", " and "
	switch lang {
	case shared.LanguageArabic:
		sep, conj = "، ", " و "
	case shared.LanguageTurkish:
		conj = " ve "
	}
	return strings.Join(list[:len(list)-1], sep) + conj + list[len(list)-1]
}

type unitKind int

const (
	kindQty unitKind = iota
	kindWeight
)

// unitWord names the unit a spelled-out quantity or weight is counted in
func unitWord(label string, lang shared.Language, kind unitKind) string {
	u := strings.ToUpper(strings.TrimSpace(label))
	isKg := u == "" || u == "KG" || u == "KILOGRAM"
	isTon := u == "T" || u == "TON" || u == "TONS"

	var kg, ton, unit string
	switch lang {
	case shared.LanguageArabic:
		kg, ton, unit = "كيلوغرام", "طن", "وحدة"
	case shared.LanguageTurkish:
		kg, ton, unit = "kilogram", "ton", "birim"
	default:
		kg, ton, unit = "kilograms", "tons", "units"
	}

	if kind == kindWeight {
		switch {
		case isKg:
			return kg
		case isTon:
			return ton
		}
		return label
	}
	if u == "" {
		return unit
	}
	return label
}

// spell writes n (rounded to a whole number) in words followed by its unit
func spell(n decimal.Decimal, lang shared.Language, label string, kind unitKind) string {
	return strings.TrimSpace(spellNumber(n, lang) + " " + unitWord(label, lang, kind))
}

func spellNumber(n decimal.Decimal, lang shared.Language) string {
	return words.Number(n.Round(0).IntPart(), lang)
}

func amountInWords(d *trade.TransactionDetail, value decimal.Decimal, lang shared.Language) string {
	return words.Amount(value, currencyCode(d), lang)
}

// pricingLabels collects per-item price units, pricing type and packaging names
type pricingLabels struct {
	units     []string
	pricing   []string
	packaging []string
}

func collectLabels(items []trade.Item, lang shared.Language) pricingLabels {
	var l pricingLabels
	for i := range items {
		l.units = append(l.units, items[i].PriceUnit())
		l.pricing = append(l.pricing, items[i].PricingNames.In(lang))
		l.packaging = append(l.packaging, items[i].PackagingNames.In(lang))
	}
	l.units = dedup(l.units)
	l.pricing = dedup(l.pricing)
	l.packaging = dedup(l.packaging)
	return l
}

// unitPricePer is the single price unit, or UNIT when items disagree
func (l pricingLabels) unitPricePer() string {
	if len(l.units) == 1 {
		return l.units[0]
	}
	return trade.PriceUnitUnit
}

func (l pricingLabels) unitPriceLabel() string {
	if len(l.units) == 0 {
		return l.unitPricePer()
	}
	return strings.Join(l.units, " & ")
}

func (l pricingLabels) pricingType() string {
	if len(l.pricing) == 1 {
		return l.pricing[0]
	}
	return ""
}

func documentNo(d *trade.TransactionDetail) string {
	return d.DisplayNo()
}
