package builders

import (
	"time"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
)

// itemRow maps a transaction line to the keys every family's templates use.
// Aliases (qty/quantity, net/net_kg, ...) let one row serve all layouts.
func itemRow(n int, it *trade.Item, d *trade.TransactionDetail, lang shared.Language) map[string]any {
	packaging := it.PackagingNames.In(lang)
	priceUnit := it.PriceUnit()
	unit := it.UnitLabel
	if unit == "" {
		unit = priceUnit
	}
	origin := countryName(it.OriginCountry, lang)
	if origin == "" {
		origin = countryName(d.OriginCountry, lang)
	}
	containerNo := it.TransportRef
	if containerNo == "" {
		containerNo = d.TransportRef
	}
	var lineID any = ""
	if it.EntryItemID != nil {
		lineID = *it.EntryItemID
	}
	amount := it.Amount()

	return map[string]any{
		"n":              n,
		"no":             n,
		"line_no":        n,
		"id":             it.ID,
		"code":           it.MaterialCode,
		"hs_code":        it.MaterialCode,
		"description":    it.MaterialNames.In(lang),
		"packaging":      packaging,
		"packaging_type": packaging,
		"unit":           unit,
		"pricing_unit":   priceUnit,
		"qty":            it.Quantity,
		"quantity":       it.Quantity,
		"net":            it.NetWeightKg,
		"net_kg":         it.NetWeightKg,
		"gross":          it.GrossWeightKg,
		"gross_kg":       it.GrossWeightKg,
		"unit_price":     it.UnitPrice,
		"price":          it.UnitPrice,
		"amount":         amount,
		"total":          amount,
		"pricing_type": map[string]any{
			"code": it.PricingCode,
			"name": it.PricingNames.In(lang),
		},
		"origin":         origin,
		"batch_no":       it.BatchNo,
		"mfg_date":       isoDate(it.MfgDate),
		"exp_date":       isoDate(it.ExpDate),
		"container_no":   containerNo,
		"container_type": it.TransportUnitType,
		"entry_item_id":  lineID,
		"line_id":        lineID,
		"notes":          it.Notes,
	}
}

func itemRows(d *trade.TransactionDetail, lang shared.Language) []map[string]any {
	rows := make([]map[string]any, len(d.Items))
	for i := range d.Items {
		rows[i] = itemRow(i+1, &d.Items[i], d, lang)
	}
	return rows
}

func isoDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
