package builders

import (
	"context"
	"fmt"
	"strings"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
)

// Packing list variants
const (
	PackingListSimple     = "packing_list.export.simple"
	PackingListWithDates  = "packing_list.export.with_dates"
	PackingListWithLineID = "packing_list.export.with_line_id"
)

// PackingListBuilder builds the export packing lists. The variant is taken
// from the doc_code and decides which optional columns the template shows.
type PackingListBuilder struct {
	repo trade.TransactionRepository
}

// NewPackingListBuilder creates a PackingListBuilder
func NewPackingListBuilder(repo trade.TransactionRepository) *PackingListBuilder {
	return &PackingListBuilder{repo: repo}
}

// Build loads the transaction and returns the packing list context
func (b *PackingListBuilder) Build(ctx context.Context, docCode string, transactionID uint, lang shared.Language) (map[string]any, error) {
	code := strings.TrimSpace(docCode)
	switch code {
	case PackingListSimple, PackingListWithDates, PackingListWithLineID:
	default:
		return nil, shared.NewDomainError(shared.CodeBuilderNotFound,
			fmt.Sprintf("unsupported packing list code %q", docCode))
	}
	withDates := code == PackingListWithDates

	d, err := loadDetail(ctx, b.repo, transactionID)
	if err != nil {
		return nil, err
	}

	totals := sumItems(d.Items)
	var incoterms, pol, pod string
	if d.Transport != nil {
		incoterms = d.Transport.Incoterms
		pol = d.Transport.PortOfLoading
		pod = d.Transport.PortOfDischarge
	}

	c := map[string]any{
		"doc": map[string]any{
			"code":         code,
			"lang":         lang.String(),
			"with_dates":   withDates,
			"with_line_id": code == PackingListWithLineID,
		},
		"transaction": map[string]any{
			"id":         d.ID,
			"no":         documentNo(d),
			"issue_date": d.TransactionDate.Format("2006-01-02"),
		},
		"exporter":            partyBlock(d.Exporter, lang),
		"importer":            partyBlock(d.Importer, lang),
		"consignee":           partyBlock(d.Consignee(), lang),
		"incoterms":           incoterms,
		"delivery_method":     deliveryMethodName(d, lang),
		"country_of_origin":   countryName(d.OriginCountry, lang),
		"destination_country": countryName(d.DestCountry, lang),
		"port_of_loading":     pol,
		"port_of_discharge":   pod,
		"transport":           map[string]any{"type": d.TransportType, "ref": d.TransportRef},
		"notes":               d.Notes,
		"rows":                itemRows(d, lang),
		"totals": map[string]any{
			"quantity": totals.Qty,
			"gross_kg": totals.Gross,
			"net_kg":   totals.Net,
		},
		"tafqit_qty":   spell(totals.Qty, lang, "", kindQty),
		"tafqit_gross": spell(totals.Gross, lang, weightUnitKg, kindWeight),
		"tafqit_net":   spell(totals.Net, lang, weightUnitKg, kindWeight),
		WarningsKey:    packingWarnings(d, withDates),
	}
	if note := strings.TrimSpace(d.Notes); withDates && note != "" {
		c["brands_note"] = note
	}
	return c, nil
}

func packingWarnings(d *trade.TransactionDetail, withDates bool) []string {
	w := []string{}
	if len(d.Items) == 0 {
		return append(w, "no_items")
	}
	if !withDates {
		return w
	}
	for i := range d.Items {
		if d.Items[i].MfgDate == nil || d.Items[i].ExpDate == nil {
			return append(w, "item_dates_missing")
		}
	}
	return w
}
