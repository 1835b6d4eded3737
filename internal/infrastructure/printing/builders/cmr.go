package builders

import (
	"context"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
)

// CMRBuilder builds the international road consignment note from the
// transaction and its transport details.
type CMRBuilder struct {
	repo trade.TransactionRepository
}

// NewCMRBuilder creates a CMRBuilder
func NewCMRBuilder(repo trade.TransactionRepository) *CMRBuilder {
	return &CMRBuilder{repo: repo}
}

// Build loads the transaction and returns the CMR context
func (b *CMRBuilder) Build(ctx context.Context, _ string, transactionID uint, lang shared.Language) (map[string]any, error) {
	d, err := loadDetail(ctx, b.repo, transactionID)
	if err != nil {
		return nil, err
	}

	td := d.Transport
	if td == nil {
		td = &trade.TransportDetail{}
	}
	origin := countryName(d.OriginCountry, lang)
	dest := countryName(d.DestCountry, lang)

	loading := td.LoadingPlace
	if loading == "" {
		loading = origin
	}
	delivery := td.DeliveryPlace
	if delivery == "" {
		delivery = dest
	}
	attached := td.AttachedDocuments
	if attached == "" {
		attached = d.Notes
	}

	date := d.TransactionDate
	var shipmentDate any = ""
	if td.ShipmentDate != nil {
		date = *td.ShipmentDate
		shipmentDate = *td.ShipmentDate
	}

	totals := sumItems(d.Items)
	carrier := partyBlock(td.Carrier, lang)

	return map[string]any{
		"cmr_no":             documentNo(d),
		"date":               date,
		"trx_date":           d.TransactionDate,
		"shipment_date":      shipmentDate,
		"sender":             partyBlock(d.Exporter, lang),
		"consignee":          partyBlock(d.Importer, lang),
		"delivery_place":     delivery,
		"dest_country":       dest,
		"loading_place":      loading,
		"origin_country":     origin,
		"attached_documents": attached,
		"transport_ref":      d.TransportRef,
		"carrier":            carrier,
		"truck_plate":        td.TruckPlate,
		"driver_name":        td.DriverName,
		"items":              itemRows(d, lang),
		"totals": map[string]any{
			"qty":   totals.Qty,
			"gross": totals.Gross,
			"net":   totals.Net,
		},
		WarningsKey: cmrWarnings(carrier, td.TruckPlate, loading, delivery, len(d.Items)),
	}, nil
}

func cmrWarnings(carrier map[string]any, plate, loading, delivery string, items int) []string {
	w := []string{}
	if carrier["name"] == "" {
		w = append(w, "carrier_missing")
	}
	if plate == "" {
		w = append(w, "truck_plate_missing")
	}
	if loading == "" {
		w = append(w, "loading_place_missing")
	}
	if delivery == "" {
		w = append(w, "delivery_place_missing")
	}
	if items == 0 {
		w = append(w, "no_items")
	}
	return w
}
