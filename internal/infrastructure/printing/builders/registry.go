package builders

import (
	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/trade"
)

// NewRegistry returns every shipped builder keyed by its catalog identifier
func NewRegistry(repo trade.TransactionRepository) map[string]DocumentContextBuilder {
	return map[string]DocumentContextBuilder{
		printing.BuilderInvoice:            NewInvoiceBuilder(repo),
		printing.BuilderInvoiceForeign:     NewForeignInvoiceBuilder(repo),
		printing.BuilderInvoiceProforma:    NewProformaInvoiceBuilder(repo),
		printing.BuilderInvoiceSyrianEntry: NewSyrianEntryBuilder(repo),
		printing.BuilderSyrianTransit:      NewSyrianTransitBuilder(repo),
		printing.BuilderSyrianIntermediary: NewSyrianIntermediaryBuilder(repo),
		printing.BuilderPackingList:        NewPackingListBuilder(repo),
		printing.BuilderCMR:                NewCMRBuilder(repo),
		printing.BuilderFormA:              NewFormABuilder(repo),
	}
}

// NewDefaultRouter routes the catalog's builder rules to the shipped builders
func NewDefaultRouter(catalog *printing.Catalog, repo trade.TransactionRepository) (*Router, error) {
	return NewRouter(catalog.BuilderRules, NewRegistry(repo))
}
