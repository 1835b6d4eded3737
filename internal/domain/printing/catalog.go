package printing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/logiport/backend/internal/domain/shared"
)

// Builder identifiers used by Catalog.BuilderRules
const (
	BuilderInvoice             = "invoice"
	BuilderInvoiceForeign      = "invoice_foreign"
	BuilderInvoiceProforma     = "invoice_proforma"
	BuilderInvoiceSyrianEntry  = "invoice_syrian_entry"
	BuilderSyrianTransit       = "transit"
	BuilderSyrianIntermediary  = "transit_intermediary"
	BuilderPackingList         = "packing_list"
	BuilderCMR                 = "cmr"
	BuilderFormA               = "form_a"
	defaultPrefixMaxRuneLength = 6
)

// TemplateSubstitute lets a doc_code reuse another family's template layout.
// Titles is attached to the resolved template as the "title" metadata.
type TemplateSubstitute struct {
	DocCode string
	Titles  shared.LocalizedText
}

// BuilderRule routes every doc_code starting with Prefix to Builder
type BuilderRule struct {
	Prefix  string
	Builder string
}

// Catalog holds the four doc_code registries. They are kept consistent by
// configuration and never derived from each other.
type Catalog struct {
	// TemplateFolders maps doc_code to a folder under the templates root
	TemplateFolders map[string]string
	// TemplateSubstitutes maps doc_code to a family whose template it may borrow
	TemplateSubstitutes map[string]TemplateSubstitute
	// EnglishOnly lists doc_codes whose templates exist only in English
	EnglishOnly map[string]bool
	// BuilderRules maps a doc_code prefix to a builder identifier
	BuilderRules []BuilderRule
	// Prefixes maps doc_code to the document number / file name prefix
	Prefixes map[string]string
	// DocumentTypeCodes maps doc_code to document_types.code
	DocumentTypeCodes map[string]string
}

// DefaultCatalog returns the registries for the shipped document families
func DefaultCatalog() *Catalog {
	return &Catalog{
		TemplateFolders: map[string]string{
			"invoice.normal":                   "invoices/normal",
			"invoice.commercial":               "invoices/commercial",
			"invoice.proforma":                 "invoices/proforma",
			"invoice.syrian":                   "invoices/syrian/transit",
			"invoice.syrian.transit":           "invoices/syrian/transit",
			"invoice.syrian.intermediary":      "invoices/syrian/intermediary",
			"invoice.syrian.entry":             "invoices/syrian/entry",
			"invoice.foreign.commercial":       "invoices/commercial",
			"packing_list.export.simple":       "packing_list/export/simple",
			"packing_list.export.with_dates":   "packing_list/export/with_dates",
			"packing_list.export.with_line_id": "packing_list/export/with_line_id",
			"cmr":                              "cmr",
			"form_a":                           "form_a",
			"form.a":                           "form_a",
		},
		TemplateSubstitutes: map[string]TemplateSubstitute{
			"invoice.proforma": {
				DocCode: "invoice.commercial",
				Titles: shared.LocalizedText{
					AR: "فاتورة أولية",
					EN: "PROFORMA INVOICE",
					TR: "ÖN FATURA",
				},
			},
		},
		EnglishOnly: map[string]bool{
			"cmr": true,
		},
		BuilderRules: []BuilderRule{
			{Prefix: "invoice.syrian.entry", Builder: BuilderInvoiceSyrianEntry},
			{Prefix: "invoice.syrian.entry.", Builder: BuilderInvoiceSyrianEntry},
			{Prefix: "invoice.syrian.intermediary", Builder: BuilderSyrianIntermediary},
			{Prefix: "invoice.syrian.intermediary.", Builder: BuilderSyrianIntermediary},
			{Prefix: "invoice.syrian.transit", Builder: BuilderSyrianTransit},
			{Prefix: "invoice.syrian.transit.", Builder: BuilderSyrianTransit},
			{Prefix: "invoice.foreign.", Builder: BuilderInvoiceForeign},
			{Prefix: "invoice.syrian", Builder: BuilderSyrianTransit},
			{Prefix: "invoice.syrian.", Builder: BuilderInvoice},
			{Prefix: "invoice.normal", Builder: BuilderInvoice},
			{Prefix: "invoice.normal.", Builder: BuilderInvoice},
			{Prefix: "invoice.commercial", Builder: BuilderInvoice},
			{Prefix: "invoice.commercial.", Builder: BuilderInvoice},
			{Prefix: "invoice.proforma", Builder: BuilderInvoiceProforma},
			{Prefix: "invoice.proforma.", Builder: BuilderInvoiceProforma},
			{Prefix: "packing_list.", Builder: BuilderPackingList},
			{Prefix: "cmr", Builder: BuilderCMR},
			{Prefix: "form_a", Builder: BuilderFormA},
			{Prefix: "form.a", Builder: BuilderFormA},
		},
		Prefixes: map[string]string{
			"invoice":                          "INV",
			"invoice.normal":                   "INV",
			"invoice.commercial":               "INV-COM",
			"invoice.foreign.commercial":       "INV-COM",
			"invoice.proforma":                 "INV-PRO",
			"invoice.syrian.entry":             "INV-SE",
			"invoice.syrian.transit":           "INV-ST",
			"invoice.syrian.intermediary":      "INV-SI",
			"packing_list":                     "PKL",
			"packing_list.export.simple":       "PKL",
			"packing_list.export.with_dates":   "PKL",
			"packing_list.export.with_line_id": "PKL",
			"certificate_of_origin":            "COO",
			"form_a":                           "FORMA",
			"form.a":                           "FORMA",
			"cmr":                              "CMR",
		},
		DocumentTypeCodes: map[string]string{
			"invoice.foreign.commercial":       "INV_EXT",
			"invoice.commercial":               "INV_EXT",
			"invoice.normal":                   "INV_NORMAL",
			"invoice.proforma":                 "INV_PROFORMA",
			"invoice.syrian.intermediary":      "INV_SYR_INTERM",
			"invoice.syrian.transit":           "INV_SYR_TRANS",
			"invoice.syrian.entry":             "invoice.syrian.entry",
			"invoice.syrian":                   "INV_SY",
			"packing_list.export.simple":       "PL_EXPORT_SIMPLE",
			"packing_list.export.with_dates":   "PL_EXPORT_WITH_DATES",
			"packing_list.export.with_line_id": "PL_EXPORT_WITH_LINE_ID",
			"cmr":                              "cmr",
			"form_a":                           "form_a",
			"form.a":                           "form_a",
		},
	}
}

// Prefix returns the numbering prefix for docCode. Unknown codes use the last
// dotted segment, upper-cased and cut to six characters.
func (c *Catalog) Prefix(docCode string) string {
	if p, ok := c.Prefixes[docCode]; ok {
		return p
	}
	seg := docCode
	if i := strings.LastIndex(docCode, "."); i >= 0 {
		seg = docCode[i+1:]
	}
	r := []rune(strings.ToUpper(seg))
	if len(r) > defaultPrefixMaxRuneLength {
		r = r[:defaultPrefixMaxRuneLength]
	}
	return string(r)
}

// DocumentTypeCode maps docCode to a document_types.code. A trailing language
// suffix (".ar", ".en", ".tr") is stripped when the exact code is unmapped.
func (c *Catalog) DocumentTypeCode(docCode string) (string, error) {
	if code, ok := c.DocumentTypeCodes[docCode]; ok {
		return code, nil
	}
	for _, lang := range shared.AllLanguages() {
		suffix := "." + string(lang)
		if strings.HasSuffix(docCode, suffix) {
			if code, ok := c.DocumentTypeCodes[strings.TrimSuffix(docCode, suffix)]; ok {
				return code, nil
			}
		}
	}
	return "", shared.NewDomainError(shared.CodeConfiguration,
		fmt.Sprintf("no document type mapped for doc_code %q; known: %s",
			docCode, strings.Join(c.KnownDocCodes(), ", ")))
}

// TemplateFolder returns the template folder registered for docCode
func (c *Catalog) TemplateFolder(docCode string) (string, bool) {
	folder, ok := c.TemplateFolders[docCode]
	return folder, ok
}

// IsEnglishOnly reports whether docCode only ships English templates
func (c *Catalog) IsEnglishOnly(docCode string) bool {
	return c.EnglishOnly[docCode]
}

// KnownDocCodes returns the doc_codes with a document type mapping, sorted
func (c *Catalog) KnownDocCodes() []string {
	keys := make([]string, 0, len(c.DocumentTypeCodes))
	for k := range c.DocumentTypeCodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
